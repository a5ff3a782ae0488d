package interfaces

import (
	"errors"
	"net/http"
	"strconv"

	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/response"
	"github.com/sebuszqo/BudgetTracker/pkg/ctxutil"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgNotLoggedIn    = "Not logged in"
	msgInvalidParam   = "Invalid query parameter"
	statusClientError = http.StatusBadRequest
)

type responders struct {
	respondJSON  response.JSONFunc
	respondError response.ErrorFunc
}

func newResponders(respondJSON response.JSONFunc, respondError response.ErrorFunc) responders {
	if respondJSON == nil || respondError == nil {
		panic("Response functions must not be nil")
	}
	return responders{respondJSON: respondJSON, respondError: respondError}
}

// userID writes 401 and returns false when the request carries no session user.
func (h responders) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return "", false
	}
	return id, true
}

// serviceError maps the finance error taxonomy to a status and a client-safe message.
func (h responders) serviceError(w http.ResponseWriter, err error) {
	var validationErr *financeErrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.respondError(w, statusClientError, validationErr.Msg, validationErr.Field)
	case errors.Is(err, financeErrors.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, financeErrors.ErrConflict):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, financeErrors.ErrInternal):
		h.respondError(w, http.StatusInternalServerError, financeErrors.ErrInternal.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, financeErrors.ErrStorageUnavailable.Error())
	}
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, financeErrors.NewValidationError(name, msgInvalidParam+": "+name)
	}
	return &v, nil
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, financeErrors.NewValidationError(name, msgInvalidParam+": "+name)
	}
	return &v, nil
}

func queryString(r *http.Request, name string) *string {
	q := r.URL.Query()
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}
