package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/response"
)

type Handler struct {
	userService  Service
	respondJSON  response.JSONFunc
	respondError response.ErrorFunc
}

func NewHandler(userService Service, respondJSON response.JSONFunc, respondError response.ErrorFunc) *Handler {
	return &Handler{
		userService:  userService,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidUsername):
			h.respondError(w, http.StatusBadRequest, err.Error(), "username")
		case IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error(), "password")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not register user")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}
