package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/response"
	"github.com/sebuszqo/BudgetTracker/internal/user"
	"github.com/sebuszqo/BudgetTracker/pkg/ctxutil"
)

const DefaultCookieName = "budget_session"

// CookieConfig describes the session cookie. Secure is set in production.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (c CookieConfig) session(value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) expired() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type Handler struct {
	authService  Service
	cookies      CookieConfig
	respondJSON  response.JSONFunc
	respondError response.ErrorFunc
}

func NewHandler(authService Service, cookies CookieConfig, respondJSON response.JSONFunc, respondError response.ErrorFunc) *Handler {
	if cookies.Name == "" {
		cookies.Name = DefaultCookieName
	}
	return &Handler{
		authService:  authService,
		cookies:      cookies,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var previous string
	if cookie, err := r.Cookie(h.cookies.Name); err == nil {
		previous = cookie.Value
	}

	publicUser, cookieValue, err := h.authService.Login(r.Context(), previous, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, h.cookies.session(cookieValue))
	h.respondJSON(w, http.StatusOK, publicUser)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, user.PublicUser{ID: principal.UserID, Username: principal.Username})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookies.Name); err == nil {
		h.authService.Logout(cookie.Value)
	}
	http.SetCookie(w, h.cookies.expired())
	response.NoContent(w)
}
