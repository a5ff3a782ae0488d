package auth

import (
	"net/http"

	"github.com/sebuszqo/BudgetTracker/pkg/ctxutil"
)

// SessionMiddleware attaches the session's principal to the request context
// when the request carries a valid session cookie. Requests without one pass
// through unauthenticated; handlers decide whether that is an error.
func SessionMiddleware(authService Service, cookies CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookies.Name)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := authService.CurrentUser(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			// Keep the browser cookie in step with the refreshed inactivity deadline.
			http.SetCookie(w, cookies.session(cookie.Value))

			ctx := ctxutil.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
