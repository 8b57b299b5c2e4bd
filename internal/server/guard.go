package server

import (
	"context"
	"net/http"

	"github.com/me/spq/internal/auth"
	"github.com/me/spq/pkg/model"
)

const (
	userContextKey    ctxKey = "user"
	failureContextKey ctxKey = "auth_failure"

	loginPath = "/login"
)

// UserFromContext returns the resolved account for the request, or nil.
func UserFromContext(ctx context.Context) *model.UserAccount {
	user, _ := ctx.Value(userContextKey).(*model.UserAccount)
	return user
}

// AuthFailureFromContext returns the recorded authorization failure, or
// nil. Only the login page ever sees one: everywhere else a failure ends
// the request with a redirect before a handler runs.
func AuthFailureFromContext(ctx context.Context) *model.AuthFailure {
	failure, _ := ctx.Value(failureContextKey).(*model.AuthFailure)
	return failure
}

// guardMiddleware resolves the session cookie, enforces the route-guard
// table, and maintains the cookie itself: a present-but-invalid cookie is
// cleared, and a valid one has its expiry pushed out on every request
// (sliding expiration).
func (s *Server) guardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isLogin := r.URL.Path == loginPath

		var user *model.UserAccount
		var token string
		if cookie, err := r.Cookie(auth.CookieName); err == nil {
			token = cookie.Value
			user, err = s.resolver.Resolve(token)
			if err != nil {
				// The credential dataset itself is unreadable. Fatal,
				// no retry.
				s.logger.Error("credential lookup failed", "error", err,
					"request_id", RequestIDFromContext(r.Context()))
				s.renderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
				return
			}

			// Stale or tampered cookie: clean it up regardless of where
			// the request ends up.
			if user == nil {
				auth.ClearAuthCookie(w, s.config.Secure)
			}
		}

		failure := auth.Check(s.rules, r.URL.Path, user, isLogin)

		if failure != nil && !isLogin {
			target := auth.LoginRedirectURL(r.URL.Path, r.URL.RawQuery, failure)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		if user != nil {
			auth.SetAuthCookie(w, token, s.config.Secure)
		}

		ctx := r.Context()
		if user != nil {
			ctx = context.WithValue(ctx, userContextKey, user)
		}
		if failure != nil {
			// Reaching here means the login page: it renders a
			// contextual message instead of redirecting to itself.
			ctx = context.WithValue(ctx, failureContextKey, failure)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
