// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "ems_session"

// LoginPath is where anonymous callers of login-gated reads are sent
const LoginPath = "/login_page"

const msgAccessDenied = "Access denied."

// Sessions resolves the session cookie and attaches the principal to the
// request context. Requests without a valid session pass through anonymous.
func Sessions(store session.Store, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := auth.VerifySignedToken(cookie.Value, secret)
			if err != nil {
				slog.Warn("rejected session cookie", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			p, err := store.Load(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					slog.Error("failed to load session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireLogin redirects anonymous callers to the login page
func RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next(w, r)
	}
}

// RequireSession rejects anonymous callers of protected writes with 403
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			ErrorResponse(w, http.StatusForbidden, msgAccessDenied)
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects anyone but a logged-in admin with 403
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok || !p.IsAdmin() {
			ErrorResponse(w, http.StatusForbidden, msgAccessDenied)
			return
		}
		next(w, r)
	}
}
