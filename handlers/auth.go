// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type AuthHandler struct {
	authn    auth.Authenticator
	sessions session.Store
	cfg      cliparse.Config
	metrics  *metrics.Metrics
}

func NewAuthHandler(st store.Store, sessions session.Store, cfg cliparse.Config, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authn:    auth.NewCredentialAuthenticator(st.Voters(), st.Admins()),
		sessions: sessions,
		cfg:      cfg,
		metrics:  m,
	}
}

// WithAuthenticator swaps the credential scheme
func (h *AuthHandler) WithAuthenticator(a auth.Authenticator) *AuthHandler {
	h.authn = a
	return h
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	p, err := h.authn.Authenticate(r.Context(), req.Identity, req.DOB)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.metrics.Logins.WithLabelValues(metrics.LoginFailure).Inc()
		slog.Warn("login rejected",
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
		)
		middleware.Failure(w, msgInvalidCredentials)
		return
	}
	if err != nil {
		slog.Error("failed to authenticate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := h.sessions.Save(r.Context(), token, p, h.cfg.SessionTTL); err != nil {
		slog.Error("failed to save session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    auth.SignToken(token, h.cfg.SessionSecret),
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()
	slog.Info("login", "role", p.Role)

	middleware.Success(w, msgLoginSuccess, models.LoginResponse{Role: p.Role})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if token, err := auth.VerifySignedToken(cookie.Value, h.cfg.SessionSecret); err == nil {
			if err := h.sessions.Delete(r.Context(), token); err != nil {
				slog.Error("failed to delete session", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to end session")
				return
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.Success(w, msgLoggedOut, nil)
}
