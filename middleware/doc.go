// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Wrap handlers with request logging and latency metrics:

	mux.HandleFunc("GET /get_voters", middleware.WithLogging(
		middleware.WithMetrics(m, "GET /get_voters", handler)))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

Sessions resolves the signed ems_session cookie and attaches the caller:

	handler := middleware.Sessions(sessionStore, cfg.SessionSecret)(mux)

Route gates read the attached principal:

	middleware.RequireLogin(h)   // anonymous -> 302 /login_page
	middleware.RequireSession(h) // anonymous -> 403 "Access denied."
	middleware.RequireAdmin(h)   // non-admin -> 403 "Access denied."

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
	}

Only origins on the allowed list are echoed back, with credentials
allowed so the session cookie travels on cross-origin calls. Other
origins get no CORS headers.

# Envelopes

Every endpoint answers with {success, message, data}:

	middleware.Success(w, "Voter registered successfully.", nil)
	middleware.Failure(w, "Voter already registered.")
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")

Failure keeps status 200; ErrorResponse is for transport-level rejections.

Parse JSON request bodies:

	var req models.VoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for IP hashing when logging rejected logins.
*/
package middleware
