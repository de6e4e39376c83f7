// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
)

const testSecret = "test-session-secret"

// whoami echoes the principal the middleware attached, if any
func whoami(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(p.Role + ":" + p.ID))
}

func TestSessions(t *testing.T) {
	store := session.NewMemoryStore()
	token, _ := auth.GenerateSessionToken()
	store.Save(context.Background(), token, auth.Principal{Role: models.RoleVoter, ID: "12345"}, time.Hour)

	handler := Sessions(store, testSecret)(http.HandlerFunc(whoami))

	testCases := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{"no cookie", nil, "anonymous"},
		{"valid cookie", &http.Cookie{Name: SessionCookieName, Value: auth.SignToken(token, testSecret)}, "voter:12345"},
		{"wrong secret", &http.Cookie{Name: SessionCookieName, Value: auth.SignToken(token, "other")}, "anonymous"},
		{"unsigned token", &http.Cookie{Name: SessionCookieName, Value: token}, "anonymous"},
		{"unknown session", &http.Cookie{Name: SessionCookieName, Value: auth.SignToken("missing", testSecret)}, "anonymous"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Body.String() != tc.want {
				t.Errorf("Expected '%s', got '%s'", tc.want, w.Body.String())
			}
		})
	}
}

func TestRequireLogin(t *testing.T) {
	handler := RequireLogin(whoami)

	t.Run("anonymous is redirected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/available_elections", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("Expected status %d, got %d", http.StatusFound, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Expected redirect to %s, got %s", LoginPath, loc)
		}
	})

	for _, role := range []string{models.RoleVoter, models.RoleAdmin} {
		t.Run(role+" passes", func(t *testing.T) {
			req := httptest.NewRequest("GET", "/available_elections", nil)
			req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{Role: role, ID: "1"}))
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			if w.Body.String() != role+":1" {
				t.Errorf("Unexpected body: %s", w.Body.String())
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(whoami)

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("POST", "/cast_vote", nil))

		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected status %d, got %d. Body: %s", http.StatusForbidden, w.Code, w.Body.String())
		}
		if loc := w.Header().Get("Location"); loc != "" {
			t.Errorf("Expected no redirect, got Location %q", loc)
		}

		var resp models.Response
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode envelope: %v", err)
		}
		if resp.Success || resp.Message != "Access denied." {
			t.Errorf("Unexpected envelope: %+v", resp)
		}
	})

	for _, role := range []string{models.RoleVoter, models.RoleAdmin} {
		t.Run(role, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/cast_vote", nil)
			req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{Role: role, ID: "12345"}))
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status %d, got %d. Body: %s", http.StatusOK, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(whoami)

	testCases := []struct {
		name       string
		principal  *auth.Principal
		wantStatus int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"voter", &auth.Principal{Role: models.RoleVoter, ID: "12345"}, http.StatusForbidden},
		{"admin", &auth.Principal{Role: models.RoleAdmin, ID: "99999"}, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/register_voter", nil)
			if tc.principal != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), *tc.principal))
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d. Body: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.wantStatus != http.StatusForbidden {
				return
			}

			var resp models.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode envelope: %v", err)
			}
			if resp.Success || resp.Message != "Access denied." {
				t.Errorf("Unexpected envelope: %+v", resp)
			}
		})
	}
}
