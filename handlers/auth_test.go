// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
	"github.com/ImranJaved1073/SQE-EMS-Testing/testutil"
)

type failingAuthenticator struct{}

func (failingAuthenticator) Authenticate(context.Context, string, string) (auth.Principal, error) {
	return auth.Principal{}, errors.New("connection refused")
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	st := testutil.SetupTestStore(t)
	sessions := session.NewMemoryStore()
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, sessions, cfg, testutil.NewTestMetrics())

	testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")
	testutil.CreateTestAdmin(t, st, "99999", "1980-01-01")

	testCases := []struct {
		name        string
		body        models.LoginRequest
		wantSuccess bool
		wantMessage string
		wantRole    string
	}{
		{"voter", models.LoginRequest{Identity: "12345", DOB: "2000-01-01"}, true, "Login successful", models.RoleVoter},
		{"admin", models.LoginRequest{Identity: "99999", DOB: "1980-01-01"}, true, "Login successful", models.RoleAdmin},
		{"wrong dob", models.LoginRequest{Identity: "12345", DOB: "2000-01-02"}, false, "Invalid credentials", ""},
		{"unknown identity", models.LoginRequest{Identity: "55555", DOB: "2000-01-01"}, false, "Invalid credentials", ""},
		{"empty body fields", models.LoginRequest{}, false, "Invalid credentials", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Login(w, testutil.MakeRequest("POST", "/login", tc.body, nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			cookie := sessionCookie(w)
			data := testutil.AssertEnvelope(t, w, tc.wantSuccess, tc.wantMessage)

			if !tc.wantSuccess {
				if cookie != nil {
					t.Errorf("Failed login must not set a session cookie, got %v", cookie)
				}
				return
			}

			var resp models.LoginResponse
			testutil.DecodeData(t, data, &resp)
			if resp.Role != tc.wantRole {
				t.Errorf("Expected role %s, got %s", tc.wantRole, resp.Role)
			}

			if cookie == nil {
				t.Fatal("Expected session cookie")
			}
			if !cookie.HttpOnly || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("Unexpected cookie attributes: %+v", cookie)
			}
			if cookie.MaxAge != int(cfg.SessionTTL.Seconds()) {
				t.Errorf("Expected MaxAge %v, got %d", cfg.SessionTTL.Seconds(), cookie.MaxAge)
			}

			token, err := auth.VerifySignedToken(cookie.Value, cfg.SessionSecret)
			if err != nil {
				t.Fatalf("Cookie signature did not verify: %v", err)
			}
			p, err := sessions.Load(context.Background(), token)
			if err != nil {
				t.Fatalf("Session not stored: %v", err)
			}
			if p.Role != tc.wantRole {
				t.Errorf("Expected stored role %s, got %s", tc.wantRole, p.Role)
			}
		})
	}

	if got := promtest.ToFloat64(h.metrics.Logins.WithLabelValues(metrics.LoginSuccess)); got != 2 {
		t.Errorf("Expected 2 successful logins, got %v", got)
	}
	if got := promtest.ToFloat64(h.metrics.Logins.WithLabelValues(metrics.LoginFailure)); got != 3 {
		t.Errorf("Expected 3 failed logins, got %v", got)
	}
}

func TestLogin_SecureCookie(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	cfg.SecureCookies = true
	h := NewAuthHandler(st, session.NewMemoryStore(), cfg, testutil.NewTestMetrics())
	testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")

	w := httptest.NewRecorder()
	h.Login(w, testutil.MakeRequest("POST", "/login", models.LoginRequest{Identity: "12345", DOB: "2000-01-01"}, nil))

	cookie := sessionCookie(w)
	if cookie == nil || !cookie.Secure {
		t.Errorf("Expected a Secure session cookie, got %+v", cookie)
	}
}

func TestLogin_Errors(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewAuthHandler(st, session.NewMemoryStore(), testutil.GetTestConfig(), testutil.NewTestMetrics())

	t.Run("invalid JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest("POST", "/login", strings.NewReader("identity=1")))

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		testutil.AssertEnvelope(t, w, false, "Invalid JSON")
	})

	t.Run("lookup failure", func(t *testing.T) {
		h.WithAuthenticator(failingAuthenticator{})
		w := httptest.NewRecorder()
		h.Login(w, testutil.MakeRequest("POST", "/login", models.LoginRequest{Identity: "1", DOB: "2000-01-01"}, nil))

		testutil.AssertStatus(t, w, http.StatusInternalServerError)
		testutil.AssertEnvelope(t, w, false, "Database error")
	})
}

func TestLogout(t *testing.T) {
	st := testutil.SetupTestStore(t)
	sessions := session.NewMemoryStore()
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, sessions, cfg, testutil.NewTestMetrics())

	token := "logout-test-token"
	if err := sessions.Save(context.Background(), token, auth.Principal{Role: models.RoleVoter, ID: "12345"}, cfg.SessionTTL); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}

	req := testutil.MakeRequest("POST", "/logout", nil, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: auth.SignToken(token, cfg.SessionSecret)})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertEnvelope(t, w, true, "Logged out successfully.")

	if _, err := sessions.Load(context.Background(), token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected session removed, got %v", err)
	}
	if cookie := sessionCookie(w); cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("Expected an expiring session cookie, got %+v", cookie)
	}

	// Logging out without a session still succeeds
	w = httptest.NewRecorder()
	h.Logout(w, testutil.MakeRequest("POST", "/logout", nil, nil))
	testutil.AssertEnvelope(t, w, true, "Logged out successfully.")
}
