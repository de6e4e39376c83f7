// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store/sqlstore"
)

// Store is the concrete store the helpers operate on
type Store = sqlstore.Store

// SetupTestStore opens a fresh SQLite-backed store with the full schema.
// Each test gets its own database file, removed when the test ends.
func SetupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "ems.db") + "?_pragma=busy_timeout(5000)"
	st, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close(context.Background()) })

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          5000,
		DatabaseURL:   "file::memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		DatabaseName:  "evote_test",
		SessionSecret: "test-session-secret",
		SessionStore:  cliparse.SessionStoreMemory,
		SessionTTL:    time.Hour,
	}
}

// NewTestMetrics returns metrics bound to a private registry
func NewTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// CreateTestVoter inserts a voter directly and returns it with its record key
func CreateTestVoter(t *testing.T, st *Store, name, identity, dob string) models.Voter {
	t.Helper()

	v := models.Voter{Name: name, Identity: identity, DOB: dob, Age: 30}
	if err := st.Voters().Create(context.Background(), &v); err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return v
}

// CreateTestAdmin inserts an admin directly
func CreateTestAdmin(t *testing.T, st *Store, identity, dob string) models.Admin {
	t.Helper()

	a := models.Admin{Identity: identity, Name: "Test Admin", DOB: dob}
	if _, err := st.Admins().Ensure(context.Background(), a); err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return a
}

// CreateTestCandidate inserts a candidate directly and returns it with its record key
func CreateTestCandidate(t *testing.T, st *Store, name, party, identity string) models.Candidate {
	t.Helper()

	c := models.Candidate{Name: name, Party: party, Identity: identity, DOB: "1970-01-01", Age: 50}
	if err := st.Candidates().Create(context.Background(), &c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c
}

// CreateTestElection inserts an election over [start, end] whose snapshot
// holds the given candidates
func CreateTestElection(t *testing.T, st *Store, name string, start, end time.Time, candidates ...models.Candidate) models.Election {
	t.Helper()

	e := models.Election{Name: name, Start: start, End: end, Candidates: []models.CandidateSnapshot{}}
	for _, c := range candidates {
		e.Candidates = append(e.Candidates, models.CandidateSnapshot{
			ID:       c.ID,
			Identity: c.Identity,
			Name:     c.Name,
			Party:    c.Party,
		})
	}
	if err := st.Elections().Create(context.Background(), &e); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	return e
}

// CreateActiveElection is CreateTestElection over a window around now
func CreateActiveElection(t *testing.T, st *Store, candidates ...models.Candidate) models.Election {
	t.Helper()
	now := time.Now()
	return CreateTestElection(t, st, "Active Election", now.Add(-time.Hour), now.Add(time.Hour), candidates...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsPrincipal attaches a logged-in caller to the request, as the session
// middleware would
func AsPrincipal(req *http.Request, role, id string) *http.Request {
	return req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{Role: role, ID: id}))
}

// AsAdmin is AsPrincipal for an admin
func AsAdmin(req *http.Request) *http.Request {
	return AsPrincipal(req, models.RoleAdmin, "99999")
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertEnvelope checks success and message of an envelope response and
// returns its raw data for further decoding
func AssertEnvelope(t *testing.T, w *httptest.ResponseRecorder, success bool, message string) json.RawMessage {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	AssertJSON(t, w, &resp)

	if resp.Success != success {
		t.Errorf("Expected success=%v, got %v (message %q)", success, resp.Success, resp.Message)
	}
	if resp.Message != message {
		t.Errorf("Expected message %q, got %q", message, resp.Message)
	}
	return resp.Data
}

// DecodeData unmarshals envelope data into v
func DecodeData(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to decode envelope data %s: %v", data, err)
	}
}
