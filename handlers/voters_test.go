// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/testutil"
)

// fixedNow pins handler clocks so age checks are stable
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newVoterHandler(t *testing.T) (*VoterHandler, *testutil.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	h := NewVoterHandler(st, testutil.GetTestConfig())
	h.now = func() time.Time { return fixedNow }
	return h, st
}

func TestRegisterVoter(t *testing.T) {
	h, st := newVoterHandler(t)

	testCases := []struct {
		name        string
		body        models.VoterRequest
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "valid voter",
			body:        models.VoterRequest{Name: "Imran", Identity: "12345", DOB: "2000-01-01"},
			wantSuccess: true,
			wantMessage: "Voter registered successfully.",
		},
		{
			name:        "same identity again",
			body:        models.VoterRequest{Name: "Imran", Identity: "12345", DOB: "2000-01-01"},
			wantMessage: "Voter already registered.",
		},
		{
			name:        "padded dob",
			body:        models.VoterRequest{Name: "Sana", Identity: "67890", DOB: " 1995-06-15 "},
			wantSuccess: true,
			wantMessage: "Voter registered successfully.",
		},
		{
			name:        "duplicate reported before age",
			body:        models.VoterRequest{Name: "Young Imran", Identity: "12345", DOB: "2010-01-01"},
			wantMessage: "Voter already registered.",
		},
		{
			name:        "underage",
			body:        models.VoterRequest{Name: "Kid", Identity: "54321", DOB: "2010-01-01"},
			wantMessage: "Voter must be at least 18 years old.",
		},
		{
			name:        "non-numeric identity",
			body:        models.VoterRequest{Name: "Imran", Identity: "35202-3722317", DOB: "2000-01-01"},
			wantMessage: "Identity must be a valid number.",
		},
		{
			name:        "malformed date",
			body:        models.VoterRequest{Name: "Imran", Identity: "777", DOB: "01/01/2000"},
			wantMessage: "Invalid date format. Use YYYY-MM-DD.",
		},
		{
			name:        "missing name",
			body:        models.VoterRequest{Name: "  ", Identity: "888", DOB: "2000-01-01"},
			wantMessage: "Name is required.",
		},
	}

	// Cases share a store and run in order
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.AsAdmin(testutil.MakeRequest("POST", "/register_voter", tc.body, nil))
			w := httptest.NewRecorder()

			h.RegisterVoter(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertEnvelope(t, w, tc.wantSuccess, tc.wantMessage)
		})
	}

	voters, err := st.Voters().List(context.Background())
	if err != nil {
		t.Fatalf("Failed to list voters: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("Expected exactly 2 stored voters, got %d", len(voters))
	}

	want := map[string]models.Voter{
		"12345": {DOB: "2000-01-01", Age: 25},
		"67890": {DOB: "1995-06-15", Age: 30},
	}
	for _, v := range voters {
		w, ok := want[v.Identity]
		if !ok {
			t.Errorf("Unexpected stored voter %+v", v)
			continue
		}
		if v.DOB != w.DOB || v.Age != w.Age {
			t.Errorf("Voter %s: expected dob %q age %d, got dob %q age %d", v.Identity, w.DOB, w.Age, v.DOB, v.Age)
		}
	}

	// The canonical dob is what login matches against
	if _, err := st.Voters().FindByCredentials(context.Background(), "67890", "1995-06-15"); err != nil {
		t.Errorf("Expected padded-dob voter to be found by canonical dob: %v", err)
	}
}

func TestRegisterVoter_InvalidJSON(t *testing.T) {
	h, _ := newVoterHandler(t)

	req := httptest.NewRequest("POST", "/register_voter", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.RegisterVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, false, "Invalid JSON")
}

func TestGetVoters(t *testing.T) {
	h, st := newVoterHandler(t)
	testutil.CreateTestVoter(t, st, "Bilal", "222", "1990-01-01")
	testutil.CreateTestVoter(t, st, "Ayesha", "111", "1991-01-01")

	w := httptest.NewRecorder()
	h.GetVoters(w, testutil.AsAdmin(testutil.MakeRequest("GET", "/get_voters", nil, nil)))

	testutil.AssertStatus(t, w, http.StatusOK)
	data := testutil.AssertEnvelope(t, w, true, "Voters retrieved successfully.")

	var voters []models.Voter
	testutil.DecodeData(t, data, &voters)

	if len(voters) != 2 {
		t.Fatalf("Expected 2 voters, got %d", len(voters))
	}
	if voters[0].Name != "Ayesha" || voters[1].Name != "Bilal" {
		t.Errorf("Expected voters ordered by name, got %s, %s", voters[0].Name, voters[1].Name)
	}
	if voters[0].ID == "" || voters[0].Identity != "111" || voters[0].DOB != "1991-01-01" {
		t.Errorf("Unexpected voter payload: %+v", voters[0])
	}
}

func TestGetVoters_Empty(t *testing.T) {
	h, _ := newVoterHandler(t)

	w := httptest.NewRecorder()
	h.GetVoters(w, testutil.AsAdmin(testutil.MakeRequest("GET", "/get_voters", nil, nil)))

	data := testutil.AssertEnvelope(t, w, true, "Voters retrieved successfully.")
	if string(data) != "[]" {
		t.Errorf("Expected empty list, got %s", data)
	}
}

func TestGetVoter(t *testing.T) {
	h, st := newVoterHandler(t)
	v := testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")

	t.Run("found", func(t *testing.T) {
		req := testutil.AsAdmin(testutil.MakeRequest("GET", "/get_voter/"+v.ID, nil, nil))
		req.SetPathValue("id", v.ID)
		w := httptest.NewRecorder()

		h.GetVoter(w, req)

		data := testutil.AssertEnvelope(t, w, true, "Voter details retrieved successfully.")
		var got models.Voter
		testutil.DecodeData(t, data, &got)
		if got.Name != "Imran" || got.Identity != "12345" {
			t.Errorf("Unexpected voter: %+v", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := testutil.AsAdmin(testutil.MakeRequest("GET", "/get_voter/nope", nil, nil))
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		h.GetVoter(w, req)

		testutil.AssertEnvelope(t, w, false, "Voter not found.")
	})
}

func TestEditVoter(t *testing.T) {
	h, st := newVoterHandler(t)
	v := testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")
	testutil.CreateTestVoter(t, st, "Other", "99", "2000-01-01")

	testCases := []struct {
		name        string
		id          string
		body        models.VoterRequest
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "rename",
			id:          v.ID,
			body:        models.VoterRequest{Name: "Imran Javed", Identity: "12345", DOB: "2000-01-01"},
			wantSuccess: true,
			wantMessage: "Voter updated successfully.",
		},
		{
			name:        "age re-validated",
			id:          v.ID,
			body:        models.VoterRequest{Name: "Imran", Identity: "12345", DOB: "2010-01-01"},
			wantMessage: "Voter must be at least 18 years old.",
		},
		{
			name:        "malformed date",
			id:          v.ID,
			body:        models.VoterRequest{Name: "Imran", Identity: "12345", DOB: "2000-1-1x"},
			wantMessage: "Invalid date format. Use YYYY-MM-DD.",
		},
		{
			name:        "identity taken",
			id:          v.ID,
			body:        models.VoterRequest{Name: "Imran", Identity: "99", DOB: "2000-01-01"},
			wantMessage: "Voter already registered.",
		},
		{
			name:        "non-numeric identity",
			id:          v.ID,
			body:        models.VoterRequest{Name: "Imran", Identity: "abc", DOB: "2000-01-01"},
			wantMessage: "Identity must be a valid number.",
		},
		{
			name:        "unknown voter",
			id:          "does-not-exist",
			body:        models.VoterRequest{Name: "Imran", Identity: "555", DOB: "2000-01-01"},
			wantMessage: "Voter not found.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.AsAdmin(testutil.MakeRequest("PUT", "/edit_voter/"+tc.id, tc.body, nil))
			req.SetPathValue("id", tc.id)
			w := httptest.NewRecorder()

			h.EditVoter(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertEnvelope(t, w, tc.wantSuccess, tc.wantMessage)
		})
	}

	got, err := st.Voters().Get(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Failed to reload voter: %v", err)
	}
	if got.Name != "Imran Javed" || got.DOB != "2000-01-01" {
		t.Errorf("Rejected edits must not be applied, got %+v", got)
	}
}

func TestDeleteVoter(t *testing.T) {
	h, st := newVoterHandler(t)
	v := testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")

	del := func() *httptest.ResponseRecorder {
		req := testutil.AsAdmin(testutil.MakeRequest("DELETE", "/delete_voter/"+v.ID, nil, nil))
		req.SetPathValue("id", v.ID)
		w := httptest.NewRecorder()
		h.DeleteVoter(w, req)
		return w
	}

	testutil.AssertEnvelope(t, del(), true, "Voter deleted successfully.")
	testutil.AssertEnvelope(t, del(), false, "Voter not found.")
}
