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

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/testutil"
)

func newVotingHandler(t *testing.T) (*VotingHandler, *testutil.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	h := NewVotingHandler(st, testutil.GetTestConfig(), testutil.NewTestMetrics())
	h.now = func() time.Time { return fixedNow }
	return h, st
}

// registerVoters stores a voter for each identity so sessions for them
// resolve to a registered voter
func registerVoters(t *testing.T, st *testutil.Store, identities ...string) {
	t.Helper()
	for _, identity := range identities {
		testutil.CreateTestVoter(t, st, "Voter "+identity, identity, "1990-01-01")
	}
}

func castVote(h *VotingHandler, voterIdentity, electionID, candidateID string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/cast_vote", models.CastVoteRequest{
		ElectionID:  electionID,
		CandidateID: candidateID,
	}, nil)
	req = testutil.AsPrincipal(req, models.RoleVoter, voterIdentity)
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	return w
}

func TestCastVote(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	bushra := testutil.CreateTestCandidate(t, st, "Bushra", "PML", "1002")
	e := testutil.CreateTestElection(t, st, "General", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), ali, bushra)
	registerVoters(t, st, "12345")

	w := castVote(h, "12345", e.ID, ali.ID)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertEnvelope(t, w, true, "Vote cast successfully.")

	stored, err := st.Elections().Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to reload election: %v", err)
	}
	if !stored.HasVoted("12345") {
		t.Error("Expected voter marker to be recorded")
	}
	if stored.Ledger.Tallies[ali.ID] != 1 || stored.Ledger.Tallies[bushra.ID] != 0 {
		t.Errorf("Unexpected tallies: %+v", stored.Ledger.Tallies)
	}

	if got := promtest.ToFloat64(h.metrics.VotesCast); got != 1 {
		t.Errorf("Expected votes cast counter 1, got %v", got)
	}
}

func TestCastVote_Rejections(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	active := testutil.CreateTestElection(t, st, "Active", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), ali)
	future := testutil.CreateTestElection(t, st, "Future", fixedNow.Add(24*time.Hour), fixedNow.Add(48*time.Hour), ali)
	past := testutil.CreateTestElection(t, st, "Past", fixedNow.Add(-48*time.Hour), fixedNow.Add(-24*time.Hour), ali)
	registerVoters(t, st, "11111", "22222")

	if err := st.Elections().RecordVote(context.Background(), active.ID, "11111", ali.ID); err != nil {
		t.Fatalf("Failed to seed vote: %v", err)
	}

	testCases := []struct {
		name        string
		voter       string
		electionID  string
		candidateID string
		wantMessage string
		wantReason  string
	}{
		{"unknown election", "22222", "missing", ali.ID, "Election not found.", metrics.ReasonUnknownElection},
		{"not started", "22222", future.ID, ali.ID, "Election is not active.", metrics.ReasonNotActive},
		{"already ended", "22222", past.ID, ali.ID, "Election is not active.", metrics.ReasonNotActive},
		{"already voted", "11111", active.ID, ali.ID, "Voter has already cast a vote in this election.", metrics.ReasonAlreadyVoted},
		{"unknown candidate", "22222", active.ID, "missing", "Candidate not found.", metrics.ReasonInvalidCandidate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := promtest.ToFloat64(h.metrics.VotesRejected.WithLabelValues(tc.wantReason))

			w := castVote(h, tc.voter, tc.electionID, tc.candidateID)

			testutil.AssertStatus(t, w, http.StatusOK)
			testutil.AssertEnvelope(t, w, false, tc.wantMessage)

			after := promtest.ToFloat64(h.metrics.VotesRejected.WithLabelValues(tc.wantReason))
			if after != before+1 {
				t.Errorf("Expected %s rejection counter to increase by 1, got %v -> %v", tc.wantReason, before, after)
			}
		})
	}

	stored, err := st.Elections().Get(context.Background(), active.ID)
	if err != nil {
		t.Fatalf("Failed to reload election: %v", err)
	}
	if len(stored.Ledger.Voters) != 1 || stored.Ledger.Tallies[ali.ID] != 1 {
		t.Errorf("Rejected votes must not touch the ledger, got %+v", stored.Ledger)
	}
	if got := promtest.ToFloat64(h.metrics.VotesCast); got != 0 {
		t.Errorf("Expected no successful votes, got %v", got)
	}
}

func TestCastVote_WindowBounds(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	start := fixedNow
	end := fixedNow.Add(time.Hour)
	e := testutil.CreateTestElection(t, st, "Window", start, end, ali)
	registerVoters(t, st, "1", "2", "3", "4")

	testCases := []struct {
		name   string
		at     time.Time
		voter  string
		active bool
	}{
		{"just before start", start.Add(-time.Millisecond), "1", false},
		{"at start", start, "2", true},
		{"at end", end, "3", true},
		{"just after end", end.Add(time.Millisecond), "4", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			at := tc.at
			h.now = func() time.Time { return at }

			w := castVote(h, tc.voter, e.ID, ali.ID)

			if tc.active {
				testutil.AssertEnvelope(t, w, true, "Vote cast successfully.")
			} else {
				testutil.AssertEnvelope(t, w, false, "Election is not active.")
			}
		})
	}
}

func TestCastVote_CandidateOutsideSnapshot(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	outsider := testutil.CreateTestCandidate(t, st, "Outsider", "IND", "1003")
	e := testutil.CreateTestElection(t, st, "General", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), ali)
	registerVoters(t, st, "12345")

	w := castVote(h, "12345", e.ID, outsider.ID)
	testutil.AssertEnvelope(t, w, true, "Vote cast successfully.")

	stored, err := st.Elections().Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to reload election: %v", err)
	}

	// Counted in the ledger but absent from reported results
	results := ComputeResults(stored)
	if len(results.Results) != 1 || results.Results[0].Votes != 0 {
		t.Errorf("Expected only the snapshot candidate with 0 votes, got %+v", results.Results)
	}
	if stored.Ledger.Tallies[outsider.ID] != 1 {
		t.Errorf("Expected outsider tally 1, got %d", stored.Ledger.Tallies[outsider.ID])
	}
}

func TestCastVote_Access(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	e := testutil.CreateTestElection(t, st, "General", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), ali)
	body := models.CastVoteRequest{ElectionID: e.ID, CandidateID: ali.ID}
	registerVoters(t, st, "12345")

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.CastVote(w, testutil.MakeRequest("POST", "/cast_vote", body, nil))

		testutil.AssertStatus(t, w, http.StatusForbidden)
		testutil.AssertEnvelope(t, w, false, "Access denied.")
	})

	t.Run("admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.CastVote(w, testutil.AsAdmin(testutil.MakeRequest("POST", "/cast_vote", body, nil)))

		testutil.AssertStatus(t, w, http.StatusForbidden)
		testutil.AssertEnvelope(t, w, false, "Admins are not allowed to cast votes.")

		if got := promtest.ToFloat64(h.metrics.VotesRejected.WithLabelValues(metrics.ReasonNotVoter)); got != 1 {
			t.Errorf("Expected not_voter rejection counter 1, got %v", got)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/cast_vote", strings.NewReader("{"))
		req = testutil.AsPrincipal(req, models.RoleVoter, "12345")
		w := httptest.NewRecorder()

		h.CastVote(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		testutil.AssertEnvelope(t, w, false, "Invalid JSON")
	})

	t.Run("unregistered voter", func(t *testing.T) {
		w := castVote(h, "55555", e.ID, ali.ID)

		testutil.AssertStatus(t, w, http.StatusForbidden)
		testutil.AssertEnvelope(t, w, false, "Access denied.")
	})

	stored, err := st.Elections().Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to reload election: %v", err)
	}
	if len(stored.Ledger.Voters) != 0 {
		t.Errorf("Expected no votes recorded, got %+v", stored.Ledger)
	}
}

func TestCastVote_DeletedVoter(t *testing.T) {
	h, st := newVotingHandler(t)
	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	e := testutil.CreateTestElection(t, st, "General", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), ali)
	v := testutil.CreateTestVoter(t, st, "Imran", "12345", "2000-01-01")

	if err := st.Voters().Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("Failed to delete voter: %v", err)
	}

	// The session principal is still a voter, but the record is gone
	w := castVote(h, "12345", e.ID, ali.ID)

	testutil.AssertStatus(t, w, http.StatusForbidden)
	testutil.AssertEnvelope(t, w, false, "Access denied.")

	if got := promtest.ToFloat64(h.metrics.VotesRejected.WithLabelValues(metrics.ReasonNotVoter)); got != 1 {
		t.Errorf("Expected not_voter rejection counter 1, got %v", got)
	}

	stored, err := st.Elections().Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to reload election: %v", err)
	}
	if stored.HasVoted("12345") {
		t.Error("Deleted voter must not be recorded")
	}
}
