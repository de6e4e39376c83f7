// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/testutil"
)

func snapshotOf(names ...string) []models.CandidateSnapshot {
	out := make([]models.CandidateSnapshot, 0, len(names))
	for i, n := range names {
		out = append(out, models.CandidateSnapshot{
			ID:       "c" + string(rune('1'+i)),
			Identity: "100" + string(rune('1'+i)),
			Name:     n,
			Party:    n + " Party",
		})
	}
	return out
}

func TestComputeResults(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []models.CandidateSnapshot
		tallies    map[string]int
		wantVotes  []int
		wantWinner *models.ResultEntry
	}{
		{
			name:       "clear leader",
			candidates: snapshotOf("Ali", "Bushra", "Chaudhry"),
			tallies:    map[string]int{"c1": 3, "c2": 5, "c3": 1},
			wantVotes:  []int{3, 5, 1},
			wantWinner: &models.ResultEntry{Name: "Bushra", Party: "Bushra Party", Votes: 5},
		},
		{
			name:       "tie at the top is a draw",
			candidates: snapshotOf("Ali", "Bushra", "Chaudhry"),
			tallies:    map[string]int{"c1": 4, "c2": 4, "c3": 2},
			wantVotes:  []int{4, 4, 2},
			wantWinner: &models.ResultEntry{Name: "Draw", Party: "N/A", Votes: 4},
		},
		{
			name:       "tie below the leader is not a draw",
			candidates: snapshotOf("Ali", "Bushra", "Chaudhry"),
			tallies:    map[string]int{"c1": 1, "c2": 1, "c3": 2},
			wantVotes:  []int{1, 1, 2},
			wantWinner: &models.ResultEntry{Name: "Chaudhry", Party: "Chaudhry Party", Votes: 2},
		},
		{
			name:       "missing tallies count as zero",
			candidates: snapshotOf("Ali", "Bushra"),
			tallies:    map[string]int{"c2": 1},
			wantVotes:  []int{0, 1},
			wantWinner: &models.ResultEntry{Name: "Bushra", Party: "Bushra Party", Votes: 1},
		},
		{
			name:       "single candidate",
			candidates: snapshotOf("Ali"),
			tallies:    map[string]int{},
			wantVotes:  []int{0},
			wantWinner: &models.ResultEntry{Name: "Ali", Party: "Ali Party", Votes: 0},
		},
		{
			name:       "empty snapshot",
			candidates: nil,
			tallies:    map[string]int{"c9": 3},
			wantVotes:  []int{},
			wantWinner: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := models.Election{
				Candidates: tc.candidates,
				Ledger:     models.Ledger{Voters: map[string]bool{"v": true}, Tallies: tc.tallies},
			}

			got := ComputeResults(e)

			if got.Results == nil {
				t.Fatal("Results must be a non-nil slice")
			}
			if len(got.Results) != len(tc.wantVotes) {
				t.Fatalf("Expected %d results, got %d", len(tc.wantVotes), len(got.Results))
			}
			for i, want := range tc.wantVotes {
				if got.Results[i].Votes != want {
					t.Errorf("Result %d (%s): expected %d votes, got %d", i, got.Results[i].Name, want, got.Results[i].Votes)
				}
				if got.Results[i].Name != tc.candidates[i].Name {
					t.Errorf("Result %d: expected snapshot order, got %s", i, got.Results[i].Name)
				}
			}

			switch {
			case tc.wantWinner == nil && got.Winner != nil:
				t.Errorf("Expected no winner, got %+v", got.Winner)
			case tc.wantWinner != nil && got.Winner == nil:
				t.Errorf("Expected winner %+v, got none", tc.wantWinner)
			case tc.wantWinner != nil && *got.Winner != *tc.wantWinner:
				t.Errorf("Expected winner %+v, got %+v", tc.wantWinner, got.Winner)
			}
		})
	}
}

func TestGetResults(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewResultsHandler(st, testutil.GetTestConfig())

	ali := testutil.CreateTestCandidate(t, st, "Ali", "PTI", "1001")
	bushra := testutil.CreateTestCandidate(t, st, "Bushra", "PML", "1002")
	now := time.Now()
	e := testutil.CreateTestElection(t, st, "General", now.Add(-time.Hour), now.Add(time.Hour), ali, bushra)

	get := func(id string) *httptest.ResponseRecorder {
		req := testutil.AsPrincipal(testutil.MakeRequest("GET", "/get_results/"+id, nil, nil), models.RoleVoter, "12345")
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.GetResults(w, req)
		return w
	}

	t.Run("unknown election", func(t *testing.T) {
		testutil.AssertEnvelope(t, get("missing"), false, "Election not found.")
	})

	t.Run("no votes yet", func(t *testing.T) {
		w := get(e.ID)

		testutil.AssertStatus(t, w, http.StatusOK)
		data := testutil.AssertEnvelope(t, w, true, "No votes have been cast yet.")
		if string(data) != `{"results":[],"winner":null}` {
			t.Errorf("Unexpected empty results payload: %s", data)
		}
	})

	ctx := context.Background()
	for voter, candidate := range map[string]string{"1": bushra.ID, "2": bushra.ID, "3": ali.ID} {
		if err := st.Elections().RecordVote(ctx, e.ID, voter, candidate); err != nil {
			t.Fatalf("Failed to record vote: %v", err)
		}
	}

	t.Run("with votes", func(t *testing.T) {
		data := testutil.AssertEnvelope(t, get(e.ID), true, "Results retrieved successfully.")

		var resp models.ResultsResponse
		testutil.DecodeData(t, data, &resp)

		if len(resp.Results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(resp.Results))
		}
		if resp.Results[0].Name != "Ali" || resp.Results[0].Votes != 1 {
			t.Errorf("Unexpected first result: %+v", resp.Results[0])
		}
		if resp.Results[1].Name != "Bushra" || resp.Results[1].Votes != 2 {
			t.Errorf("Unexpected second result: %+v", resp.Results[1])
		}
		if resp.Winner == nil || resp.Winner.Name != "Bushra" || resp.Winner.Party != "PML" {
			t.Errorf("Unexpected winner: %+v", resp.Winner)
		}
	})
}
