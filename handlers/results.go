// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type ResultsHandler struct {
	st  store.Store
	cfg cliparse.Config
}

func NewResultsHandler(st store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{st: st, cfg: cfg}
}

// GetResults handles GET /get_results/{id}
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	election, err := h.st.Elections().Get(r.Context(), electionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgElectionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	if len(election.Ledger.Voters) == 0 {
		middleware.Success(w, msgNoVotes, models.ResultsResponse{Results: []models.ResultEntry{}})
		return
	}

	middleware.Success(w, msgResultsRetrieved, ComputeResults(election))
}

// ComputeResults lists every snapshot candidate with its tally, in
// snapshot order, and picks the leader. A shared lead is reported as a
// Draw carrying the leading count. An empty snapshot has no winner.
func ComputeResults(election models.Election) models.ResultsResponse {
	results := make([]models.ResultEntry, 0, len(election.Candidates))
	for _, c := range election.Candidates {
		results = append(results, models.ResultEntry{
			Name:  c.Name,
			Party: c.Party,
			Votes: election.Ledger.Tallies[c.ID],
		})
	}

	if len(results) == 0 {
		return models.ResultsResponse{Results: results}
	}

	leader := results[0]
	leaders := 1
	for _, entry := range results[1:] {
		switch {
		case entry.Votes > leader.Votes:
			leader = entry
			leaders = 1
		case entry.Votes == leader.Votes:
			leaders++
		}
	}

	if leaders > 1 {
		leader = models.ResultEntry{Name: models.DrawName, Party: models.DrawParty, Votes: leader.Votes}
	}
	return models.ResultsResponse{Results: results, Winner: &leader}
}
