// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type VotingHandler struct {
	st      store.Store
	cfg     cliparse.Config
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewVotingHandler(st store.Store, cfg cliparse.Config, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{st: st, cfg: cfg, metrics: m, now: time.Now}
}

func (h *VotingHandler) reject(w http.ResponseWriter, reason, message string) {
	h.metrics.VotesRejected.WithLabelValues(reason).Inc()
	middleware.Failure(w, message)
}

// CastVote handles POST /cast_vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusForbidden, msgAccessDenied)
		return
	}
	if !p.IsVoter() {
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonNotVoter).Inc()
		middleware.ErrorResponse(w, http.StatusForbidden, msgAdminCannotVote)
		return
	}

	// Sessions outlive voter deletion, so the voter record is checked again
	registered, err := h.st.Voters().Exists(r.Context(), p.ID)
	if err != nil {
		slog.Error("failed to check voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if !registered {
		h.metrics.VotesRejected.WithLabelValues(metrics.ReasonNotVoter).Inc()
		middleware.ErrorResponse(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	// Preconditions are checked in a fixed order so each failure has one reason
	election, err := h.st.Elections().Get(r.Context(), req.ElectionID)
	if errors.Is(err, store.ErrNotFound) {
		h.reject(w, metrics.ReasonUnknownElection, msgElectionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err, "election_id", req.ElectionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	if !election.IsActive(h.now()) {
		h.reject(w, metrics.ReasonNotActive, msgNotActive)
		return
	}

	if election.HasVoted(p.ID) {
		h.reject(w, metrics.ReasonAlreadyVoted, msgAlreadyVoted)
		return
	}

	// Any registered candidate is accepted, even one missing from the
	// election's snapshot. Such votes are tallied but never reported.
	if _, err := h.st.Candidates().Get(r.Context(), req.CandidateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.reject(w, metrics.ReasonInvalidCandidate, msgCandidateNotFound)
			return
		}
		slog.Error("failed to query candidate", "error", err, "candidate_id", req.CandidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	// The read above is advisory; RecordVote is the authoritative guard
	err = h.st.Elections().RecordVote(r.Context(), election.ID, p.ID, req.CandidateID)
	switch {
	case errors.Is(err, store.ErrAlreadyVoted):
		h.reject(w, metrics.ReasonAlreadyVoted, msgAlreadyVoted)
		return
	case errors.Is(err, store.ErrNotFound):
		h.reject(w, metrics.ReasonUnknownElection, msgElectionNotFound)
		return
	case err != nil:
		slog.Error("failed to record vote", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	h.metrics.VotesCast.Inc()
	slog.Info("vote cast", "election_id", election.ID)

	middleware.Success(w, msgVoteCast, nil)
}
