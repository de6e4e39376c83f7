// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type CandidateHandler struct {
	st  store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewCandidateHandler(st store.Store, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{st: st, cfg: cfg, now: time.Now}
}

// validate checks name, date and age, in that order
func (h *CandidateHandler) validate(req models.CandidateRequest) (models.Candidate, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.Candidate{}, msgNameRequired
	}
	dob, years, err := age(req.DOB, h.now())
	if err != nil {
		return models.Candidate{}, msgInvalidDOB
	}
	if years < models.MinCandidateAge {
		return models.Candidate{}, msgCandidateUnderage
	}
	return models.Candidate{
		Name:     req.Name,
		Party:    strings.TrimSpace(req.Party),
		Identity: req.Identity,
		DOB:      dob,
		Age:      years,
	}, ""
}

// AddCandidate handles POST /add_candidate
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	candidate, msg := h.validate(req)
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}

	exists, err := h.st.Candidates().Exists(r.Context(), candidate.Identity, candidate.DOB)
	if err != nil {
		slog.Error("failed to check candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if exists {
		middleware.Failure(w, msgCandidateExists)
		return
	}

	err = h.st.Candidates().Create(r.Context(), &candidate)
	if errors.Is(err, store.ErrDuplicate) {
		middleware.Failure(w, msgCandidateExists)
		return
	}
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("candidate added", "candidate_id", candidate.ID)

	middleware.Success(w, msgCandidateAdded, nil)
}

// GetCandidates handles GET /get_candidates
func (h *CandidateHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.st.Candidates().List(r.Context())
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgCandidatesListed, candidates)
}

// GetCandidate handles GET /get_candidate/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.st.Candidates().Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgCandidateNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgCandidateRetrieved, candidate)
}

// EditCandidate handles PUT /edit_candidate/{id}
func (h *CandidateHandler) EditCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	candidate, msg := h.validate(req)
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}

	candidate.ID = candidateID
	err := h.st.Candidates().Update(r.Context(), candidate)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.Failure(w, msgCandidateNotFound)
		return
	case errors.Is(err, store.ErrDuplicate):
		middleware.Failure(w, msgCandidateExists)
		return
	case err != nil:
		slog.Error("failed to update candidate", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("candidate updated", "candidate_id", candidateID)

	middleware.Success(w, msgCandidateUpdated, nil)
}

// DeleteCandidate handles DELETE /delete_candidate/{id}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	referenced, err := h.st.Elections().ReferencesCandidate(r.Context(), candidateID)
	if err != nil {
		slog.Error("failed to check candidate references", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if referenced {
		middleware.Failure(w, msgCandidateInElection)
		return
	}

	err = h.st.Candidates().Delete(r.Context(), candidateID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgCandidateNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete candidate", "error", err, "candidate_id", candidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("candidate deleted", "candidate_id", candidateID)

	middleware.Success(w, msgCandidateDeleted, nil)
}
