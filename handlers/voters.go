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

type VoterHandler struct {
	st  store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewVoterHandler(st store.Store, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{st: st, cfg: cfg, now: time.Now}
}

// validate checks a voter request and returns the voter it describes, or
// the failure message
func (h *VoterHandler) validate(req models.VoterRequest) (models.Voter, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.Voter{}, msgNameRequired
	}
	if !isNumeric(req.Identity) {
		return models.Voter{}, msgIdentityNotNumeric
	}
	dob, years, err := age(req.DOB, h.now())
	if err != nil {
		return models.Voter{}, msgInvalidDOB
	}
	return models.Voter{Name: req.Name, Identity: req.Identity, DOB: dob, Age: years}, ""
}

// RegisterVoter handles POST /register_voter
func (h *VoterHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.VoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	voter, msg := h.validate(req)
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}

	exists, err := h.st.Voters().Exists(r.Context(), voter.Identity)
	if err != nil {
		slog.Error("failed to check voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if exists {
		middleware.Failure(w, msgVoterExists)
		return
	}

	if voter.Age < models.MinVoterAge {
		middleware.Failure(w, msgVoterUnderage)
		return
	}

	err = h.st.Voters().Create(r.Context(), &voter)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race with a concurrent registration
		middleware.Failure(w, msgVoterExists)
		return
	}
	if err != nil {
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("voter registered", "voter_id", voter.ID)

	middleware.Success(w, msgVoterRegistered, nil)
}

// GetVoters handles GET /get_voters
func (h *VoterHandler) GetVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.st.Voters().List(r.Context())
	if err != nil {
		slog.Error("failed to list voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgVotersListed, voters)
}

// GetVoter handles GET /get_voter/{id}
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	voter, err := h.st.Voters().Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgVoterRetrieved, voter)
}

// EditVoter handles PUT /edit_voter/{id}
func (h *VoterHandler) EditVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	var req models.VoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	voter, msg := h.validate(req)
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}
	if voter.Age < models.MinVoterAge {
		middleware.Failure(w, msgVoterUnderage)
		return
	}

	voter.ID = voterID
	err := h.st.Voters().Update(r.Context(), voter)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.Failure(w, msgVoterNotFound)
		return
	case errors.Is(err, store.ErrDuplicate):
		middleware.Failure(w, msgVoterExists)
		return
	case err != nil:
		slog.Error("failed to update voter", "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("voter updated", "voter_id", voterID)

	middleware.Success(w, msgVoterUpdated, nil)
}

// DeleteVoter handles DELETE /delete_voter/{id}
func (h *VoterHandler) DeleteVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")

	err := h.st.Voters().Delete(r.Context(), voterID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete voter", "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("voter deleted", "voter_id", voterID)

	middleware.Success(w, msgVoterDeleted, nil)
}
