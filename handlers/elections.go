// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type ElectionHandler struct {
	st  store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewElectionHandler(st store.Store, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{st: st, cfg: cfg, now: time.Now}
}

// schedule parses and validates the request window. A non-empty message
// means the request was rejected.
func (h *ElectionHandler) schedule(ctx context.Context, req models.ElectionRequest, excludeID string) (start, end time.Time, msg string, err error) {
	loc := h.now().Location()

	start, perr := parseElectionTime(req.Start, loc)
	if perr != nil {
		return start, end, msgInvalidElectionTime, nil
	}
	end, perr = parseElectionTime(req.End, loc)
	if perr != nil {
		return start, end, msgInvalidElectionTime, nil
	}
	if !start.Before(end) {
		return start, end, msgInvalidSchedule, nil
	}

	conflict, err := h.st.Elections().HasConflict(ctx, start, end, excludeID)
	if err != nil {
		return start, end, "", err
	}
	if conflict {
		return start, end, msgScheduleConflict, nil
	}
	return start, end, "", nil
}

// resolveSnapshot copies the named candidates out of the registry. Unknown
// ids are skipped and repeated ids are kept once.
func (h *ElectionHandler) resolveSnapshot(ctx context.Context, ids []string) ([]models.CandidateSnapshot, error) {
	snapshot := []models.CandidateSnapshot{}
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c, err := h.st.Candidates().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve candidate %s: %w", id, err)
		}
		snapshot = append(snapshot, models.CandidateSnapshot{
			ID:       c.ID,
			Identity: c.Identity,
			Name:     c.Name,
			Party:    c.Party,
		})
	}
	return snapshot, nil
}

// buildElection validates req and returns the election to write, or the
// failure message
func (h *ElectionHandler) buildElection(ctx context.Context, req models.ElectionRequest, excludeID string) (models.Election, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Election{}, msgNameRequired, nil
	}

	start, end, msg, err := h.schedule(ctx, req, excludeID)
	if err != nil || msg != "" {
		return models.Election{}, msg, err
	}

	snapshot, err := h.resolveSnapshot(ctx, req.CandidateIDs)
	if err != nil {
		return models.Election{}, "", err
	}

	return models.Election{
		ID:         excludeID,
		Name:       name,
		Start:      start,
		End:        end,
		Candidates: snapshot,
	}, "", nil
}

// CreateElection handles POST /create_election
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	election, msg, err := h.buildElection(r.Context(), req, "")
	if err != nil {
		slog.Error("failed to validate election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}

	if err := h.st.Elections().Create(r.Context(), &election); err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("election created",
		"election_id", election.ID,
		"candidates", len(election.Candidates),
	)

	middleware.Success(w, msgElectionCreated, models.SnapshotResponse{Candidates: election.Candidates})
}

// EditElection handles PUT /edit_election/{id}
func (h *ElectionHandler) EditElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	election, msg, err := h.buildElection(r.Context(), req, electionID)
	if err != nil {
		slog.Error("failed to validate election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	if msg != "" {
		middleware.Failure(w, msg)
		return
	}

	err = h.st.Elections().Update(r.Context(), election)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgElectionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to update election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("election updated", "election_id", electionID)

	middleware.Success(w, msgElectionUpdated, models.SnapshotResponse{Candidates: election.Candidates})
}

// DeleteElection handles DELETE /delete_election/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	err := h.st.Elections().Delete(r.Context(), electionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgElectionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.Success(w, msgElectionDeleted, nil)
}

// GetElection handles GET /get_election/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, err := h.st.Elections().Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.Failure(w, msgElectionNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	candidates := election.Candidates
	if candidates == nil {
		candidates = []models.CandidateSnapshot{}
	}

	middleware.Success(w, msgElectionRetrieved, models.ElectionDetail{
		ID:         election.ID,
		Name:       election.Name,
		Start:      election.Start.Format(time.RFC3339),
		End:        election.End.Format(time.RFC3339),
		Candidates: candidates,
	})
}

// AvailableElections handles GET /available_elections
func (h *ElectionHandler) AvailableElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.st.Elections().ListActive(r.Context(), h.now())
	if err != nil {
		slog.Error("failed to list active elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgAvailableElections, summaries(elections))
}

// AllElections handles GET /all_elections
func (h *ElectionHandler) AllElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.st.Elections().List(r.Context())
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	middleware.Success(w, msgAllElections, summaries(elections))
}

func summaries(elections []models.Election) []models.ElectionSummary {
	out := make([]models.ElectionSummary, 0, len(elections))
	for _, e := range elections {
		out = append(out, models.ElectionSummary{ID: e.ID, Name: e.Name})
	}
	return out
}
