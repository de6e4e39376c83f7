// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/ImranJaved1073/SQE-EMS-Testing/auth"
	"github.com/ImranJaved1073/SQE-EMS-Testing/cliparse"
	"github.com/ImranJaved1073/SQE-EMS-Testing/handlers"
	"github.com/ImranJaved1073/SQE-EMS-Testing/metrics"
	"github.com/ImranJaved1073/SQE-EMS-Testing/middleware"
	"github.com/ImranJaved1073/SQE-EMS-Testing/session"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

// gate wraps a handler with an access check
type gate func(http.HandlerFunc) http.HandlerFunc

func open(h http.HandlerFunc) http.HandlerFunc { return h }

// NewRouter registers every endpoint and returns the mux wrapped in the
// session middleware
func NewRouter(st store.Store, sessions session.Store, cfg cliparse.Config, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern string, g gate, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, pattern, g(h))))
	}
	admin := gate(middleware.RequireAdmin)
	login := gate(middleware.RequireLogin)
	signedIn := gate(middleware.RequireSession)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, sessions, cfg, m)
	voterHandler := handlers.NewVoterHandler(st, cfg)
	candidateHandler := handlers.NewCandidateHandler(st, cfg)
	electionHandler := handlers.NewElectionHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, cfg, m)
	resultsHandler := handlers.NewResultsHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Sessions
	handle("POST /login", open, authHandler.Login)
	handle("POST /logout", open, authHandler.Logout)

	// Voter registry (admin)
	handle("POST /register_voter", admin, voterHandler.RegisterVoter)
	handle("GET /get_voters", admin, voterHandler.GetVoters)
	handle("GET /get_voter/{id}", admin, voterHandler.GetVoter)
	handle("PUT /edit_voter/{id}", admin, voterHandler.EditVoter)
	handle("DELETE /delete_voter/{id}", admin, voterHandler.DeleteVoter)

	// Candidate registry (admin, listing open to any session)
	handle("POST /add_candidate", admin, candidateHandler.AddCandidate)
	handle("GET /get_candidates", login, candidateHandler.GetCandidates)
	handle("GET /get_candidate/{id}", admin, candidateHandler.GetCandidate)
	handle("PUT /edit_candidate/{id}", admin, candidateHandler.EditCandidate)
	handle("DELETE /delete_candidate/{id}", admin, candidateHandler.DeleteCandidate)

	// Election scheduling (admin)
	handle("POST /create_election", admin, electionHandler.CreateElection)
	handle("PUT /edit_election/{id}", admin, electionHandler.EditElection)
	handle("DELETE /delete_election/{id}", admin, electionHandler.DeleteElection)
	handle("GET /get_election/{id}", admin, electionHandler.GetElection)

	// Election listings (any session)
	handle("GET /available_elections", login, electionHandler.AvailableElections)
	handle("GET /all_elections", login, electionHandler.AllElections)

	// Voting and results (voter role is checked by the handler)
	handle("POST /cast_vote", signedIn, votingHandler.CastVote)
	handle("GET /get_results/{id}", login, resultsHandler.GetResults)

	// Login entry point. Page rendering lives in the frontend.
	mux.HandleFunc("GET /login_page", func(w http.ResponseWriter, r *http.Request) {
		middleware.Success(w, "Login required.", nil)
	})

	// Root endpoint
	mux.HandleFunc("GET /{$}", middleware.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		middleware.Success(w, "EMS API v1", map[string]string{"role": p.Role})
	}))

	return middleware.Sessions(sessions, cfg.SessionSecret)(mux)
}
