// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the EMS API.

# Route Registration

NewRouter creates a configured handler with all endpoints, wrapped in the
session middleware:

	mux := router.NewRouter(st, sessions, cfg, m)

# Access Gates

Every route carries one gate:

  - open: anyone
  - login: any session; anonymous callers get 302 to /login_page
  - signedIn: any session; anonymous callers get 403 "Access denied."
  - admin: admin session; anyone else gets 403 "Access denied."

# Endpoints

Service:

	GET /health     - Liveness
	GET /metrics    - Prometheus exposition
	GET /login_page - Login entry point
	GET /           - Session info (login)

Sessions (open):

	POST /login
	POST /logout

Voters (admin):

	POST   /register_voter
	GET    /get_voters
	GET    /get_voter/{id}
	PUT    /edit_voter/{id}
	DELETE /delete_voter/{id}

Candidates (admin, listing login):

	POST   /add_candidate
	GET    /get_candidates
	GET    /get_candidate/{id}
	PUT    /edit_candidate/{id}
	DELETE /delete_candidate/{id}

Elections (admin, listings login):

	POST   /create_election
	PUT    /edit_election/{id}
	DELETE /delete_election/{id}
	GET    /get_election/{id}
	GET    /available_elections
	GET    /all_elections

Voting (signedIn) and results (login):

	POST /cast_vote
	GET  /get_results/{id}

Every gated route is wrapped in request logging and the request duration
histogram, labelled by route pattern.
*/
package router
