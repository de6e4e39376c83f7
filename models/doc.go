// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: identity, dob
  - VoterRequest: name, identity, dob
  - CandidateRequest: name, party, identity, dob
  - ElectionRequest: name, start, end, candidate_ids
  - CastVoteRequest: election_id, candidate_id

# Response Envelope

Every endpoint answers with Response:

	{"success": true, "message": "Vote cast successfully.", "data": null}

Payloads carried in Data:

  - LoginResponse: role
  - SnapshotResponse: resolved candidate snapshot of an election
  - ElectionSummary: id, name
  - ElectionDetail: id, name, ISO timestamps, candidates
  - ResultsResponse: per-candidate results and the winner (or Draw)

# Domain Types

  - Admin, Voter, Candidate: registry records
  - Election: schedule, embedded CandidateSnapshot list, and Ledger
  - Ledger: voter identity markers and per-candidate tallies

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"

Age thresholds:

	MinVoterAge     = 18
	MinCandidateAge = 25
*/
package models
