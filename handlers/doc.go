// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the EMS API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AuthHandler: Login and logout
  - VoterHandler: Voter registry
  - CandidateHandler: Candidate registry
  - ElectionHandler: Election schedule and listings
  - VotingHandler: Vote casting
  - ResultsHandler: Tallies and winner

Handlers are created via constructor functions that accept a store.Store
and Config:

	voterHandler := handlers.NewVoterHandler(st, cfg)

# Responses

Every response is a {success, message, data} envelope. Rule violations
(duplicate voter, schedule conflict, inactive election) are success=false
with status 200. Malformed JSON is 400, missing rights 403 and store
failures 500.

# Eligibility

Ages are whole 365-day periods between date of birth and today: voters
need 18, candidates 25. Identities must be all digits.

# Elections

Windows are inclusive at both ends and may not overlap, also inclusively.
An election copies its candidates at creation (the snapshot) so later
registry edits do not change it. Votes go through
store.Elections.RecordVote, which sets the voter marker and bumps the
tally as one conditional write.

# Results

ComputeResults lists the snapshot in order with tallies. A tie for the
lead yields the Draw winner.
*/
package handlers
