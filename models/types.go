package models

import "time"

// Session roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Eligibility thresholds in whole years
const (
	MinVoterAge     = 18
	MinCandidateAge = 25
)

// DateLayout is the wire format for dates of birth
const DateLayout = "2006-01-02"

// Draw sentinel reported as the winner when the lead is shared
const (
	DrawName  = "Draw"
	DrawParty = "N/A"
)

// Request types

type LoginRequest struct {
	Identity string `json:"identity"`
	DOB      string `json:"dob"`
}

type VoterRequest struct {
	Name     string `json:"name"`
	Identity string `json:"identity"`
	DOB      string `json:"dob"`
}

type CandidateRequest struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	Identity string `json:"identity"`
	DOB      string `json:"dob"`
}

// Start and End accept RFC 3339 or a naive ISO 8601 timestamp in server local time
type ElectionRequest struct {
	Name         string   `json:"name"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	CandidateIDs []string `json:"candidate_ids"`
}

type CastVoteRequest struct {
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id"`
}

// Response types

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type LoginResponse struct {
	Role string `json:"role"`
}

type SnapshotResponse struct {
	Candidates []CandidateSnapshot `json:"candidates"`
}

type ElectionSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ElectionDetail struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Start      string              `json:"start"`
	End        string              `json:"end"`
	Candidates []CandidateSnapshot `json:"candidates"`
}

type ResultEntry struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Votes int    `json:"votes"`
}

type ResultsResponse struct {
	Results []ResultEntry `json:"results"`
	Winner  *ResultEntry  `json:"winner"`
}

// Domain types

type Admin struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	DOB      string `json:"dob"`
}

type Voter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
	DOB      string `json:"dob"`
	Age      int    `json:"-"`
}

type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Party    string `json:"party"`
	Identity string `json:"identity"`
	DOB      string `json:"dob"`
	Age      int    `json:"-"`
}

// CandidateSnapshot is the copy of a candidate embedded in an election.
// ID is the candidate's record key at the time the snapshot was taken.
type CandidateSnapshot struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Party    string `json:"party"`
}

// Ledger holds per-election voter markers and candidate tallies
type Ledger struct {
	Voters  map[string]bool `json:"-"` // voter identity -> voted
	Tallies map[string]int  `json:"-"` // candidate record key -> votes
}

type Election struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Start      time.Time           `json:"start"`
	End        time.Time           `json:"end"`
	Candidates []CandidateSnapshot `json:"candidates"`
	Ledger     Ledger              `json:"-"`
}

// IsActive reports whether at falls inside the inclusive voting window
func (e Election) IsActive(at time.Time) bool {
	return !at.Before(e.Start) && !at.After(e.End)
}

// HasVoted reports whether the voter identity carries a marker in the ledger
func (e Election) HasVoted(voterIdentity string) bool {
	return e.Ledger.Voters[voterIdentity]
}
