package handlers

// Envelope messages. Clients match on these strings, so they are part of
// the API.
const (
	msgInvalidJSON   = "Invalid JSON"
	msgDatabaseError = "Database error"
	msgInvalidDOB    = "Invalid date format. Use YYYY-MM-DD."
	msgNameRequired  = "Name is required."
	msgAccessDenied  = "Access denied."

	msgLoginSuccess       = "Login successful"
	msgInvalidCredentials = "Invalid credentials"
	msgLoggedOut          = "Logged out successfully."

	msgIdentityNotNumeric = "Identity must be a valid number."
	msgVoterExists        = "Voter already registered."
	msgVoterUnderage      = "Voter must be at least 18 years old."
	msgVoterRegistered    = "Voter registered successfully."
	msgVoterNotFound      = "Voter not found."
	msgVoterUpdated       = "Voter updated successfully."
	msgVoterDeleted       = "Voter deleted successfully."
	msgVotersListed       = "Voters retrieved successfully."
	msgVoterRetrieved     = "Voter details retrieved successfully."

	msgCandidateUnderage   = "Candidate must be at least 25 years old."
	msgCandidateExists     = "Candidate already exists."
	msgCandidateAdded      = "Candidate added successfully."
	msgCandidateNotFound   = "Candidate not found."
	msgCandidateUpdated    = "Candidate updated successfully."
	msgCandidateInElection = "Candidate cannot be deleted as they are part of an election."
	msgCandidateDeleted    = "Candidate deleted successfully."
	msgCandidatesListed    = "Candidates retrieved successfully."
	msgCandidateRetrieved  = "Candidate details retrieved successfully."

	msgInvalidElectionTime = "Invalid date format. Use ISO 8601."
	msgInvalidSchedule     = "Invalid election schedule."
	msgScheduleConflict    = "Election schedule conflicts with an existing election."
	msgElectionCreated     = "Election created successfully."
	msgElectionUpdated     = "Election updated successfully."
	msgElectionNotFound    = "Election not found."
	msgElectionDeleted     = "Election deleted successfully."
	msgElectionRetrieved   = "Election details retrieved successfully."
	msgAvailableElections  = "Available elections retrieved successfully."
	msgAllElections        = "All elections retrieved successfully."

	msgAdminCannotVote = "Admins are not allowed to cast votes."
	msgNotActive       = "Election is not active."
	msgAlreadyVoted    = "Voter has already cast a vote in this election."
	msgVoteCast        = "Vote cast successfully."

	msgNoVotes          = "No votes have been cast yet."
	msgResultsRetrieved = "Results retrieved successfully."
)
