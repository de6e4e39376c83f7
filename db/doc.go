// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles SQL schema creation for the sqlstore backend.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL and SQLite.

# Tables

  - admin: Administrator credentials
  - voter: Voter registry (identity unique)
  - candidate: Candidate registry ((identity, dob) unique)
  - election: Name and voting window
  - election_candidate: Candidate snapshot taken at create/edit time
  - election_voter: One "voted" marker per (election, voter identity)
  - election_tally: Vote count per (election, candidate)

# Relationships

	election 1──* election_candidate
	election 1──* election_voter
	election 1──* election_tally

Snapshots reference candidate ids without a foreign key so that registry
edits never reach into existing elections. Child rows are removed
explicitly when an election is deleted.
*/
package db
