// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes every table created by CreateSchema
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS election_tally;
		DROP TABLE IF EXISTS election_voter;
		DROP TABLE IF EXISTS election_candidate;
		DROP TABLE IF EXISTS election;
		DROP TABLE IF EXISTS candidate;
		DROP TABLE IF EXISTS voter;
		DROP TABLE IF EXISTS admin;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// Timestamps are stored as BIGINT unix milliseconds so range comparisons
// behave the same on both engines.
const schema = `
-- Admins
CREATE TABLE IF NOT EXISTS admin (
    id TEXT PRIMARY KEY,
    identity TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    dob TEXT NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    identity TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    dob TEXT NOT NULL,
    age INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voter_credentials ON voter(identity, dob);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    identity TEXT NOT NULL,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    dob TEXT NOT NULL,
    age INTEGER NOT NULL,
    UNIQUE (identity, dob)
);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_at BIGINT NOT NULL,
    end_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    CHECK (start_at < end_at)
);

CREATE INDEX IF NOT EXISTS idx_election_window ON election(start_at, end_at);

-- Candidate snapshot embedded in an election (no FK: decoupled from registry)
CREATE TABLE IF NOT EXISTS election_candidate (
    election_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    candidate_id TEXT NOT NULL,
    identity TEXT NOT NULL,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    PRIMARY KEY (election_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_election_candidate_candidate ON election_candidate(candidate_id);

-- Ledger: one marker per voter per election
CREATE TABLE IF NOT EXISTS election_voter (
    election_id TEXT NOT NULL,
    voter_identity TEXT NOT NULL,
    cast_at BIGINT NOT NULL,
    PRIMARY KEY (election_id, voter_identity)
);

-- Ledger: per-candidate tallies
CREATE TABLE IF NOT EXISTS election_tally (
    election_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    votes INTEGER NOT NULL,
    PRIMARY KEY (election_id, candidate_id)
);
`
