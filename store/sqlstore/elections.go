// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type electionRepo struct {
	db *sql.DB
}

func (r *electionRepo) Create(ctx context.Context, election *models.Election) error {
	id := uuid.NewString()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO election (id, name, start_at, end_at, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, id, election.Name, toMillis(election.Start), toMillis(election.End), toMillis(time.Now()))
		if err != nil {
			return fmt.Errorf("failed to insert election: %w", err)
		}
		return insertSnapshot(ctx, tx, id, election.Candidates)
	})
	if err != nil {
		return err
	}
	election.ID = id
	return nil
}

func (r *electionRepo) Update(ctx context.Context, election models.Election) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE election SET name = $1, start_at = $2, end_at = $3 WHERE id = $4
		`, election.Name, toMillis(election.Start), toMillis(election.End), election.ID)
		if err != nil {
			return fmt.Errorf("failed to update election: %w", err)
		}
		if err := affectedOrNotFound(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM election_candidate WHERE election_id = $1`, election.ID); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		return insertSnapshot(ctx, tx, election.ID, election.Candidates)
	})
}

func insertSnapshot(ctx context.Context, tx *sql.Tx, electionID string, candidates []models.CandidateSnapshot) error {
	for i, c := range candidates {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO election_candidate (election_id, seq, candidate_id, identity, name, party)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, electionID, i, c.ID, c.Identity, c.Name, c.Party)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot entry: %w", err)
		}
	}
	return nil
}

func (r *electionRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}
		if err := affectedOrNotFound(res); err != nil {
			return err
		}

		for _, table := range []string{"election_candidate", "election_voter", "election_tally"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE election_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete %s rows: %w", table, err)
			}
		}
		return nil
	})
}

func (r *electionRepo) Get(ctx context.Context, id string) (models.Election, error) {
	var e models.Election
	var startAt, endAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, start_at, end_at FROM election WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &startAt, &endAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, store.ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}
	e.Start = fromMillis(startAt)
	e.End = fromMillis(endAt)

	if e.Candidates, err = r.snapshot(ctx, id); err != nil {
		return models.Election{}, err
	}
	if e.Ledger, err = r.ledger(ctx, id); err != nil {
		return models.Election{}, err
	}
	return e, nil
}

func (r *electionRepo) snapshot(ctx context.Context, electionID string) ([]models.CandidateSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT candidate_id, identity, name, party
		FROM election_candidate
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	candidates := []models.CandidateSnapshot{}
	for rows.Next() {
		var c models.CandidateSnapshot
		if err := rows.Scan(&c.ID, &c.Identity, &c.Name, &c.Party); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot entry: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *electionRepo) ledger(ctx context.Context, electionID string) (models.Ledger, error) {
	ledger := models.Ledger{
		Voters:  make(map[string]bool),
		Tallies: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT voter_identity FROM election_voter WHERE election_id = $1
	`, electionID)
	if err != nil {
		return ledger, fmt.Errorf("failed to query voter markers: %w", err)
	}
	for rows.Next() {
		var identity string
		if err := rows.Scan(&identity); err != nil {
			rows.Close()
			return ledger, fmt.Errorf("failed to scan voter marker: %w", err)
		}
		ledger.Voters[identity] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ledger, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT candidate_id, votes FROM election_tally WHERE election_id = $1
	`, electionID)
	if err != nil {
		return ledger, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var candidateID string
		var votes int
		if err := rows.Scan(&candidateID, &votes); err != nil {
			return ledger, fmt.Errorf("failed to scan tally: %w", err)
		}
		ledger.Tallies[candidateID] = votes
	}
	return ledger, rows.Err()
}

// List returns every election without snapshot or ledger
func (r *electionRepo) List(ctx context.Context) ([]models.Election, error) {
	return r.list(ctx, `
		SELECT id, name, start_at, end_at FROM election ORDER BY start_at
	`)
}

// ListActive returns elections whose inclusive window contains at
func (r *electionRepo) ListActive(ctx context.Context, at time.Time) ([]models.Election, error) {
	return r.list(ctx, `
		SELECT id, name, start_at, end_at FROM election
		WHERE start_at <= $1 AND end_at >= $1
		ORDER BY start_at
	`, toMillis(at))
}

func (r *electionRepo) list(ctx context.Context, query string, args ...interface{}) ([]models.Election, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		var startAt, endAt int64
		if err := rows.Scan(&e.ID, &e.Name, &startAt, &endAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		e.Start = fromMillis(startAt)
		e.End = fromMillis(endAt)
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

func (r *electionRepo) HasConflict(ctx context.Context, start, end time.Time, excludeID string) (bool, error) {
	var conflict bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM election
			WHERE id <> $1 AND (
				(start_at >= $2 AND start_at <= $3)
				OR (end_at >= $2 AND end_at <= $3)
				OR (start_at <= $2 AND end_at >= $3)
			)
		)
	`, excludeID, toMillis(start), toMillis(end)).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule conflict: %w", err)
	}
	return conflict, nil
}

func (r *electionRepo) ReferencesCandidate(ctx context.Context, candidateID string) (bool, error) {
	var referenced bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM election_candidate WHERE candidate_id = $1)
	`, candidateID).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate references: %w", err)
	}
	return referenced, nil
}

func (r *electionRepo) RecordVote(ctx context.Context, electionID, voterIdentity, candidateID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)
		`, electionID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query election: %w", err)
		}
		if !exists {
			return store.ErrNotFound
		}

		// The primary key on (election_id, voter_identity) is the guard
		res, err := tx.ExecContext(ctx, `
			INSERT INTO election_voter (election_id, voter_identity, cast_at)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, electionID, voterIdentity, toMillis(time.Now()))
		if err != nil {
			return fmt.Errorf("failed to insert voter marker: %w", err)
		}
		if err := affectedOrNotFound(res); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.ErrAlreadyVoted
			}
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO election_tally (election_id, candidate_id, votes)
			VALUES ($1, $2, 1)
			ON CONFLICT (election_id, candidate_id) DO UPDATE SET votes = election_tally.votes + 1
		`, electionID, candidateID)
		if err != nil {
			return fmt.Errorf("failed to increment tally: %w", err)
		}
		return nil
	})
}
