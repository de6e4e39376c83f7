// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type adminRepo struct {
	db *sql.DB
}

func (r *adminRepo) FindByCredentials(ctx context.Context, identity, dob string) (models.Admin, error) {
	var a models.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, identity, name, dob FROM admin WHERE identity = $1 AND dob = $2
	`, identity, dob).Scan(&a.ID, &a.Identity, &a.Name, &a.DOB)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, store.ErrNotFound
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to query admin: %w", err)
	}
	return a, nil
}

func (r *adminRepo) Ensure(ctx context.Context, admin models.Admin) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO admin (id, identity, name, dob)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity) DO NOTHING
	`, uuid.NewString(), admin.Identity, admin.Name, admin.DOB)
	if err != nil {
		return false, fmt.Errorf("failed to insert admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

type voterRepo struct {
	db *sql.DB
}

func (r *voterRepo) FindByCredentials(ctx context.Context, identity, dob string) (models.Voter, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, identity, name, dob, age FROM voter WHERE identity = $1 AND dob = $2
	`, identity, dob))
}

func (r *voterRepo) Exists(ctx context.Context, identity string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE identity = $1)
	`, identity).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check voter: %w", err)
	}
	return exists, nil
}

func (r *voterRepo) Get(ctx context.Context, id string) (models.Voter, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, identity, name, dob, age FROM voter WHERE id = $1
	`, id))
}

func (r *voterRepo) scanOne(row *sql.Row) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(&v.ID, &v.Identity, &v.Name, &v.DOB, &v.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, store.ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

func (r *voterRepo) Create(ctx context.Context, voter *models.Voter) error {
	id := uuid.NewString()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO voter (id, identity, name, dob, age)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO NOTHING
	`, id, voter.Identity, voter.Name, voter.DOB, voter.Age)
	if err != nil {
		return fmt.Errorf("failed to insert voter: %w", err)
	}
	if err := affectedOrNotFound(res); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrDuplicate
		}
		return err
	}
	voter.ID = id
	return nil
}

func (r *voterRepo) List(ctx context.Context) ([]models.Voter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, identity, name, dob, age FROM voter ORDER BY name, identity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.Identity, &v.Name, &v.DOB, &v.Age); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

func (r *voterRepo) Update(ctx context.Context, voter models.Voter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE voter SET name = $1, identity = $2, dob = $3, age = $4 WHERE id = $5
	`, voter.Name, voter.Identity, voter.DOB, voter.Age, voter.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to update voter: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *voterRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM voter WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	return affectedOrNotFound(res)
}

type candidateRepo struct {
	db *sql.DB
}

func (r *candidateRepo) Exists(ctx context.Context, identity, dob string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE identity = $1 AND dob = $2)
	`, identity, dob).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	return exists, nil
}

func (r *candidateRepo) Create(ctx context.Context, candidate *models.Candidate) error {
	id := uuid.NewString()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO candidate (id, identity, name, party, dob, age)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity, dob) DO NOTHING
	`, id, candidate.Identity, candidate.Name, candidate.Party, candidate.DOB, candidate.Age)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	if err := affectedOrNotFound(res); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrDuplicate
		}
		return err
	}
	candidate.ID = id
	return nil
}

func (r *candidateRepo) Get(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, identity, name, party, dob, age FROM candidate WHERE id = $1
	`, id).Scan(&c.ID, &c.Identity, &c.Name, &c.Party, &c.DOB, &c.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, store.ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, identity, name, party, dob, age FROM candidate ORDER BY name, identity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Identity, &c.Name, &c.Party, &c.DOB, &c.Age); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *candidateRepo) Update(ctx context.Context, candidate models.Candidate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE candidate SET name = $1, party = $2, identity = $3, dob = $4, age = $5 WHERE id = $6
	`, candidate.Name, candidate.Party, candidate.Identity, candidate.DOB, candidate.Age, candidate.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return affectedOrNotFound(res)
}
