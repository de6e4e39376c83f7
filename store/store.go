// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrAlreadyVoted = errors.New("voter already voted in election")
)

type Admins interface {
	FindByCredentials(ctx context.Context, identity, dob string) (models.Admin, error)
	// Ensure inserts the admin unless one with the same identity exists
	Ensure(ctx context.Context, admin models.Admin) (created bool, err error)
}

type Voters interface {
	FindByCredentials(ctx context.Context, identity, dob string) (models.Voter, error)
	Exists(ctx context.Context, identity string) (bool, error)
	Create(ctx context.Context, voter *models.Voter) error
	List(ctx context.Context) ([]models.Voter, error)
	Get(ctx context.Context, id string) (models.Voter, error)
	Update(ctx context.Context, voter models.Voter) error
	Delete(ctx context.Context, id string) error
}

type Candidates interface {
	Exists(ctx context.Context, identity, dob string) (bool, error)
	Create(ctx context.Context, candidate *models.Candidate) error
	List(ctx context.Context) ([]models.Candidate, error)
	Get(ctx context.Context, id string) (models.Candidate, error)
	Update(ctx context.Context, candidate models.Candidate) error
	Delete(ctx context.Context, id string) error
}

type Elections interface {
	Create(ctx context.Context, election *models.Election) error
	// Update replaces name, schedule and snapshot; the ledger is untouched
	Update(ctx context.Context, election models.Election) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Election, error)
	List(ctx context.Context) ([]models.Election, error)
	ListActive(ctx context.Context, at time.Time) ([]models.Election, error)

	// HasConflict reports whether an election other than excludeID has a
	// start or end inside [start, end], or spans the whole of it.
	HasConflict(ctx context.Context, start, end time.Time, excludeID string) (bool, error)
	ReferencesCandidate(ctx context.Context, candidateID string) (bool, error)

	// RecordVote sets the voter marker and increments the candidate tally
	// as one operation guarded on the marker being absent. It returns
	// ErrAlreadyVoted when the marker is already set.
	RecordVote(ctx context.Context, electionID, voterIdentity, candidateID string) error
}

type Store interface {
	Admins() Admins
	Voters() Voters
	Candidates() Candidates
	Elections() Elections
	Close(ctx context.Context) error
}
