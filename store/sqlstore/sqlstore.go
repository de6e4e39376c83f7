// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore implements store.Store on database/sql for PostgreSQL
// (lib/pq) and SQLite (modernc.org/sqlite). Both engines run the same
// statements; placeholders are numbered in order of first use.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ImranJaved1073/SQE-EMS-Testing/db"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Store struct {
	db *sql.DB

	admins     *adminRepo
	voters     *voterRepo
	candidates *candidateRepo
	elections  *electionRepo
}

// Open connects, verifies the connection and creates the schema
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// SQLite allows one writer; a single connection serializes transactions
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return New(conn), nil
}

// New wraps an already prepared connection
func New(conn *sql.DB) *Store {
	return &Store{
		db:         conn,
		admins:     &adminRepo{db: conn},
		voters:     &voterRepo{db: conn},
		candidates: &candidateRepo{db: conn},
		elections:  &electionRepo{db: conn},
	}
}

func (s *Store) Admins() store.Admins         { return s.admins }
func (s *Store) Voters() store.Voters         { return s.voters }
func (s *Store) Candidates() store.Candidates { return s.candidates }
func (s *Store) Elections() store.Elections   { return s.elections }

// Reset drops and recreates every table
func (s *Store) Reset(ctx context.Context) error {
	if err := db.DropSchema(s.db); err != nil {
		return err
	}
	return db.CreateSchema(s.db)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func withTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation recognizes unique constraint failures from both drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms) }
