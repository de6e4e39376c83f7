// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mongostore implements store.Store on MongoDB. Each election is a
// single document that embeds its candidate snapshot and vote ledger, so a
// vote is one conditional UpdateOne.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

// Collection names
const (
	AdminsCollection     = "admins"
	VotersCollection     = "voters"
	CandidatesCollection = "candidates"
	ElectionsCollection  = "elections"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	admins     *adminRepo
	voters     *voterRepo
	candidates *candidateRepo
	elections  *electionRepo
}

// Connect dials uri, verifies the connection and creates indexes
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		db:         db,
		admins:     &adminRepo{coll: db.Collection(AdminsCollection)},
		voters:     &voterRepo{coll: db.Collection(VotersCollection)},
		candidates: &candidateRepo{coll: db.Collection(CandidatesCollection)},
		elections:  &electionRepo{coll: db.Collection(ElectionsCollection)},
	}
}

// EnsureIndexes creates the unique and lookup indexes. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		AdminsCollection: {
			{Keys: bson.D{{Key: "identity", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		VotersCollection: {
			{Keys: bson.D{{Key: "identity", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CandidatesCollection: {
			{Keys: bson.D{{Key: "identity", Value: 1}, {Key: "dob", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ElectionsCollection: {
			{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
			{Keys: bson.D{{Key: "candidates.candidate_id", Value: 1}}},
		},
	}

	for coll, specs := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Admins() store.Admins         { return s.admins }
func (s *Store) Voters() store.Voters         { return s.voters }
func (s *Store) Candidates() store.Candidates { return s.candidates }
func (s *Store) Elections() store.Elections   { return s.elections }

// Database exposes the underlying database (used by tests for cleanup)
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// objectID parses a record key. Malformed keys cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
