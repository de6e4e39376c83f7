// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type snapshotDoc struct {
	CandidateID string `bson:"candidate_id"`
	Identity    string `bson:"identity"`
	Name        string `bson:"name"`
	Party       string `bson:"party"`
}

type ledgerDoc struct {
	Voters  map[string]bool `bson:"voters"`
	Tallies map[string]int  `bson:"tallies"`
}

type electionDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	StartDate  time.Time          `bson:"start_date"`
	EndDate    time.Time          `bson:"end_date"`
	Candidates []snapshotDoc      `bson:"candidates"`
	Ledger     ledgerDoc          `bson:"ledger"`
}

func (d electionDoc) toModel() models.Election {
	e := models.Election{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Start:      d.StartDate.Local(),
		End:        d.EndDate.Local(),
		Candidates: make([]models.CandidateSnapshot, 0, len(d.Candidates)),
		Ledger: models.Ledger{
			Voters:  make(map[string]bool, len(d.Ledger.Voters)),
			Tallies: make(map[string]int, len(d.Ledger.Tallies)),
		},
	}
	for _, c := range d.Candidates {
		e.Candidates = append(e.Candidates, models.CandidateSnapshot{
			ID:       c.CandidateID,
			Identity: c.Identity,
			Name:     c.Name,
			Party:    c.Party,
		})
	}
	for k, v := range d.Ledger.Voters {
		e.Ledger.Voters[k] = v
	}
	for k, v := range d.Ledger.Tallies {
		e.Ledger.Tallies[k] = v
	}
	return e
}

func snapshotDocs(candidates []models.CandidateSnapshot) []snapshotDoc {
	docs := make([]snapshotDoc, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, snapshotDoc{CandidateID: c.ID, Identity: c.Identity, Name: c.Name, Party: c.Party})
	}
	return docs
}

type electionRepo struct {
	coll *mongo.Collection
}

func (r *electionRepo) Create(ctx context.Context, election *models.Election) error {
	res, err := r.coll.InsertOne(ctx, electionDoc{
		Name:       election.Name,
		StartDate:  election.Start,
		EndDate:    election.End,
		Candidates: snapshotDocs(election.Candidates),
		Ledger: ledgerDoc{
			Voters:  map[string]bool{},
			Tallies: map[string]int{},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	election.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *electionRepo) Update(ctx context.Context, election models.Election) error {
	oid, err := objectID(election.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       election.Name,
		"start_date": election.Start,
		"end_date":   election.End,
		"candidates": snapshotDocs(election.Candidates),
	}})
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *electionRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *electionRepo) Get(ctx context.Context, id string) (models.Election, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Election{}, err
	}
	var d electionDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return models.Election{}, notFound(err)
	}
	return d.toModel(), nil
}

func (r *electionRepo) List(ctx context.Context) ([]models.Election, error) {
	return r.find(ctx, bson.M{})
}

func (r *electionRepo) ListActive(ctx context.Context, at time.Time) ([]models.Election, error) {
	return r.find(ctx, bson.M{
		"start_date": bson.M{"$lte": at},
		"end_date":   bson.M{"$gte": at},
	})
}

func (r *electionRepo) find(ctx context.Context, filter bson.M) ([]models.Election, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetProjection(bson.M{"ledger": 0})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	var docs []electionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode elections: %w", err)
	}

	elections := make([]models.Election, 0, len(docs))
	for _, d := range docs {
		elections = append(elections, d.toModel())
	}
	return elections, nil
}

func (r *electionRepo) HasConflict(ctx context.Context, start, end time.Time, excludeID string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"start_date": bson.M{"$gte": start, "$lte": end}},
		bson.M{"end_date": bson.M{"$gte": start, "$lte": end}},
		bson.M{"start_date": bson.M{"$lte": start}, "end_date": bson.M{"$gte": end}},
	}}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check schedule conflict: %w", err)
	}
	return n > 0, nil
}

func (r *electionRepo) ReferencesCandidate(ctx context.Context, candidateID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"candidates.candidate_id": candidateID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check candidate references: %w", err)
	}
	return n > 0, nil
}

func (r *electionRepo) RecordVote(ctx context.Context, electionID, voterIdentity, candidateID string) error {
	oid, err := objectID(electionID)
	if err != nil {
		return err
	}
	// Ledger keys become field paths
	if strings.ContainsAny(voterIdentity, ".$") || strings.ContainsAny(candidateID, ".$") {
		return fmt.Errorf("invalid ledger key %q / %q", voterIdentity, candidateID)
	}

	voterField := "ledger.voters." + voterIdentity
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, voterField: bson.M{"$exists": false}},
		bson.M{
			"$inc": bson.M{"ledger.tallies." + candidateID: 1},
			"$set": bson.M{voterField: true},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the election is gone or the marker is set
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to query election: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrAlreadyVoted
}
