// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

type adminDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Identity string             `bson:"identity"`
	Name     string             `bson:"name"`
	DOB      string             `bson:"dob"`
}

type voterDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Identity string             `bson:"identity"`
	Name     string             `bson:"name"`
	DOB      string             `bson:"dob"`
	Age      int                `bson:"age"`
}

func (d voterDoc) toModel() models.Voter {
	return models.Voter{ID: d.ID.Hex(), Identity: d.Identity, Name: d.Name, DOB: d.DOB, Age: d.Age}
}

type candidateDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Identity string             `bson:"identity"`
	Name     string             `bson:"name"`
	Party    string             `bson:"party"`
	DOB      string             `bson:"dob"`
	Age      int                `bson:"age"`
}

func (d candidateDoc) toModel() models.Candidate {
	return models.Candidate{ID: d.ID.Hex(), Identity: d.Identity, Name: d.Name, Party: d.Party, DOB: d.DOB, Age: d.Age}
}

type adminRepo struct {
	coll *mongo.Collection
}

func (r *adminRepo) FindByCredentials(ctx context.Context, identity, dob string) (models.Admin, error) {
	var d adminDoc
	err := r.coll.FindOne(ctx, bson.M{"identity": identity, "dob": dob}).Decode(&d)
	if err != nil {
		return models.Admin{}, notFound(err)
	}
	return models.Admin{ID: d.ID.Hex(), Identity: d.Identity, Name: d.Name, DOB: d.DOB}, nil
}

func (r *adminRepo) Ensure(ctx context.Context, admin models.Admin) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"identity": admin.Identity},
		bson.M{"$setOnInsert": bson.M{"identity": admin.Identity, "name": admin.Name, "dob": admin.DOB}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert admin: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

type voterRepo struct {
	coll *mongo.Collection
}

func (r *voterRepo) FindByCredentials(ctx context.Context, identity, dob string) (models.Voter, error) {
	var d voterDoc
	if err := r.coll.FindOne(ctx, bson.M{"identity": identity, "dob": dob}).Decode(&d); err != nil {
		return models.Voter{}, notFound(err)
	}
	return d.toModel(), nil
}

func (r *voterRepo) Exists(ctx context.Context, identity string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"identity": identity}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check voter: %w", err)
	}
	return n > 0, nil
}

func (r *voterRepo) Create(ctx context.Context, voter *models.Voter) error {
	res, err := r.coll.InsertOne(ctx, voterDoc{
		Identity: voter.Identity,
		Name:     voter.Name,
		DOB:      voter.DOB,
		Age:      voter.Age,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert voter: %w", err)
	}
	voter.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *voterRepo) List(ctx context.Context) ([]models.Voter, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "identity", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	var docs []voterDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode voters: %w", err)
	}

	voters := make([]models.Voter, 0, len(docs))
	for _, d := range docs {
		voters = append(voters, d.toModel())
	}
	return voters, nil
}

func (r *voterRepo) Get(ctx context.Context, id string) (models.Voter, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Voter{}, err
	}
	var d voterDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return models.Voter{}, notFound(err)
	}
	return d.toModel(), nil
}

func (r *voterRepo) Update(ctx context.Context, voter models.Voter) error {
	oid, err := objectID(voter.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":     voter.Name,
		"identity": voter.Identity,
		"dob":      voter.DOB,
		"age":      voter.Age,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to update voter: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *voterRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

type candidateRepo struct {
	coll *mongo.Collection
}

func (r *candidateRepo) Exists(ctx context.Context, identity, dob string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"identity": identity, "dob": dob}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	return n > 0, nil
}

func (r *candidateRepo) Create(ctx context.Context, candidate *models.Candidate) error {
	res, err := r.coll.InsertOne(ctx, candidateDoc{
		Identity: candidate.Identity,
		Name:     candidate.Name,
		Party:    candidate.Party,
		DOB:      candidate.DOB,
		Age:      candidate.Age,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	candidate.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *candidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "identity", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	var docs []candidateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(docs))
	for _, d := range docs {
		candidates = append(candidates, d.toModel())
	}
	return candidates, nil
}

func (r *candidateRepo) Get(ctx context.Context, id string) (models.Candidate, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Candidate{}, err
	}
	var d candidateDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return models.Candidate{}, notFound(err)
	}
	return d.toModel(), nil
}

func (r *candidateRepo) Update(ctx context.Context, candidate models.Candidate) error {
	oid, err := objectID(candidate.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":     candidate.Name,
		"party":    candidate.Party,
		"identity": candidate.Identity,
		"dob":      candidate.DOB,
		"age":      candidate.Age,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
