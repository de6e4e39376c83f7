// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest holds behaviour checks shared by every store.Store
// backend. Each backend's tests call Run with a constructor that returns an
// empty store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
	"github.com/ImranJaved1073/SQE-EMS-Testing/store"
)

// Opener returns an empty store that lives until the test ends
type Opener func(t *testing.T) store.Store

// Run executes every check against stores produced by open
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, st store.Store)
	}{
		{"Admins", testAdmins},
		{"Voters", testVoters},
		{"Candidates", testCandidates},
		{"ElectionLifecycle", testElectionLifecycle},
		{"HasConflict", testHasConflict},
		{"ListActive", testListActive},
		{"RecordVote", testRecordVote},
		{"RecordVoteConcurrent", testRecordVoteConcurrent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

var base = time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

func createElection(t *testing.T, st store.Store, name string, start, end time.Time, snapshot ...models.CandidateSnapshot) models.Election {
	t.Helper()
	e := models.Election{Name: name, Start: start, End: end, Candidates: snapshot}
	if e.Candidates == nil {
		e.Candidates = []models.CandidateSnapshot{}
	}
	if err := st.Elections().Create(context.Background(), &e); err != nil {
		t.Fatalf("Failed to create election: %v", err)
	}
	if e.ID == "" {
		t.Fatal("Create must assign an ID")
	}
	return e
}

func testAdmins(t *testing.T, st store.Store) {
	ctx := context.Background()
	admin := models.Admin{Identity: "99999", Name: "Root", DOB: "1980-01-01"}

	created, err := st.Admins().Ensure(ctx, admin)
	if err != nil || !created {
		t.Fatalf("First Ensure: created=%v err=%v", created, err)
	}
	created, err = st.Admins().Ensure(ctx, admin)
	if err != nil || created {
		t.Errorf("Second Ensure: created=%v err=%v, want false, nil", created, err)
	}

	got, err := st.Admins().FindByCredentials(ctx, "99999", "1980-01-01")
	if err != nil || got.Name != "Root" {
		t.Errorf("FindByCredentials = %+v, %v", got, err)
	}
	if _, err := st.Admins().FindByCredentials(ctx, "99999", "1980-01-02"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for wrong dob, got %v", err)
	}
}

func testVoters(t *testing.T, st store.Store) {
	ctx := context.Background()
	v := models.Voter{Name: "Imran", Identity: "12345", DOB: "2000-01-01", Age: 25}

	if err := st.Voters().Create(ctx, &v); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := models.Voter{Name: "Other", Identity: "12345", DOB: "1999-01-01", Age: 26}
	if err := st.Voters().Create(ctx, &dup); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	exists, err := st.Voters().Exists(ctx, "12345")
	if err != nil || !exists {
		t.Errorf("Exists(12345) = %v, %v", exists, err)
	}
	exists, err = st.Voters().Exists(ctx, "54321")
	if err != nil || exists {
		t.Errorf("Exists(54321) = %v, %v", exists, err)
	}

	if _, err := st.Voters().FindByCredentials(ctx, "12345", "2000-01-01"); err != nil {
		t.Errorf("FindByCredentials: %v", err)
	}

	other := models.Voter{Name: "Ayesha", Identity: "111", DOB: "1991-01-01", Age: 34}
	if err := st.Voters().Create(ctx, &other); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	v.Name = "Imran Javed"
	if err := st.Voters().Update(ctx, v); err != nil {
		t.Errorf("Update: %v", err)
	}
	clash := v
	clash.Identity = "111"
	if err := st.Voters().Update(ctx, clash); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate on identity clash, got %v", err)
	}
	if err := st.Voters().Update(ctx, models.Voter{ID: "missing", Identity: "777"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown voter, got %v", err)
	}

	list, err := st.Voters().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ayesha" || list[1].Name != "Imran Javed" {
		t.Errorf("Unexpected list: %+v", list)
	}

	if err := st.Voters().Delete(ctx, v.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := st.Voters().Delete(ctx, v.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := st.Voters().Get(ctx, v.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func testCandidates(t *testing.T, st store.Store) {
	ctx := context.Background()
	c := models.Candidate{Name: "Ali", Party: "PTI", Identity: "1001", DOB: "1970-01-01", Age: 55}

	if err := st.Candidates().Create(ctx, &c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := models.Candidate{Name: "Ali", Party: "PML", Identity: "1001", DOB: "1970-01-01", Age: 55}
	if err := st.Candidates().Create(ctx, &dup); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
	// Same identity with another dob is a different candidate
	twin := models.Candidate{Name: "Ali Jr", Party: "PTI", Identity: "1001", DOB: "1980-01-01", Age: 45}
	if err := st.Candidates().Create(ctx, &twin); err != nil {
		t.Errorf("Create twin: %v", err)
	}

	exists, err := st.Candidates().Exists(ctx, "1001", "1970-01-01")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v", exists, err)
	}

	c.Party = "IND"
	if err := st.Candidates().Update(ctx, c); err != nil {
		t.Errorf("Update: %v", err)
	}
	got, err := st.Candidates().Get(ctx, c.ID)
	if err != nil || got.Party != "IND" {
		t.Errorf("Get after update = %+v, %v", got, err)
	}

	e := createElection(t, st, "General", base, base.Add(time.Hour), models.CandidateSnapshot{
		ID: c.ID, Identity: c.Identity, Name: c.Name, Party: "PTI",
	})
	refs, err := st.Elections().ReferencesCandidate(ctx, c.ID)
	if err != nil || !refs {
		t.Errorf("ReferencesCandidate(c) = %v, %v", refs, err)
	}
	refs, err = st.Elections().ReferencesCandidate(ctx, twin.ID)
	if err != nil || refs {
		t.Errorf("ReferencesCandidate(twin) = %v, %v", refs, err)
	}

	// Registry edits never reach the snapshot
	stored, err := st.Elections().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get election: %v", err)
	}
	if stored.Candidates[0].Party != "PTI" {
		t.Errorf("Snapshot changed with the registry: %+v", stored.Candidates[0])
	}

	if err := st.Candidates().Delete(ctx, twin.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, err := st.Candidates().Get(ctx, twin.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func testElectionLifecycle(t *testing.T, st store.Store) {
	ctx := context.Background()
	snapshot := []models.CandidateSnapshot{
		{ID: "c2", Identity: "1002", Name: "Bushra", Party: "PML"},
		{ID: "c1", Identity: "1001", Name: "Ali", Party: "PTI"},
	}
	e := createElection(t, st, "General", base, base.Add(2*time.Hour), snapshot...)

	got, err := st.Elections().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "General" || !got.Start.Equal(base) || !got.End.Equal(base.Add(2*time.Hour)) {
		t.Errorf("Unexpected election: %+v", got)
	}
	if len(got.Candidates) != 2 || got.Candidates[0].ID != "c2" || got.Candidates[1].ID != "c1" {
		t.Errorf("Snapshot order not kept: %+v", got.Candidates)
	}

	if err := st.Elections().RecordVote(ctx, e.ID, "12345", "c1"); err != nil {
		t.Fatalf("RecordVote: %v", err)
	}

	got.Name = "General (moved)"
	got.Start = base.Add(time.Hour)
	got.End = base.Add(3 * time.Hour)
	got.Candidates = snapshot[:1]
	if err := st.Elections().Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after, err := st.Elections().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if after.Name != "General (moved)" || !after.Start.Equal(base.Add(time.Hour)) {
		t.Errorf("Update not applied: %+v", after)
	}
	if len(after.Candidates) != 1 {
		t.Errorf("Snapshot not replaced: %+v", after.Candidates)
	}
	if !after.HasVoted("12345") || after.Ledger.Tallies["c1"] != 1 {
		t.Errorf("Ledger lost on update: %+v", after.Ledger)
	}

	if err := st.Elections().Update(ctx, models.Election{ID: "missing", Name: "x", Start: base, End: base.Add(time.Hour)}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown election, got %v", err)
	}

	if err := st.Elections().Delete(ctx, e.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, err := st.Elections().Get(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Elections().Delete(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func testHasConflict(t *testing.T, st store.Store) {
	ctx := context.Background()
	existing := createElection(t, st, "Existing", base, base.Add(2*time.Hour))

	testCases := []struct {
		name      string
		start     time.Time
		end       time.Time
		excludeID string
		want      bool
	}{
		{"before", base.Add(-2 * time.Hour), base.Add(-time.Second), "", false},
		{"touching start", base.Add(-time.Hour), base, "", true},
		{"touching end", base.Add(2 * time.Hour), base.Add(3 * time.Hour), "", true},
		{"after", base.Add(2*time.Hour + time.Second), base.Add(3 * time.Hour), "", false},
		{"inside", base.Add(30 * time.Minute), base.Add(time.Hour), "", true},
		{"spanning", base.Add(-time.Hour), base.Add(3 * time.Hour), "", true},
		{"self excluded", base, base.Add(2 * time.Hour), existing.ID, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.Elections().HasConflict(ctx, tc.start, tc.end, tc.excludeID)
			if err != nil {
				t.Fatalf("HasConflict: %v", err)
			}
			if got != tc.want {
				t.Errorf("HasConflict = %v, want %v", got, tc.want)
			}
		})
	}
}

func testListActive(t *testing.T, st store.Store) {
	ctx := context.Background()
	createElection(t, st, "Later", base.Add(4*time.Hour), base.Add(5*time.Hour))
	active := createElection(t, st, "Now", base, base.Add(time.Hour))
	createElection(t, st, "Earlier", base.Add(-3*time.Hour), base.Add(-2*time.Hour))

	all, err := st.Elections().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Earlier" || all[2].Name != "Later" {
		t.Errorf("Expected elections ordered by start, got %+v", all)
	}

	for _, at := range []time.Time{base, base.Add(30 * time.Minute), base.Add(time.Hour)} {
		got, err := st.Elections().ListActive(ctx, at)
		if err != nil {
			t.Fatalf("ListActive: %v", err)
		}
		if len(got) != 1 || got[0].ID != active.ID {
			t.Errorf("ListActive(%v) = %+v", at, got)
		}
	}

	got, err := st.Elections().ListActive(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected nothing active between elections, got %+v", got)
	}
}

func testRecordVote(t *testing.T, st store.Store) {
	ctx := context.Background()
	e := createElection(t, st, "General", base, base.Add(time.Hour))

	if err := st.Elections().RecordVote(ctx, e.ID, "1", "c1"); err != nil {
		t.Fatalf("RecordVote: %v", err)
	}
	if err := st.Elections().RecordVote(ctx, e.ID, "2", "c1"); err != nil {
		t.Fatalf("RecordVote: %v", err)
	}
	if err := st.Elections().RecordVote(ctx, e.ID, "1", "c2"); !errors.Is(err, store.ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}
	if err := st.Elections().RecordVote(ctx, "missing", "3", "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown election, got %v", err)
	}

	got, err := st.Elections().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Ledger.Voters) != 2 || got.Ledger.Tallies["c1"] != 2 || got.Ledger.Tallies["c2"] != 0 {
		t.Errorf("Unexpected ledger: %+v", got.Ledger)
	}
}

func testRecordVoteConcurrent(t *testing.T, st store.Store) {
	ctx := context.Background()
	e := createElection(t, st, "General", base, base.Add(time.Hour))

	const attempts = 8
	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.Elections().RecordVote(ctx, e.ID, "12345", "c1")
			switch {
			case err == nil:
				ok.Add(1)
			case !errors.Is(err, store.ErrAlreadyVoted):
				t.Errorf("Unexpected RecordVote error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 {
		t.Errorf("Expected exactly one recorded vote, got %d", ok.Load())
	}
	got, err := st.Elections().Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Ledger.Tallies["c1"] != 1 {
		t.Errorf("Expected tally 1, got %d", got.Ledger.Tallies["c1"])
	}
}
