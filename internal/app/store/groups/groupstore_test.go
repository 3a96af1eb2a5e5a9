package groupstore_test

import (
	"testing"

	groupstore "github.com/dalemusser/suitemate/internal/app/store/groups"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"github.com/dalemusser/suitemate/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leaderID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Group{
		Name:     "Suite 4B",
		Capacity: 4,
		Members:  []primitive.ObjectID{leaderID},
		LeaderID: leaderID,
		School:   "State U",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.NameCI != "suite 4b" {
		t.Errorf("NameCI: got %q", created.NameCI)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.LeaderID != leaderID {
		t.Errorf("LeaderID: got %v, want %v", found.LeaderID, leaderID)
	}
}

func TestStore_ListBySchool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mk := func(name, school string) models.Group {
		leaderID := primitive.NewObjectID()
		g, err := store.Create(ctx, models.Group{
			Name:     name,
			Capacity: 2,
			Members:  []primitive.ObjectID{leaderID},
			LeaderID: leaderID,
			School:   school,
		})
		if err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
		return g
	}
	mk("First", "State U")
	mk("Second", "State U")
	mk("Elsewhere", "Other U")

	// Matching is case-insensitive on the folded school name.
	groups, err := store.ListBySchool(ctx, "state u", 0)
	if err != nil {
		t.Fatalf("ListBySchool failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("result count: got %d, want 2", len(groups))
	}
	for _, g := range groups {
		if g.School != "State U" {
			t.Errorf("unexpected school in results: %q", g.School)
		}
	}
}

func TestStore_AddMember_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leaderID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	g, err := store.Create(ctx, models.Group{
		Name:     "Suite",
		Capacity: 3,
		Members:  []primitive.ObjectID{leaderID},
		LeaderID: leaderID,
		School:   "State U",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AddPendingUser(ctx, g.ID, userID); err != nil {
		t.Fatalf("AddPendingUser failed: %v", err)
	}

	// AddMember clears the pending entry; a second call adds nothing.
	if err := store.AddMember(ctx, g.ID, userID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.AddMember(ctx, g.ID, userID); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	fresh, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(fresh.Members) != 2 {
		t.Errorf("member count: got %d, want 2 (%v)", len(fresh.Members), fresh.Members)
	}
	if fresh.HasPending(userID) {
		t.Error("pending entry not cleared by AddMember")
	}
}

func TestStore_RemoveMemberAndSetLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leaderID := primitive.NewObjectID()
	mateID := primitive.NewObjectID()
	g, err := store.Create(ctx, models.Group{
		Name:     "Suite",
		Capacity: 3,
		Members:  []primitive.ObjectID{leaderID, mateID},
		LeaderID: leaderID,
		School:   "State U",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.RemoveMember(ctx, g.ID, leaderID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if err := store.SetLeader(ctx, g.ID, mateID); err != nil {
		t.Fatalf("SetLeader failed: %v", err)
	}

	fresh, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fresh.HasMember(leaderID) {
		t.Error("removed member still present")
	}
	if fresh.LeaderID != mateID {
		t.Errorf("LeaderID: got %v, want %v", fresh.LeaderID, mateID)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leaderID := primitive.NewObjectID()
	g, err := store.Create(ctx, models.Group{
		Name:     "Suite",
		Capacity: 2,
		Members:  []primitive.ObjectID{leaderID},
		LeaderID: leaderID,
		School:   "State U",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}
	if _, err := store.GetByID(ctx, g.ID); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID after delete: got %v, want ErrNoDocuments", err)
	}

	// Deleting again is a no-op.
	n, err = store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second deleted count: got %d, want 0", n)
	}
}
