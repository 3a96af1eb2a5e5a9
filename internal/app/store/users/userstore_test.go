package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/indexes"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"github.com/dalemusser/suitemate/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:   "Ada Lovelace",
		Email:      "  Ada@Test.COM ",
		AuthMethod: models.AuthMethodPassword,
		School:     "State U",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Email != "ada@test.com" {
		t.Errorf("Email not normalized: got %q", created.Email)
	}
	if created.FullNameCI != "ada lovelace" {
		t.Errorf("FullNameCI: got %q", created.FullNameCI)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Lookups are case-insensitive on the normalized email.
	found, err := store.GetByEmail(ctx, "ADA@test.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("GetByEmail: got %v, want %v", found.ID, created.ID)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	u := models.User{FullName: "Ada", Email: "ada@test.com", School: "State U"}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, u); err != userstore.ErrDuplicateEmail {
		t.Errorf("second Create: got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_ListUngroupedBySchool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	self := f.CreateUser(ctx, "Self", "self@test.com", "State U")
	available := f.CreateUser(ctx, "Available", "avail@test.com", "State U")
	elsewhere := f.CreateUser(ctx, "Elsewhere", "else@test.com", "Other U")
	groupedLeader := f.CreateUser(ctx, "Taken", "taken@test.com", "State U")
	f.CreateGroup(ctx, "Suite", "State U", 2, groupedLeader)

	users, err := store.ListUngroupedBySchool(ctx, "State U", self.ID, 0)
	if err != nil {
		t.Fatalf("ListUngroupedBySchool failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("result count: got %d, want 1 (%v)", len(users), users)
	}
	if users[0].ID != available.ID {
		t.Errorf("result: got %v, want %v", users[0].ID, available.ID)
	}
	_ = elsewhere
}

func TestStore_SetGroupedAndClearGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	u := f.CreateUser(ctx, "Bob", "bob@test.com", "State U")
	groupID := primitive.NewObjectID()

	// SetGrouped also retracts any outgoing request entry for the group.
	if err := store.AddPendingRequest(ctx, u.ID, groupID); err != nil {
		t.Fatalf("AddPendingRequest failed: %v", err)
	}
	if err := store.SetGrouped(ctx, u.ID, groupID, true); err != nil {
		t.Fatalf("SetGrouped failed: %v", err)
	}

	fresh, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !fresh.Grouped || !fresh.GroupLeader {
		t.Errorf("flags after SetGrouped: grouped=%v leader=%v", fresh.Grouped, fresh.GroupLeader)
	}
	if fresh.GroupID == nil || *fresh.GroupID != groupID {
		t.Errorf("GroupID: got %v, want %v", fresh.GroupID, groupID)
	}
	if len(fresh.PendingRequests) != 0 {
		t.Errorf("pending_requests not retracted: %v", fresh.PendingRequests)
	}

	if err := store.ClearGroup(ctx, u.ID); err != nil {
		t.Fatalf("ClearGroup failed: %v", err)
	}
	fresh, err = store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fresh.Grouped || fresh.GroupLeader || fresh.GroupID != nil {
		t.Errorf("flags after ClearGroup: grouped=%v leader=%v group=%v", fresh.Grouped, fresh.GroupLeader, fresh.GroupID)
	}
}

func TestStore_PullPendingRequestFromAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	groupID := primitive.NewObjectID()
	otherGroupID := primitive.NewObjectID()

	a := f.CreateUser(ctx, "A", "a@test.com", "State U")
	b := f.CreateUser(ctx, "B", "b@test.com", "State U")
	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		if err := store.AddPendingRequest(ctx, id, groupID); err != nil {
			t.Fatalf("AddPendingRequest failed: %v", err)
		}
	}
	if err := store.AddPendingRequest(ctx, a.ID, otherGroupID); err != nil {
		t.Fatalf("AddPendingRequest failed: %v", err)
	}

	if err := store.PullPendingRequestFromAll(ctx, groupID); err != nil {
		t.Fatalf("PullPendingRequestFromAll failed: %v", err)
	}

	freshA, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(freshA.PendingRequests) != 1 || freshA.PendingRequests[0] != otherGroupID {
		t.Errorf("a.pending_requests: got %v, want [%v]", freshA.PendingRequests, otherGroupID)
	}
	freshB, err := store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(freshB.PendingRequests) != 0 {
		t.Errorf("b.pending_requests: got %v, want empty", freshB.PendingRequests)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID missing user: got %v, want ErrNoDocuments", err)
	}
}
