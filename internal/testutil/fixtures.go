package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/suitemate/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an ungrouped test user at the given school.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, school string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: models.AuthMethodPassword,
		School:     school,
		SchoolCI:   text.Fold(school),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateGroup creates a test group led by leader, marks the leader (and
// any extra members) as grouped, and returns the group.
func (f *Fixtures) CreateGroup(ctx context.Context, name, school string, capacity int, leader models.User, members ...models.User) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	memberIDs := []primitive.ObjectID{leader.ID}
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Capacity:  capacity,
		Members:   memberIDs,
		LeaderID:  leader.ID,
		School:    school,
		SchoolCI:  text.Fold(school),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	users := f.db.Collection("users")
	for i, id := range memberIDs {
		_, err := users.UpdateByID(ctx, id, map[string]any{
			"$set": map[string]any{
				"is_grouped":   true,
				"group_leader": i == 0,
				"group_id":     group.ID,
				"updated_at":   now,
			},
		})
		if err != nil {
			f.t.Fatalf("failed to mark member grouped: %v", err)
		}
	}

	return group
}

// CreatePendingRequest creates a pending request between user and
// group. fromGroup=true makes it an invite.
func (f *Fixtures) CreatePendingRequest(ctx context.Context, user models.User, group models.Group, fromGroup bool) models.JoinRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.JoinRequest{
		ID:            primitive.NewObjectID(),
		FromGroup:     fromGroup,
		UserID:        user.ID,
		UserName:      user.FullName,
		GroupID:       group.ID,
		GroupName:     group.Name,
		GroupLeaderID: group.LeaderID,
		Status:        models.RequestPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}

	return req
}
