// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/suitemate/internal/app/store/oauthstate"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureRequests(ctx, db); err != nil {
		problems = append(problems, "requests: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			// Dashboard query: available users at a school.
			Keys:    bson.D{{Key: "school_ci", Value: 1}, {Key: "is_grouped", Value: 1}},
			Options: options.Index().SetName("school_grouped"),
		},
	})
	return err
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "school_ci", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("school_created"),
		},
		{
			// Single-group invariant support: find a user's group fast.
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("members"),
		},
	})
	return err
}

func ensureRequests(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// At most one pending request per (user, group) pair,
			// regardless of direction. This index is the single source
			// of truth for duplicate detection; the denormalized
			// pending arrays on users/groups are read-side only.
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_pending_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.RequestPending}),
		},
		{
			// Incoming/outgoing request lists for the requests page.
			Keys:    bson.D{{Key: "group_leader_id", Value: 1}, {Key: "status", Value: 1}, {Key: "from_group", Value: 1}},
			Options: options.Index().SetName("leader_status_direction"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "from_group", Value: 1}},
			Options: options.Index().SetName("user_status_direction"),
		},
		{
			// Group deletion cascade.
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("group"),
		},
	})
	return err
}
