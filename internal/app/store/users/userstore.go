// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/suitemate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = normalizeEmail(u.Email)
	u.FullNameCI = text.Fold(u.FullName)
	u.SchoolCI = text.Fold(u.School)
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile replaces the user-editable profile fields. Bio and
// interests arrive already sanitized by the handler.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, school, bio, instagram string, gradYear int, interests []string) error {
	set := bson.M{
		"bio":              bio,
		"instagram_handle": instagram,
		"graduation_year":  gradYear,
		"interests":        interests,
		"updated_at":       time.Now().UTC(),
	}
	if strings.TrimSpace(fullName) != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	if strings.TrimSpace(school) != "" {
		set["school"] = school
		set["school_ci"] = text.Fold(school)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// ListUngroupedBySchool returns available (ungrouped) users at a school,
// excluding the given user id.
func (s *Store) ListUngroupedBySchool(ctx context.Context, school string, exclude primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{
		"school_ci":  text.Fold(school),
		"is_grouped": false,
		"_id":        bson.M{"$ne": exclude},
	}
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetMany fetches the given users in one query. Missing ids are simply
// absent from the result.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

/* ------------------------------------------------------------------ */
/* Membership mutations (called by the lifecycle engine, usually      */
/* inside a transaction)                                              */
/* ------------------------------------------------------------------ */

// SetGrouped marks the user as a member (or leader) of the group and
// retracts any outgoing request entry for that group.
func (s *Store) SetGrouped(ctx context.Context, id, groupID primitive.ObjectID, leader bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_grouped":   true,
			"group_leader": leader,
			"group_id":     groupID,
			"updated_at":   time.Now().UTC(),
		},
		"$pull": bson.M{"pending_requests": groupID},
	})
	return err
}

// ClearGroup resets the user's membership fields to ungrouped.
func (s *Store) ClearGroup(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_grouped":   false,
			"group_leader": false,
			"updated_at":   time.Now().UTC(),
		},
		"$unset": bson.M{"group_id": ""},
	})
	return err
}

// SetLeaderFlag flips only the leadership flag.
func (s *Store) SetLeaderFlag(ctx context.Context, id primitive.ObjectID, leader bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"group_leader": leader, "updated_at": time.Now().UTC()},
	})
	return err
}

// AddPendingRequest records an outgoing join-request target.
func (s *Store) AddPendingRequest(ctx context.Context, id, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"pending_requests": groupID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullPendingRequest retracts an outgoing join-request target.
func (s *Store) PullPendingRequest(ctx context.Context, id, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"pending_requests": groupID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullPendingRequestFromAll retracts the group from every user's
// outgoing set. Used when a group is deleted.
func (s *Store) PullPendingRequestFromAll(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"pending_requests": groupID},
		bson.M{"$pull": bson.M{"pending_requests": groupID}})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
