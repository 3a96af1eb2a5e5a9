// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/suitemate/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicatePending is returned when an insert collides with the
// partial unique index on (user_id, group_id, status=pending). That
// index, not the denormalized pending arrays, is the authority on
// whether a pair already has an open request.
var ErrDuplicatePending = errors.New("a pending request already exists for this user and group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("requests")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var r models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.JoinRequest{}, err
	}
	return r, nil
}

func (s *Store) Insert(ctx context.Context, r models.JoinRequest) (models.JoinRequest, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Status = models.RequestPending
	r.HasSeen = false
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, ErrDuplicatePending
		}
		return models.JoinRequest{}, err
	}
	return r, nil
}

// ExistsPending reports whether a pending request exists for the pair,
// in either direction.
func (s *Store) ExistsPending(ctx context.Context, userID, groupID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user_id":  userID,
		"group_id": groupID,
		"status":   models.RequestPending,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus resolves a pending request. An empty reason clears any
// prior decline reason.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status, reason string) error {
	update := bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	}
	if reason != "" {
		update["$set"].(bson.M)["decline_reason"] = reason
	} else {
		update["$unset"] = bson.M{"decline_reason": ""}
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// Delete removes a request document outright (decline/cancel path).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByGroup removes every request referencing the group. Used when
// a group is deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetGroupLeader repoints the group's pending requests at a new
// leader, so the successor rather than a departed leader sees and
// resolves them.
func (s *Store) SetGroupLeader(ctx context.Context, groupID, leaderID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "status": models.RequestPending},
		bson.M{"$set": bson.M{
			"group_leader_id": leaderID,
			"updated_at":      time.Now().UTC(),
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListIncoming returns pending requests the user must resolve: join
// requests to groups they lead, plus invites addressed to them.
func (s *Store) ListIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.list(ctx, bson.M{
		"status": models.RequestPending,
		"$or": []bson.M{
			{"group_leader_id": userID, "from_group": false},
			{"user_id": userID, "from_group": true},
		},
	})
}

// ListOutgoing returns pending requests the user initiated: their own
// join requests, plus invites sent by groups they lead.
func (s *Store) ListOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.list(ctx, bson.M{
		"status": models.RequestPending,
		"$or": []bson.M{
			{"user_id": userID, "from_group": false},
			{"group_leader_id": userID, "from_group": true},
		},
	})
}

// MarkSeen sets the notification-badge flag.
func (s *Store) MarkSeen(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"has_seen": true, "updated_at": time.Now().UTC()},
	})
	return err
}

// CountUnseen counts pending, unseen requests addressed to the user.
func (s *Store) CountUnseen(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"status":   models.RequestPending,
		"has_seen": false,
		"$or": []bson.M{
			{"group_leader_id": userID, "from_group": false},
			{"user_id": userID, "from_group": true},
		},
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.JoinRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
