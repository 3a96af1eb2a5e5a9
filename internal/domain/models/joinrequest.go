// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request status values.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// JoinRequest is a directional proposal to add a user to a group.
//
// FromGroup=false: the user asked to join the group; the group's leader
// resolves it. FromGroup=true: the leader invited the user; the user
// resolves it. UserName and GroupName are denormalized snapshots taken
// when the request is created.
//
// At most one pending request exists per (user, group) pair regardless
// of direction; a partial unique index on the requests collection
// enforces this.
type JoinRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromGroup bool               `bson:"from_group" json:"from_group"`

	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName      string             `bson:"user_name" json:"user_name"`
	GroupID       primitive.ObjectID `bson:"group_id" json:"group_id"`
	GroupName     string             `bson:"group_name" json:"group_name"`
	GroupLeaderID primitive.ObjectID `bson:"group_leader_id" json:"group_leader_id"`

	Status        string `bson:"status" json:"status"`
	DeclineReason string `bson:"decline_reason,omitempty" json:"decline_reason,omitempty"`
	HasSeen       bool   `bson:"has_seen" json:"has_seen"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RecipientID returns the user who resolves this request: the invited
// user for invites, the group leader for join requests.
func (r JoinRequest) RecipientID() primitive.ObjectID {
	if r.FromGroup {
		return r.UserID
	}
	return r.GroupLeaderID
}

// Pending reports whether the request is still unresolved.
func (r JoinRequest) Pending() bool { return r.Status == RequestPending }
