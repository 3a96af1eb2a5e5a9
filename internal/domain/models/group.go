// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a capacity-bounded set of users with one designated leader.
//
// NOTE:
//   - Members preserves join order; leadership reassignment on leave
//     picks the earliest-joined remaining member.
//   - PendingUsers tracks users with an open request or invite involving
//     this group. The requests collection is the authoritative record;
//     this set exists for cheap dashboard reads.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Capacity    int                `bson:"capacity" json:"capacity"`

	Members      []primitive.ObjectID `bson:"members" json:"members"`
	LeaderID     primitive.ObjectID   `bson:"leader_id" json:"leader_id"`
	PendingUsers []primitive.ObjectID `bson:"pending_users,omitempty" json:"pending_users,omitempty"`

	School   string `bson:"school" json:"school"`
	SchoolCI string `bson:"school_ci" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Full reports whether the group has reached capacity.
func (g Group) Full() bool { return len(g.Members) >= g.Capacity }

// HasMember reports whether the user is in the member list.
func (g Group) HasMember(userID primitive.ObjectID) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// HasPending reports whether the user is in the pending set.
func (g Group) HasPending(userID primitive.ObjectID) bool {
	for _, id := range g.PendingUsers {
		if id == userID {
			return true
		}
	}
	return false
}
