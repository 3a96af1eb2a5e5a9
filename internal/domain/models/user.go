// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a student account.
//
// NOTE:
//   - Grouped/GroupLeader/GroupID are mutated only by the lifecycle
//     engine (accept, leave, remove-member) or by group deletion.
//   - PendingRequests mirrors the user's outgoing join-request targets
//     for cheap dashboard reads; the requests collection is the
//     authoritative record (see lifecycle package).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	School          string   `bson:"school" json:"school"`
	SchoolCI        string   `bson:"school_ci" json:"-"`
	GraduationYear  int      `bson:"graduation_year,omitempty" json:"graduation_year,omitempty"`
	Bio             string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests       []string `bson:"interests,omitempty" json:"interests,omitempty"`
	InstagramHandle string   `bson:"instagram_handle,omitempty" json:"instagram_handle,omitempty"`

	Grouped         bool                 `bson:"is_grouped" json:"is_grouped"`
	GroupLeader     bool                 `bson:"group_leader" json:"group_leader"`
	GroupID         *primitive.ObjectID  `bson:"group_id,omitempty" json:"group_id,omitempty"`
	PendingRequests []primitive.ObjectID `bson:"pending_requests,omitempty" json:"pending_requests,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InGroup reports whether the user currently belongs to the given group.
func (u User) InGroup(groupID primitive.ObjectID) bool {
	return u.Grouped && u.GroupID != nil && *u.GroupID == groupID
}
