// internal/app/lifecycle/validate.go
package lifecycle

import (
	"strings"

	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pure decision functions over document snapshots. The engine calls
// these against fresh reads and again inside the commit transaction;
// keeping them free of I/O makes the branching testable without a
// database.

// CanCreateGroup checks the creator's state and the group parameters.
func CanCreateGroup(actor models.User, name string, capacity int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if capacity < 1 {
		return ErrInvalidCapacity
	}
	if actor.Grouped {
		return ErrAlreadyGrouped
	}
	return nil
}

// CanRequestToJoin checks the join preconditions that live on the user
// and group documents. Duplicate detection is not here: the requests
// collection (and its partial unique index) is the single authority on
// whether a pending request already exists for the pair.
func CanRequestToJoin(actor models.User, g models.Group) error {
	if actor.Grouped {
		return ErrAlreadyGrouped
	}
	if g.HasMember(actor.ID) {
		return ErrAlreadyMember
	}
	if g.Full() {
		return ErrGroupFull
	}
	return nil
}

// CanInvite checks the invite preconditions. Self-invites fail with
// ErrAlreadyMember since the leader is by definition a member.
func CanInvite(actor models.User, g models.Group, target models.User) error {
	if g.LeaderID != actor.ID {
		return ErrNotLeader
	}
	if target.ID == actor.ID || g.HasMember(target.ID) {
		return ErrAlreadyMember
	}
	if g.Full() {
		return ErrGroupFull
	}
	if target.Grouped {
		return ErrAlreadyGrouped
	}
	return nil
}

// CanAccept checks that the request is pending and the actor is its
// recipient (the leader for join requests, the invited user for
// invites).
func CanAccept(req models.JoinRequest, actorID primitive.ObjectID) error {
	if !req.Pending() {
		return ErrRequestNotPending
	}
	if req.RecipientID() != actorID {
		return ErrNotYourRequest
	}
	return nil
}

// CanResolve checks that the actor is a party to the pending request:
// either side may decline or cancel.
func CanResolve(req models.JoinRequest, actorID primitive.ObjectID) error {
	if !req.Pending() {
		return ErrRequestNotPending
	}
	if req.UserID != actorID && req.GroupLeaderID != actorID {
		return ErrNotYourRequest
	}
	return nil
}

// CanLeave checks membership from both sides of the relation.
func CanLeave(actor models.User, g models.Group) error {
	if !actor.InGroup(g.ID) || !g.HasMember(actor.ID) {
		return ErrNotInGroup
	}
	return nil
}

// CanRemoveMember checks the leader-only removal preconditions.
func CanRemoveMember(g models.Group, actorID, memberID primitive.ObjectID) error {
	if g.LeaderID != actorID {
		return ErrNotLeader
	}
	if memberID == actorID {
		return ErrCannotRemoveSelf
	}
	if !g.HasMember(memberID) {
		return ErrNotInGroup
	}
	return nil
}

// NextLeader picks the successor when the leader departs: the
// earliest-joined remaining member (the members array preserves join
// order). Returns false when nobody remains and the group should be
// deleted.
func NextLeader(g models.Group, departing primitive.ObjectID) (primitive.ObjectID, bool) {
	for _, id := range g.Members {
		if id != departing {
			return id, true
		}
	}
	return primitive.NilObjectID, false
}
