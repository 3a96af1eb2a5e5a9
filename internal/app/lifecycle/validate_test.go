package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/suitemate/internal/app/lifecycle"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCreateGroup(t *testing.T) {
	actorID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	tests := []struct {
		name     string
		actor    models.User
		gname    string
		capacity int
		want     error
	}{
		{
			name:     "ok",
			actor:    models.User{ID: actorID},
			gname:    "Suite 4B",
			capacity: 4,
			want:     nil,
		},
		{
			name:     "blank name",
			actor:    models.User{ID: actorID},
			gname:    "   ",
			capacity: 4,
			want:     lifecycle.ErrInvalidName,
		},
		{
			name:     "zero capacity",
			actor:    models.User{ID: actorID},
			gname:    "Suite 4B",
			capacity: 0,
			want:     lifecycle.ErrInvalidCapacity,
		},
		{
			name:     "already grouped",
			actor:    models.User{ID: actorID, Grouped: true, GroupID: &groupID},
			gname:    "Suite 4B",
			capacity: 4,
			want:     lifecycle.ErrAlreadyGrouped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lifecycle.CanCreateGroup(tt.actor, tt.gname, tt.capacity)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("CanCreateGroup: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanRequestToJoin(t *testing.T) {
	actorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor models.User
		group models.Group
		want  error
	}{
		{
			name:  "ok",
			actor: models.User{ID: actorID},
			group: models.Group{ID: groupID, Capacity: 2, Members: []primitive.ObjectID{otherID}},
			want:  nil,
		},
		{
			name:  "actor already grouped",
			actor: models.User{ID: actorID, Grouped: true, GroupID: &groupID},
			group: models.Group{ID: groupID, Capacity: 2, Members: []primitive.ObjectID{otherID}},
			want:  lifecycle.ErrAlreadyGrouped,
		},
		{
			name:  "actor already a member",
			actor: models.User{ID: actorID},
			group: models.Group{ID: groupID, Capacity: 2, Members: []primitive.ObjectID{actorID}},
			want:  lifecycle.ErrAlreadyMember,
		},
		{
			name:  "group full",
			actor: models.User{ID: actorID},
			group: models.Group{ID: groupID, Capacity: 1, Members: []primitive.ObjectID{otherID}},
			want:  lifecycle.ErrGroupFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lifecycle.CanRequestToJoin(tt.actor, tt.group)
			if got != tt.want {
				t.Errorf("CanRequestToJoin: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanInvite(t *testing.T) {
	leaderID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	otherGroupID := primitive.NewObjectID()

	leader := models.User{ID: leaderID, Grouped: true, GroupLeader: true, GroupID: &groupID}
	group := models.Group{
		ID:       groupID,
		Capacity: 3,
		LeaderID: leaderID,
		Members:  []primitive.ObjectID{leaderID, memberID},
	}

	tests := []struct {
		name   string
		actor  models.User
		group  models.Group
		target models.User
		want   error
	}{
		{
			name:   "ok",
			actor:  leader,
			group:  group,
			target: models.User{ID: targetID},
			want:   nil,
		},
		{
			name:   "not leader",
			actor:  models.User{ID: memberID, Grouped: true, GroupID: &groupID},
			group:  group,
			target: models.User{ID: targetID},
			want:   lifecycle.ErrNotLeader,
		},
		{
			name:   "self invite",
			actor:  leader,
			group:  group,
			target: leader,
			want:   lifecycle.ErrAlreadyMember,
		},
		{
			name:   "target already a member",
			actor:  leader,
			group:  group,
			target: models.User{ID: memberID, Grouped: true, GroupID: &groupID},
			want:   lifecycle.ErrAlreadyMember,
		},
		{
			name:  "group full",
			actor: leader,
			group: models.Group{
				ID:       groupID,
				Capacity: 2,
				LeaderID: leaderID,
				Members:  []primitive.ObjectID{leaderID, memberID},
			},
			target: models.User{ID: targetID},
			want:   lifecycle.ErrGroupFull,
		},
		{
			name:   "target grouped elsewhere",
			actor:  leader,
			group:  group,
			target: models.User{ID: targetID, Grouped: true, GroupID: &otherGroupID},
			want:   lifecycle.ErrAlreadyGrouped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lifecycle.CanInvite(tt.actor, tt.group, tt.target)
			if got != tt.want {
				t.Errorf("CanInvite: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAccept(t *testing.T) {
	userID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	joinReq := models.JoinRequest{
		FromGroup:     false,
		UserID:        userID,
		GroupLeaderID: leaderID,
		Status:        models.RequestPending,
	}
	invite := models.JoinRequest{
		FromGroup:     true,
		UserID:        userID,
		GroupLeaderID: leaderID,
		Status:        models.RequestPending,
	}

	// Join request: the leader accepts, not the requesting user.
	if err := lifecycle.CanAccept(joinReq, leaderID); err != nil {
		t.Errorf("leader accepting join request: got %v, want nil", err)
	}
	if err := lifecycle.CanAccept(joinReq, userID); err != lifecycle.ErrNotYourRequest {
		t.Errorf("user accepting own join request: got %v, want ErrNotYourRequest", err)
	}

	// Invite: the invited user accepts, not the leader.
	if err := lifecycle.CanAccept(invite, userID); err != nil {
		t.Errorf("user accepting invite: got %v, want nil", err)
	}
	if err := lifecycle.CanAccept(invite, leaderID); err != lifecycle.ErrNotYourRequest {
		t.Errorf("leader accepting own invite: got %v, want ErrNotYourRequest", err)
	}

	// Strangers and resolved requests are rejected.
	if err := lifecycle.CanAccept(joinReq, strangerID); err != lifecycle.ErrNotYourRequest {
		t.Errorf("stranger accepting: got %v, want ErrNotYourRequest", err)
	}
	resolved := joinReq
	resolved.Status = models.RequestAccepted
	if err := lifecycle.CanAccept(resolved, leaderID); err != lifecycle.ErrRequestNotPending {
		t.Errorf("accepting resolved request: got %v, want ErrRequestNotPending", err)
	}
}

func TestCanResolve(t *testing.T) {
	userID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	req := models.JoinRequest{
		FromGroup:     false,
		UserID:        userID,
		GroupLeaderID: leaderID,
		Status:        models.RequestPending,
	}

	// Either party may decline or cancel.
	if err := lifecycle.CanResolve(req, userID); err != nil {
		t.Errorf("sender cancelling: got %v, want nil", err)
	}
	if err := lifecycle.CanResolve(req, leaderID); err != nil {
		t.Errorf("recipient declining: got %v, want nil", err)
	}
	if err := lifecycle.CanResolve(req, strangerID); err != lifecycle.ErrNotYourRequest {
		t.Errorf("stranger resolving: got %v, want ErrNotYourRequest", err)
	}

	resolved := req
	resolved.Status = models.RequestDeclined
	if err := lifecycle.CanResolve(resolved, userID); err != lifecycle.ErrRequestNotPending {
		t.Errorf("resolving settled request: got %v, want ErrRequestNotPending", err)
	}
}

func TestCanLeave(t *testing.T) {
	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	member := models.User{ID: userID, Grouped: true, GroupID: &groupID}
	group := models.Group{ID: groupID, Capacity: 2, Members: []primitive.ObjectID{userID}}

	if err := lifecycle.CanLeave(member, group); err != nil {
		t.Errorf("member leaving: got %v, want nil", err)
	}

	outsider := models.User{ID: primitive.NewObjectID()}
	if err := lifecycle.CanLeave(outsider, group); err != lifecycle.ErrNotInGroup {
		t.Errorf("outsider leaving: got %v, want ErrNotInGroup", err)
	}

	// User document says grouped but the member list disagrees; the
	// relation must hold on both sides.
	stale := models.User{ID: primitive.NewObjectID(), Grouped: true, GroupID: &groupID}
	if err := lifecycle.CanLeave(stale, group); err != lifecycle.ErrNotInGroup {
		t.Errorf("stale membership leaving: got %v, want ErrNotInGroup", err)
	}
}

func TestCanRemoveMember(t *testing.T) {
	leaderID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	group := models.Group{
		ID:       primitive.NewObjectID(),
		Capacity: 3,
		LeaderID: leaderID,
		Members:  []primitive.ObjectID{leaderID, memberID},
	}

	if err := lifecycle.CanRemoveMember(group, leaderID, memberID); err != nil {
		t.Errorf("leader removing member: got %v, want nil", err)
	}
	if err := lifecycle.CanRemoveMember(group, memberID, leaderID); err != lifecycle.ErrNotLeader {
		t.Errorf("member removing leader: got %v, want ErrNotLeader", err)
	}
	if err := lifecycle.CanRemoveMember(group, leaderID, leaderID); err != lifecycle.ErrCannotRemoveSelf {
		t.Errorf("leader removing self: got %v, want ErrCannotRemoveSelf", err)
	}
	if err := lifecycle.CanRemoveMember(group, leaderID, strangerID); err != lifecycle.ErrNotInGroup {
		t.Errorf("removing non-member: got %v, want ErrNotInGroup", err)
	}
}

func TestNextLeader(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	third := primitive.NewObjectID()

	group := models.Group{Members: []primitive.ObjectID{first, second, third}}

	// Leadership passes to the earliest-joined remaining member.
	successor, ok := lifecycle.NextLeader(group, first)
	if !ok || successor != second {
		t.Errorf("NextLeader after first departs: got (%v, %v), want (%v, true)", successor, ok, second)
	}

	successor, ok = lifecycle.NextLeader(group, second)
	if !ok || successor != first {
		t.Errorf("NextLeader after second departs: got (%v, %v), want (%v, true)", successor, ok, first)
	}

	solo := models.Group{Members: []primitive.ObjectID{first}}
	if _, ok := lifecycle.NextLeader(solo, first); ok {
		t.Error("NextLeader with no remaining members: got ok=true, want false")
	}
}
