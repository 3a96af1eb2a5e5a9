// internal/app/lifecycle/engine.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	groupstore "github.com/dalemusser/suitemate/internal/app/store/groups"
	requeststore "github.com/dalemusser/suitemate/internal/app/store/requests"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/txn"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Engine owns every write that touches more than one of the users,
// groups and requests collections. Handlers pass the authenticated
// actor id into each call; the engine re-reads current state, validates,
// and commits all mutations in one transaction so no partial state is
// observable. Preconditions are checked twice: against fresh reads
// before any write, and again inside the transaction to narrow races
// between concurrent operations.
type Engine struct {
	client   *mongo.Client
	users    *userstore.Store
	groups   *groupstore.Store
	requests *requeststore.Store
	log      *zap.Logger
}

func New(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Engine {
	return &Engine{
		client:   client,
		users:    userstore.New(db),
		groups:   groupstore.New(db),
		requests: requeststore.New(db),
		log:      logger,
	}
}

// CreateGroup creates a group with the actor as sole member and leader.
func (e *Engine) CreateGroup(ctx context.Context, actorID primitive.ObjectID, name, description string, capacity int) (models.Group, error) {
	actor, err := e.loadUser(ctx, actorID)
	if err != nil {
		return models.Group{}, err
	}
	if err := CanCreateGroup(actor, name, capacity); err != nil {
		return models.Group{}, err
	}

	var created models.Group
	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		g, err := e.groups.Create(ctx, models.Group{
			Name:        name,
			Description: description,
			Capacity:    capacity,
			Members:     []primitive.ObjectID{actorID},
			LeaderID:    actorID,
			School:      actor.School,
		})
		if err != nil {
			return err
		}
		created = g
		return e.users.SetGrouped(ctx, actorID, g.ID, true)
	})
	if err != nil {
		return models.Group{}, e.wrap(err)
	}
	e.log.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("leader_id", actorID.Hex()),
		zap.Int("capacity", capacity))
	return created, nil
}

// RequestToJoin creates a pending join request from the actor to the
// group and records it in both denormalized pending sets.
func (e *Engine) RequestToJoin(ctx context.Context, actorID, groupID primitive.ObjectID) (models.JoinRequest, error) {
	actor, err := e.loadUser(ctx, actorID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	g, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if err := CanRequestToJoin(actor, g); err != nil {
		return models.JoinRequest{}, err
	}
	// Fail fast on duplicates; the partial unique index still backstops
	// a race between this check and the insert.
	if exists, err := e.requests.ExistsPending(ctx, actorID, groupID); err != nil {
		return models.JoinRequest{}, e.wrap(err)
	} else if exists {
		return models.JoinRequest{}, ErrDuplicateRequest
	}

	var created models.JoinRequest
	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		req, err := e.requests.Insert(ctx, models.JoinRequest{
			FromGroup:     false,
			UserID:        actorID,
			UserName:      actor.FullName,
			GroupID:       g.ID,
			GroupName:     g.Name,
			GroupLeaderID: g.LeaderID,
		})
		if err != nil {
			if errors.Is(err, requeststore.ErrDuplicatePending) {
				return ErrDuplicateRequest
			}
			return err
		}
		created = req
		if err := e.users.AddPendingRequest(ctx, actorID, g.ID); err != nil {
			return err
		}
		return e.groups.AddPendingUser(ctx, g.ID, actorID)
	})
	if err != nil {
		return models.JoinRequest{}, e.wrap(err)
	}
	e.log.Info("join request created",
		zap.String("request_id", created.ID.Hex()),
		zap.String("user_id", actorID.Hex()),
		zap.String("group_id", groupID.Hex()))
	return created, nil
}

// InviteToGroup creates a pending invite from the actor's group to the
// target user. Leader only.
func (e *Engine) InviteToGroup(ctx context.Context, actorID, groupID, targetID primitive.ObjectID) (models.JoinRequest, error) {
	actor, err := e.loadUser(ctx, actorID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	g, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	target, err := e.loadUser(ctx, targetID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if err := CanInvite(actor, g, target); err != nil {
		return models.JoinRequest{}, err
	}
	if exists, err := e.requests.ExistsPending(ctx, targetID, groupID); err != nil {
		return models.JoinRequest{}, e.wrap(err)
	} else if exists {
		return models.JoinRequest{}, ErrDuplicateInvite
	}

	var created models.JoinRequest
	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		req, err := e.requests.Insert(ctx, models.JoinRequest{
			FromGroup:     true,
			UserID:        targetID,
			UserName:      target.FullName,
			GroupID:       g.ID,
			GroupName:     g.Name,
			GroupLeaderID: g.LeaderID,
		})
		if err != nil {
			if errors.Is(err, requeststore.ErrDuplicatePending) {
				return ErrDuplicateInvite
			}
			return err
		}
		created = req
		return e.groups.AddPendingUser(ctx, g.ID, targetID)
	})
	if err != nil {
		return models.JoinRequest{}, e.wrap(err)
	}
	e.log.Info("invite created",
		zap.String("request_id", created.ID.Hex()),
		zap.String("group_id", groupID.Hex()),
		zap.String("target_id", targetID.Hex()))
	return created, nil
}

// AcceptRequest resolves a pending request in the subject user's favor.
// For a join request the actor must be the group's leader; for an
// invite the actor must be the invited user.
//
// Conflicts discovered at commit time (group filled up, user joined
// elsewhere, group deleted) mark the request declined with a reason
// inside the transaction and surface the specific error; the accept is
// never silently downgraded. If the user is unexpectedly already a
// member the accept succeeds without duplicating membership and the
// user's grouped flag is reconciled.
func (e *Engine) AcceptRequest(ctx context.Context, actorID, requestID primitive.ObjectID) error {
	req, err := e.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if err := CanAccept(req, actorID); err != nil {
		return err
	}

	var conflict error
	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		conflict = nil

		fresh, err := e.requests.GetByID(ctx, requestID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				conflict = ErrRequestNotFound
				return nil
			}
			return err
		}
		if !fresh.Pending() {
			conflict = ErrRequestNotPending
			return nil
		}

		g, err := e.groups.GetByID(ctx, fresh.GroupID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				conflict = ErrGroupNotFound
				return e.declineForConflict(ctx, fresh, "Group no longer exists")
			}
			return err
		}
		u, err := e.users.GetByID(ctx, fresh.UserID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				conflict = ErrUserNotFound
				return e.declineForConflict(ctx, fresh, "User no longer exists")
			}
			return err
		}

		if g.HasMember(u.ID) {
			// Race with a concurrent accept: membership already exists.
			// Mark accepted and reconcile the user document if needed.
			if err := e.requests.SetStatus(ctx, fresh.ID, models.RequestAccepted, ""); err != nil {
				return err
			}
			if !u.InGroup(g.ID) {
				if err := e.users.SetGrouped(ctx, u.ID, g.ID, false); err != nil {
					return err
				}
			}
			if err := e.groups.PullPendingUser(ctx, g.ID, u.ID); err != nil {
				return err
			}
			return e.users.PullPendingRequest(ctx, u.ID, g.ID)
		}

		if u.Grouped {
			conflict = ErrAlreadyGrouped
			return e.declineForConflict(ctx, fresh, "User already in a group")
		}
		if g.Full() {
			conflict = ErrGroupFull
			return e.declineForConflict(ctx, fresh, "Group is full")
		}

		if err := e.requests.SetStatus(ctx, fresh.ID, models.RequestAccepted, ""); err != nil {
			return err
		}
		if err := e.groups.AddMember(ctx, g.ID, u.ID); err != nil {
			return err
		}
		return e.users.SetGrouped(ctx, u.ID, g.ID, false)
	})
	if err != nil {
		return e.wrap(err)
	}
	if conflict != nil {
		e.log.Info("accept resolved as conflict",
			zap.String("request_id", requestID.Hex()),
			zap.Error(conflict))
		return conflict
	}
	e.log.Info("request accepted",
		zap.String("request_id", requestID.Hex()),
		zap.String("actor_id", actorID.Hex()))
	return nil
}

// declineForConflict marks the request declined with a reason and
// retracts both pending-set entries, leaving no stale state behind.
func (e *Engine) declineForConflict(ctx context.Context, req models.JoinRequest, reason string) error {
	if err := e.requests.SetStatus(ctx, req.ID, models.RequestDeclined, reason); err != nil {
		return err
	}
	if err := e.groups.PullPendingUser(ctx, req.GroupID, req.UserID); err != nil {
		return err
	}
	return e.users.PullPendingRequest(ctx, req.UserID, req.GroupID)
}

// DeclineOrCancel removes a pending request. Either party may invoke
// it: the recipient declining or the sender cancelling. The request
// document is deleted and both pending-set entries are retracted in
// the same transaction.
func (e *Engine) DeclineOrCancel(ctx context.Context, actorID, requestID primitive.ObjectID) error {
	req, err := e.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if err := CanResolve(req, actorID); err != nil {
		return err
	}

	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		if err := e.requests.Delete(ctx, req.ID); err != nil {
			return err
		}
		if err := e.groups.PullPendingUser(ctx, req.GroupID, req.UserID); err != nil {
			return err
		}
		return e.users.PullPendingRequest(ctx, req.UserID, req.GroupID)
	})
	if err != nil {
		return e.wrap(err)
	}
	e.log.Info("request removed",
		zap.String("request_id", requestID.Hex()),
		zap.String("actor_id", actorID.Hex()),
		zap.Bool("by_sender", actorID != req.RecipientID()))
	return nil
}

// LeaveGroup removes the actor from their group. When the departing
// member led a group that still has members, leadership passes to the
// earliest-joined remaining member and the group's pending requests
// are repointed at the successor. When the last member leaves, the
// group is deleted along with every request referencing it.
func (e *Engine) LeaveGroup(ctx context.Context, actorID, groupID primitive.ObjectID) error {
	actor, err := e.loadUser(ctx, actorID)
	if err != nil {
		return err
	}
	g, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := CanLeave(actor, g); err != nil {
		return err
	}

	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		if err := e.users.ClearGroup(ctx, actorID); err != nil {
			return err
		}

		successor, remain := NextLeader(g, actorID)
		if !remain {
			if _, err := e.groups.Delete(ctx, g.ID); err != nil {
				return err
			}
			if _, err := e.requests.DeleteByGroup(ctx, g.ID); err != nil {
				return err
			}
			return e.users.PullPendingRequestFromAll(ctx, g.ID)
		}

		if err := e.groups.RemoveMember(ctx, g.ID, actorID); err != nil {
			return err
		}
		if g.LeaderID == actorID {
			if err := e.groups.SetLeader(ctx, g.ID, successor); err != nil {
				return err
			}
			if _, err := e.requests.SetGroupLeader(ctx, g.ID, successor); err != nil {
				return err
			}
			return e.users.SetLeaderFlag(ctx, successor, true)
		}
		return nil
	})
	if err != nil {
		return e.wrap(err)
	}
	e.log.Info("left group",
		zap.String("user_id", actorID.Hex()),
		zap.String("group_id", groupID.Hex()))
	return nil
}

// RemoveMember ejects a member from the actor's group. Leader only;
// the leader cannot target themselves, so no reassignment is needed.
func (e *Engine) RemoveMember(ctx context.Context, actorID, groupID, memberID primitive.ObjectID) error {
	g, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := CanRemoveMember(g, actorID, memberID); err != nil {
		return err
	}

	err = txn.WithTransaction(ctx, e.client, e.log, func(ctx context.Context) error {
		if err := e.groups.RemoveMember(ctx, g.ID, memberID); err != nil {
			return err
		}
		return e.users.ClearGroup(ctx, memberID)
	})
	if err != nil {
		return e.wrap(err)
	}
	e.log.Info("member removed",
		zap.String("group_id", groupID.Hex()),
		zap.String("member_id", memberID.Hex()),
		zap.String("leader_id", actorID.Hex()))
	return nil
}

// MarkSeen flips the notification-badge flag. Recipient only.
func (e *Engine) MarkSeen(ctx context.Context, actorID, requestID primitive.ObjectID) error {
	req, err := e.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RecipientID() != actorID {
		return ErrNotYourRequest
	}
	if err := e.requests.MarkSeen(ctx, req.ID); err != nil {
		return e.wrap(err)
	}
	return nil
}

/* ------------------------------------------------------------------ */
/* helpers                                                            */
/* ------------------------------------------------------------------ */

func (e *Engine) loadUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	u, err := e.users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, e.wrap(err)
	}
	return u, nil
}

func (e *Engine) loadGroup(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	g, err := e.groups.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, e.wrap(err)
	}
	return g, nil
}

func (e *Engine) loadRequest(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	r, err := e.requests.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.JoinRequest{}, ErrRequestNotFound
	}
	if err != nil {
		return models.JoinRequest{}, e.wrap(err)
	}
	return r, nil
}

// wrap keeps domain errors intact and folds everything else into
// ErrStoreUnavailable.
func (e *Engine) wrap(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
