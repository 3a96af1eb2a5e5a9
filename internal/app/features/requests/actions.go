// internal/app/features/requests/actions.go
package requests

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type joinRequest struct {
	GroupID string `json:"group_id"`
}

// HandleRequestToJoin sends a join request from the actor to a group.
func (h *Handler) HandleRequestToJoin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	var in joinRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(in.GroupID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	req, err := h.Engine.RequestToJoin(ctx, actorID, groupID)
	if err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "request to join", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(req)
}

type inviteRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

// HandleInvite sends an invite from the actor's group to a user.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	var in inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(in.GroupID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	req, err := h.Engine.InviteToGroup(ctx, actorID, groupID, targetID)
	if err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "invite to group", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(req)
}

// HandleAccept resolves a pending request in the subject's favor.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid request ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Engine.AcceptRequest(ctx, actorID, requestID); err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "accept request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDecline declines or cancels a pending request; the two are the
// same operation from either side.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid request ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Engine.DeclineOrCancel(ctx, actorID, requestID); err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "decline request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkSeen flips the notification-badge flag on a request
// addressed to the actor.
func (h *Handler) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid request ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Engine.MarkSeen(ctx, actorID, requestID); err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "mark seen", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
