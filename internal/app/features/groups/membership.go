// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleLeaveGroup removes the actor from the group; leadership is
// reassigned or the group deleted as the engine dictates.
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Engine.LeaveGroup(ctx, actorID, groupID); err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "leave group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type removeMemberRequest struct {
	UserID string `json:"user_id"`
}

// HandleRemoveMember ejects a member. Leader only; self-removal goes
// through leave instead.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	var in removeMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		uierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Engine.RemoveMember(ctx, actorID, groupID, memberID); err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "remove member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
