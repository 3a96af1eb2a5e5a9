// internal/app/features/requests/list.go
package requests

import (
	"context"
	"encoding/json"
	"net/http"

	requeststore "github.com/dalemusser/suitemate/internal/app/store/requests"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listFn func(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error)

// ServeIncoming lists pending requests the actor must resolve: join
// requests to groups they lead plus invites addressed to them.
func (h *Handler) ServeIncoming(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, requeststore.New(h.DB).ListIncoming)
}

// ServeOutgoing lists pending requests the actor initiated: their own
// join requests plus invites sent by groups they lead.
func (h *Handler) ServeOutgoing(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, requeststore.New(h.DB).ListOutgoing)
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, list listFn) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := list(ctx, actorID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error listing requests", err)
		return
	}
	if reqs == nil {
		reqs = []models.JoinRequest{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reqs)
}

type unseenResponse struct {
	Unseen int64 `json:"unseen"`
}

// ServeUnseenCount returns the notification-badge count: pending,
// unseen requests addressed to the actor.
func (h *Handler) ServeUnseenCount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := requeststore.New(h.DB).CountUnseen(ctx, actorID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error counting unseen requests", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(unseenResponse{Unseen: n})
}
