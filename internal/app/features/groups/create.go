// internal/app/features/groups/create.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

// HandleCreateGroup creates a group with the actor as leader and sole
// member.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	var in createRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	in.Name = strings.TrimSpace(h.sanitize.Sanitize(in.Name))
	in.Description = strings.TrimSpace(h.sanitize.Sanitize(in.Description))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Engine.CreateGroup(ctx, actorID, in.Name, in.Description, in.Capacity)
	if err != nil {
		h.ErrLog.WriteLifecycleError(w, r, "create group", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g)
}
