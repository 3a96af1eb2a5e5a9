// internal/app/features/groups/list.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	groupstore "github.com/dalemusser/suitemate/internal/app/store/groups"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultListLimit = 24

// ServeGroupsList returns groups at a school with member details
// expanded, newest first. Defaults to the actor's own school; a
// `school` query parameter overrides it.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	school := strings.TrimSpace(r.URL.Query().Get("school"))
	if school == "" {
		actor, err := userstore.New(h.DB).GetByID(ctx, actorID)
		if err == mongo.ErrNoDocuments {
			uierrors.Write(w, http.StatusNotFound, "Account not found.")
			return
		}
		if err != nil {
			h.ErrLog.ServerError(w, r, "database error loading actor", err)
			return
		}
		school = actor.School
	}

	limit := int64(defaultListLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	gs, err := groupstore.New(h.DB).ListBySchool(ctx, school, limit)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error listing groups", err)
		return
	}

	views := make([]groupView, 0, len(gs))
	for _, g := range gs {
		v, err := h.expand(ctx, g)
		if err != nil {
			h.ErrLog.ServerError(w, r, "database error expanding group", err)
			return
		}
		views = append(views, v)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

// ServeAvailableUsers returns ungrouped users at the actor's school,
// the pool a leader invites from.
func (h *Handler) ServeAvailableUsers(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	actor, err := store.GetByID(ctx, actorID)
	if err == mongo.ErrNoDocuments {
		uierrors.Write(w, http.StatusNotFound, "Account not found.")
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading actor", err)
		return
	}

	users, err := store.ListUngroupedBySchool(ctx, actor.School, actorID, defaultListLimit)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error listing available users", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(users)
}
