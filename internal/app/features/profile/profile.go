// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeProfile returns the signed-in user's record, fresh from the
// store.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, actorID)
	if err == mongo.ErrNoDocuments {
		uierrors.Write(w, http.StatusNotFound, "Account not found.")
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading profile", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

type updateRequest struct {
	FullName        string   `json:"full_name"`
	School          string   `json:"school"`
	GraduationYear  int      `json:"graduation_year"`
	Bio             string   `json:"bio"`
	Interests       []string `json:"interests"`
	InstagramHandle string   `json:"instagram_handle"`
}

// HandleUpdateProfile replaces the user-editable fields. Free text is
// sanitized before storage.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorObjectID(w, r)
	if !ok {
		return
	}

	var in updateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}

	bio := h.sanitize.Sanitize(in.Bio)
	instagram := strings.TrimSpace(h.sanitize.Sanitize(in.InstagramHandle))
	interests := make([]string, 0, len(in.Interests))
	for _, it := range in.Interests {
		if s := strings.TrimSpace(h.sanitize.Sanitize(it)); s != "" {
			interests = append(interests, s)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.UpdateProfile(ctx, actorID, in.FullName, in.School, bio, instagram, in.GraduationYear, interests); err != nil {
		h.ErrLog.ServerError(w, r, "database error updating profile", err)
		return
	}

	u, err := store.GetByID(ctx, actorID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error reloading profile", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// ServeUser returns another user's public record.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid user ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.Write(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading user", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// actorObjectID resolves the signed-in actor's ObjectID or writes the
// appropriate error.
func actorObjectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Write(w, http.StatusUnauthorized, "Not signed in.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		uierrors.Write(w, http.StatusUnauthorized, "Invalid session.")
		return primitive.NilObjectID, false
	}
	return id, true
}
