// internal/app/features/groups/view.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	groupstore "github.com/dalemusser/suitemate/internal/app/store/groups"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/dalemusser/suitemate/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memberCard is the expanded member view shown on group cards.
type memberCard struct {
	ID              primitive.ObjectID `json:"id"`
	FullName        string             `json:"full_name"`
	Email           string             `json:"email"`
	GraduationYear  int                `json:"graduation_year,omitempty"`
	Bio             string             `json:"bio,omitempty"`
	Interests       []string           `json:"interests,omitempty"`
	InstagramHandle string             `json:"instagram_handle,omitempty"`
}

type groupView struct {
	models.Group
	CurrentOccupancy int          `json:"current_occupancy"`
	MemberCards      []memberCard `json:"member_cards"`
}

// ServeGroupView returns one group with member details expanded.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.BadRequest(w, "Invalid group ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		uierrors.Write(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading group", err)
		return
	}

	view, err := h.expand(ctx, g)
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading group members", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

// expand attaches member cards to a group.
func (h *Handler) expand(ctx context.Context, g models.Group) (groupView, error) {
	members, err := userstore.New(h.DB).GetMany(ctx, g.Members)
	if err != nil {
		return groupView{}, err
	}
	cards := make([]memberCard, 0, len(members))
	for _, m := range members {
		cards = append(cards, memberCard{
			ID:              m.ID,
			FullName:        m.FullName,
			Email:           m.Email,
			GraduationYear:  m.GraduationYear,
			Bio:             m.Bio,
			Interests:       m.Interests,
			InstagramHandle: m.InstagramHandle,
		})
	}
	return groupView{
		Group:            g,
		CurrentOccupancy: len(g.Members),
		MemberCards:      cards,
	}, nil
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
