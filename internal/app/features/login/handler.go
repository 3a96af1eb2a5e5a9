// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, SessionMgr: sm, ErrLog: errLog}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies email/password credentials and opens a session.
// A single generic message covers both unknown-email and bad-password
// so the endpoint does not leak which accounts exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		uierrors.BadRequest(w, "email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, in.Email)
	if err == mongo.ErrNoDocuments {
		uierrors.Write(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error loading user", err)
		return
	}
	if u.PasswordHash == "" {
		// Google-only account.
		uierrors.Write(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		uierrors.Write(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
	}); err != nil {
		h.ErrLog.ServerError(w, r, "session save failed", err)
		return
	}

	h.Log.Info("signed in", zap.String("user_id", u.ID.Hex()))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}
