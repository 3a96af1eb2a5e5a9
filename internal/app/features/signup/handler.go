// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	userstore "github.com/dalemusser/suitemate/internal/app/store/users"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/suitemate/internal/app/system/timeouts"
	"github.com/dalemusser/suitemate/internal/domain/models"
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

type signupRequest struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	School         string `json:"school"`
	GraduationYear int    `json:"graduation_year"`
}

// HandleSignup creates an account and signs the new user in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "Invalid JSON body.")
		return
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.School = strings.TrimSpace(in.School)

	if in.FullName == "" || in.Email == "" || in.School == "" {
		uierrors.BadRequest(w, "full_name, email and school are required.")
		return
	}
	if len(in.Password) < 8 {
		uierrors.BadRequest(w, "Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.ServerError(w, r, "password hashing failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		FullName:       in.FullName,
		Email:          in.Email,
		PasswordHash:   string(hash),
		AuthMethod:     models.AuthMethodPassword,
		School:         in.School,
		GraduationYear: in.GraduationYear,
	})
	if err == userstore.ErrDuplicateEmail {
		uierrors.Write(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "database error creating user", err)
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

	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}
