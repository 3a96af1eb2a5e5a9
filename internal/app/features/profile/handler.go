// internal/app/features/profile/handler.go
package profile

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/microcosm-cc/bluemonday"
)

// Handler is the shared dependency container for the profile feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	// sanitize strips all markup from free-text fields (bio,
	// interests, handles) before they are stored.
	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		sanitize: bluemonday.StrictPolicy(),
	}
}
