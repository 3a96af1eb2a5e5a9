// internal/app/features/groups/handler.go
package groups

import (
	uierrors "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/dalemusser/suitemate/internal/app/lifecycle"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// All membership writes go through the lifecycle engine; the handlers
// here only read, validate input, and translate errors.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Engine *lifecycle.Engine

	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, eng *lifecycle.Engine, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Engine:   eng,
		sanitize: bluemonday.StrictPolicy(),
	}
}
