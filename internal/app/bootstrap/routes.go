// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	authgooglefeature "github.com/dalemusser/suitemate/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/suitemate/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/suitemate/internal/app/features/groups"
	healthfeature "github.com/dalemusser/suitemate/internal/app/features/health"
	loginfeature "github.com/dalemusser/suitemate/internal/app/features/login"
	logoutfeature "github.com/dalemusser/suitemate/internal/app/features/logout"
	notifyfeature "github.com/dalemusser/suitemate/internal/app/features/notify"
	profilefeature "github.com/dalemusser/suitemate/internal/app/features/profile"
	requestsfeature "github.com/dalemusser/suitemate/internal/app/features/requests"
	signupfeature "github.com/dalemusser/suitemate/internal/app/features/signup"
	"github.com/dalemusser/suitemate/internal/app/lifecycle"
	"github.com/dalemusser/suitemate/internal/app/store/oauthstate"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Set in BuildHandler, torn down in Shutdown.
var (
	notifyHub    *notifyfeature.Hub
	notifyCancel context.CancelFunc
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. SuiteMate applies session
// middleware, builds the group lifecycle engine shared by the feature
// handlers, starts the notification change-stream watcher, and mounts
// the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.SuiteMateMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Error logger for handlers.
	errLog := &errorsfeature.ErrorLogger{Log: logger}

	// The lifecycle engine owns every multi-document group mutation.
	engine := lifecycle.New(deps.SuiteMateMongoClient, db, logger)

	// Live notification fan-out, fed by a change stream on requests.
	notifyHub = notifyfeature.NewHub(logger)
	watcher := notifyfeature.NewWatcher(db, notifyHub, logger)
	watchCtx, cancel := context.WithCancel(context.Background())
	notifyCancel = cancel
	go watcher.Run(watchCtx)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SuiteMateMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	signupHandler := signupfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Profiles
	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))
	r.Mount("/users", profilefeature.UserRoutes(profileHandler, sessionMgr))

	// Groups and the request/invite lifecycle
	groupsHandler := groupsfeature.NewHandler(db, engine, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	requestsHandler := requestsfeature.NewHandler(db, engine, errLog, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

	// Live notifications
	notifyHandler := notifyfeature.NewHandler(notifyHub, logger)
	r.Mount("/notify", notifyfeature.Routes(notifyHandler, sessionMgr))

	return r, nil
}
