package authgoogle_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/suitemate/internal/app/features/authgoogle"
	"github.com/dalemusser/suitemate/internal/app/store/oauthstate"
	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/dalemusser/suitemate/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database, clientID, clientSecret string) *authgoogle.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return authgoogle.NewHandler(db, sm, oauthstate.New(db), clientID, clientSecret,
		"http://localhost:8080", logger)
}

func TestServeLogin_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db, "", "")

	if handler.IsConfigured() {
		t.Fatal("handler with empty credentials reports configured")
	}

	req := testutil.NewRequest("GET", "/auth/google")
	rec := testutil.NewRecorder()
	handler.ServeLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db, "client-id", "client-secret")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewRequest("GET", "/auth/google?return=/groups")
	rec := testutil.NewRecorder()
	handler.ServeLogin(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusTemporaryRedirect)
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.google.com/") {
		t.Fatalf("redirect location = %q, want Google auth endpoint", loc)
	}
	if !strings.Contains(loc, "client_id=client-id") {
		t.Errorf("auth URL missing client id: %q", loc)
	}

	// The state parameter must be persisted for one-time validation.
	n, err := db.Collection("oauth_states").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("failed to count states: %v", err)
	}
	if n != 1 {
		t.Errorf("stored %d oauth states, want 1", n)
	}
}

func TestServeCallback_RejectsUnknownState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db, "client-id", "client-secret")

	req := testutil.NewRequest("GET", "/auth/google/callback?state=bogus&code=abc")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db, "client-id", "client-secret")

	req := testutil.NewRequest("GET", "/auth/google/callback?error=access_denied")
	rec := testutil.NewRecorder()
	handler.ServeCallback(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_denied" {
		t.Errorf("redirect location = %q", loc)
	}
}
