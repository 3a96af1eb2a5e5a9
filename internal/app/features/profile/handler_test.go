package profile_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/suitemate/internal/app/features/errors"
	"github.com/dalemusser/suitemate/internal/app/features/profile"
	"github.com/dalemusser/suitemate/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *profile.Handler {
	t.Helper()
	logger := zap.NewNop()
	return profile.NewHandler(db, &errorsfeature.ErrorLogger{Log: logger}, logger)
}

func TestServeProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice", "alice@test.com", "State U")

	req := testutil.NewAuthenticatedRequest("GET", "/profile", testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.ServeProfile(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "alice@test.com")

	if body := rec.Body.String(); len(body) > 0 {
		for _, secret := range []string{"password_hash", "full_name_ci", "school_ci"} {
			if strings.Contains(body, secret) {
				t.Errorf("response leaks %s", secret)
			}
		}
	}
}

func TestServeProfile_RequiresAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)

	req := testutil.NewRequest("GET", "/profile")
	rec := testutil.NewRecorder()
	handler.ServeProfile(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleUpdateProfile_SanitizesFreeText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice", "alice@test.com", "State U")

	body := `{
		"full_name": "Alice A.",
		"school": "State U",
		"graduation_year": 2027,
		"bio": "Early riser <script>alert(1)</script>",
		"interests": ["hiking", "<b></b>", " music "],
		"instagram_handle": "@alice"
	}`
	req := testutil.NewJSONRequest("PUT", "/profile", body, testutil.AsTestUser(alice))
	rec := testutil.NewRecorder()
	handler.HandleUpdateProfile(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var updated struct {
		FullName       string   `json:"full_name"`
		GraduationYear int      `json:"graduation_year"`
		Bio            string   `json:"bio"`
		Interests      []string `json:"interests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if updated.FullName != "Alice A." || updated.GraduationYear != 2027 {
		t.Errorf("updated profile: %+v", updated)
	}
	if strings.Contains(updated.Bio, "<script>") {
		t.Errorf("bio not sanitized: %q", updated.Bio)
	}
	// Empty-after-sanitize interests are dropped, the rest trimmed.
	if len(updated.Interests) != 2 || updated.Interests[0] != "hiking" || updated.Interests[1] != "music" {
		t.Errorf("interests = %v", updated.Interests)
	}
}

func TestServeUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	alice := f.CreateUser(ctx, "Alice", "alice@test.com", "State U")
	bob := f.CreateUser(ctx, "Bob", "bob@test.com", "State U")

	req := testutil.NewAuthenticatedRequest("GET", "/users/"+bob.ID.Hex(), testutil.AsTestUser(alice))
	req = testutil.WithChiURLParam(req, "id", bob.ID.Hex())
	rec := testutil.NewRecorder()
	handler.ServeUser(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Bob")

	// Unknown but well-formed id.
	missing := testutil.NewAuthenticatedRequest("GET", "/users/ffffffffffffffffffffffff", testutil.AsTestUser(alice))
	missing = testutil.WithChiURLParam(missing, "id", "ffffffffffffffffffffffff")
	rec = testutil.NewRecorder()
	handler.ServeUser(rec.ResponseRecorder, missing)
	rec.AssertStatus(t, http.StatusNotFound)
}
