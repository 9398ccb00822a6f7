package store_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/apitrail/apitrail/internal/dbpool"
	"github.com/apitrail/apitrail/internal/models"
	"github.com/apitrail/apitrail/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// fixture is one seeded project with a user, a dev environment and a
// root dictionary, cleaned up after the test.
type fixture struct {
	base      store.Base
	userID    int64
	token     string
	projectID int64
	dictID    int64
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	env := getTestEnv(t)
	ctx := context.Background()

	token := "test-token-" + uuid.NewString()
	hash := sha256.Sum256([]byte(token))

	var userID int64

	err := env.pool.QueryRow(ctx,
		"INSERT INTO users (username, token_hash) VALUES ($1, $2) RETURNING user_id",
		"test-user", hex.EncodeToString(hash[:]),
	).Scan(&userID)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	var projectID int64

	err = env.pool.QueryRow(ctx,
		"INSERT INTO projects (project_name) VALUES ($1) RETURNING project_id",
		"test-project-"+uuid.NewString()[:8],
	).Scan(&projectID)
	if err != nil {
		t.Fatalf("creating test project: %v", err)
	}

	if _, err := env.pool.Exec(ctx,
		"INSERT INTO project_envs (project_id, env_type, env_baseurl) VALUES ($1, 0, 'http://dev.local')",
		projectID,
	); err != nil {
		t.Fatalf("creating test environment: %v", err)
	}

	var dictID int64

	err = env.pool.QueryRow(ctx,
		"INSERT INTO dictionaries (project_id, dictionary_name) VALUES ($1, 'root') RETURNING dictionary_id",
		projectID,
	).Scan(&dictID)
	if err != nil {
		t.Fatalf("creating test dictionary: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		// Project delete cascades to envs, dictionaries, apis, versions and aspects.
		env.pool.Exec(cleanCtx, "DELETE FROM projects WHERE project_id = $1", projectID) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM users WHERE user_id = $1", userID)          //nolint:errcheck // best-effort cleanup
	})

	return &fixture{
		base:      store.Base{Pool: env.pool, Log: env.log},
		userID:    userID,
		token:     token,
		projectID: projectID,
		dictID:    dictID,
	}
}

// createTestApi seeds one api definition and returns its id.
func createTestApi(t *testing.T, f *fixture) int64 {
	t.Helper()

	apis := store.NewApiStore(f.base)

	apiID, err := apis.CreateApi(context.Background(), f.userID, models.CreateApiRequest{
		ProjectID:    f.projectID,
		DictionaryID: f.dictID,
		Name:         "list users",
		Method:       "GET",
		URL:          "/users",
	})
	if err != nil {
		t.Fatalf("creating test api: %v", err)
	}

	return apiID
}

// latestVersionID returns the newest ledger entry for the fixture project.
func latestVersionID(t *testing.T, f *fixture) int64 {
	t.Helper()

	versions := store.NewVersionStore(f.base)

	history, err := versions.ListProjectHistory(context.Background(), f.projectID)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}

	if len(history) == 0 {
		t.Fatal("expected at least one ledger entry")
	}

	return history[0].ID
}
