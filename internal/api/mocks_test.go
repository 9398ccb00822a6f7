package api_test

import (
	"context"

	"github.com/apitrail/apitrail/internal/models"
	"github.com/apitrail/apitrail/internal/service"
)

// mockApiRepo implements api.ApiRepository for testing.
type mockApiRepo struct {
	createFn func(ctx context.Context, userID int64, req models.CreateApiRequest) (int64, error)
	getFn    func(ctx context.Context, apiID int64) (*models.ApiDetail, error)
	updateFn func(ctx context.Context, userID, apiID int64, req models.UpdateApiRequest) (int64, error)
	deleteFn func(ctx context.Context, userID, apiID, projectID int64) error
}

func (m *mockApiRepo) CreateApi(ctx context.Context, userID int64, req models.CreateApiRequest) (int64, error) {
	return m.createFn(ctx, userID, req)
}

func (m *mockApiRepo) GetApi(ctx context.Context, apiID int64) (*models.ApiDetail, error) {
	return m.getFn(ctx, apiID)
}

func (m *mockApiRepo) UpdateApi(ctx context.Context, userID, apiID int64, req models.UpdateApiRequest) (int64, error) {
	return m.updateFn(ctx, userID, apiID, req)
}

func (m *mockApiRepo) DeleteApi(ctx context.Context, userID, apiID, projectID int64) error {
	return m.deleteFn(ctx, userID, apiID, projectID)
}

// mockVersionRepo implements api.VersionRepository for testing.
type mockVersionRepo struct {
	historyFn    func(ctx context.Context, projectID int64) ([]models.HistoryEntry, error)
	getVersionFn func(ctx context.Context, projectID, versionID int64) (*models.VersionRecord, error)
}

func (m *mockVersionRepo) ListProjectHistory(ctx context.Context, projectID int64) ([]models.HistoryEntry, error) {
	return m.historyFn(ctx, projectID)
}

func (m *mockVersionRepo) GetVersion(ctx context.Context, projectID, versionID int64) (*models.VersionRecord, error) {
	return m.getVersionFn(ctx, projectID, versionID)
}

// mockRollbackRepo implements api.RollbackRepository for testing.
type mockRollbackRepo struct {
	rollbackFn func(ctx context.Context, projectID, versionID int64) error
}

func (m *mockRollbackRepo) Rollback(ctx context.Context, projectID, versionID int64) error {
	return m.rollbackFn(ctx, projectID, versionID)
}

// mockProjectRepo implements api.ProjectRepository for testing.
type mockProjectRepo struct {
	globalParamsFn func(ctx context.Context, projectID int64) ([]models.GlobalParam, error)
}

func (m *mockProjectRepo) GlobalParams(ctx context.Context, projectID int64) ([]models.GlobalParam, error) {
	return m.globalParamsFn(ctx, projectID)
}

// mockRunner implements api.ApiRunner for testing.
type mockRunner struct {
	runFn func(ctx context.Context, in *service.RunInput) (*service.RunResult, error)
}

func (m *mockRunner) Run(ctx context.Context, in *service.RunInput) (*service.RunResult, error) {
	return m.runFn(ctx, in)
}
