package api

import (
	"context"
	"encoding/json"

	"github.com/apitrail/apitrail/internal/models"
	"github.com/apitrail/apitrail/internal/service"
)

// ApiRepository defines api definition operations used by ApiHandler.
type ApiRepository interface {
	CreateApi(ctx context.Context, userID int64, req models.CreateApiRequest) (int64, error)
	GetApi(ctx context.Context, apiID int64) (*models.ApiDetail, error)
	UpdateApi(ctx context.Context, userID, apiID int64, req models.UpdateApiRequest) (int64, error)
	DeleteApi(ctx context.Context, userID, apiID, projectID int64) error
}

// VersionRepository defines version ledger reads used by ProjectHandler.
type VersionRepository interface {
	ListProjectHistory(ctx context.Context, projectID int64) ([]models.HistoryEntry, error)
	GetVersion(ctx context.Context, projectID, versionID int64) (*models.VersionRecord, error)
}

// RollbackRepository reverses a single version.
type RollbackRepository interface {
	Rollback(ctx context.Context, projectID, versionID int64) error
}

// ProjectRepository defines project environment reads used by the run endpoint.
type ProjectRepository interface {
	GlobalParams(ctx context.Context, projectID int64) ([]models.GlobalParam, error)
}

// ApiRunner executes an api definition against its environment.
type ApiRunner interface {
	Run(ctx context.Context, in *service.RunInput) (*service.RunResult, error)
}

// SchemaResolver generates mock data from a schema document.
type SchemaResolver interface {
	Resolve(raw json.RawMessage) (any, error)
}
