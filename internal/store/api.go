package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/apitrail/apitrail/internal/models"
)

// ApiStore handles api definition lifecycle: creation, the versioned edit
// path, soft deletion, and the read assembly.
type ApiStore struct {
	Base
}

// NewApiStore creates a new ApiStore.
func NewApiStore(base Base) *ApiStore {
	return &ApiStore{Base: base}
}

const apiColumns = `api_id, project_id, dictionary_id, api_name, api_method, api_url,
	api_status, api_desc, api_principal_id, api_editor_id, api_creator_id,
	version_id, deleted, created_at, edited_at`

// scanApi scans one apis row in apiColumns order.
func scanApi(scan func(...any) error) (*models.Api, error) {
	var a models.Api

	err := scan(
		&a.ID, &a.ProjectID, &a.DictionaryID, &a.Name, &a.Method, &a.URL,
		&a.Status, &a.Desc, &a.PrincipalID, &a.EditorID, &a.CreatorID,
		&a.CurrentVersionID, &a.Deleted, &a.CreatedAt, &a.EditedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateApi inserts a new api definition and records a creation marker in
// the project's version ledger, in one transaction. Returns the new api id.
func (s *ApiStore) CreateApi(ctx context.Context, userID int64, req models.CreateApiRequest) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("creating api: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	versionID, err := insertClosedVersion(ctx, tx, req.ProjectID, userID,
		models.ChangeSet{models.ChangeCreated},
		fmt.Sprintf("added api: %s.", req.Name),
	)
	if err != nil {
		return 0, err
	}

	var apiID int64

	err = tx.QueryRow(ctx, `
		INSERT INTO apis (project_id, dictionary_id, api_name, api_method, api_url,
			api_status, api_desc, api_principal_id, api_editor_id, api_creator_id, version_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10)
		RETURNING api_id`,
		req.ProjectID, req.DictionaryID, req.Name, req.Method, req.URL,
		req.Status, req.Desc, req.PrincipalID, userID, versionID,
	).Scan(&apiID)
	if err != nil {
		return 0, fmt.Errorf("inserting api: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing create api: %w", err)
	}

	s.notify("api.created", req.ProjectID)

	return apiID, nil
}

// DeleteApi soft-deletes an api and records a deletion marker in the
// ledger. Aspect rows are left untouched.
func (s *ApiStore) DeleteApi(ctx context.Context, userID, apiID, projectID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("deleting api: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var name string

	err = tx.QueryRow(ctx,
		"SELECT api_name FROM apis WHERE api_id = $1 AND NOT deleted", apiID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrApiNotFound
		}

		return fmt.Errorf("loading api name: %w", err)
	}

	versionID, err := insertClosedVersion(ctx, tx, projectID, userID,
		models.ChangeSet{models.ChangeDeleted},
		fmt.Sprintf("deleted api: %s (id %d).", name, apiID),
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		"UPDATE apis SET deleted = TRUE, version_id = $1 WHERE api_id = $2",
		versionID, apiID,
	)
	if err != nil {
		return fmt.Errorf("marking api deleted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete api: %w", err)
	}

	s.notify("api.deleted", projectID)

	return nil
}

// GetApi assembles the full current view of an api: basic info, the
// project's current base URL, and the active snapshot of every aspect.
func (s *ApiStore) GetApi(ctx context.Context, apiID int64) (*models.ApiDetail, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting api: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	row := tx.QueryRow(ctx, "SELECT "+apiColumns+" FROM apis WHERE api_id = $1", apiID)

	a, err := scanApi(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrApiNotFound
		}

		return nil, fmt.Errorf("scanning api: %w", err)
	}

	if a.Deleted {
		return nil, models.ErrApiDeleted
	}

	detail := &models.ApiDetail{Api: *a}

	detail.BaseURL, err = currentBaseURL(ctx, tx, a.ProjectID)
	if err != nil && !errors.Is(err, models.ErrProjectEnvNotFound) {
		return nil, err
	}

	if detail.Params, err = activeParams(ctx, tx, apiID); err != nil {
		return nil, err
	}

	if detail.BodyJSON, err = activeBody(ctx, tx, apiID); err != nil {
		return nil, err
	}

	if detail.Responses, err = activeResponses(ctx, tx, apiID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing get api: %w", err)
	}

	return detail, nil
}

// backupBasicInfo copies the api's entire current row into api_backups
// tagged with the superseding version, before the in-place overwrite.
func backupBasicInfo(ctx context.Context, tx querier, apiID, versionID int64) error {
	tag, err := tx.Exec(ctx, `
		INSERT INTO api_backups (api_id, project_id, dictionary_id, api_name, api_method,
			api_url, api_status, api_desc, api_principal_id, api_editor_id, api_creator_id,
			deleted, api_created_at, api_edited_at, version_id)
		SELECT api_id, project_id, dictionary_id, api_name, api_method,
			api_url, api_status, api_desc, api_principal_id, api_editor_id, api_creator_id,
			deleted, created_at, edited_at, $1
		FROM apis WHERE api_id = $2`,
		versionID, apiID,
	)
	if err != nil {
		return fmt.Errorf("backing up basic info: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrApiNotFound
	}

	return nil
}

// restoreBasicInfo writes the backup row for the rolled-back version onto
// the api, keeping entity identity and bookkeeping fields (ids, project,
// timestamps, delete flag) as they are, then consumes the backup. A missing
// backup row is a no-op, matching an edit whose backup was already consumed.
func restoreBasicInfo(ctx context.Context, tx querier, versionID int64, prior *int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE apis a SET
			api_name = b.api_name,
			api_method = b.api_method,
			api_url = b.api_url,
			api_status = b.api_status,
			api_desc = b.api_desc,
			api_principal_id = b.api_principal_id,
			api_editor_id = b.api_editor_id,
			version_id = $1
		FROM api_backups b
		WHERE b.version_id = $2 AND a.api_id = b.api_id`,
		prior, versionID,
	)
	if err != nil {
		return fmt.Errorf("restoring basic info: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, "DELETE FROM api_backups WHERE version_id = $1", versionID); err != nil {
		return fmt.Errorf("consuming basic info backup: %w", err)
	}

	return nil
}
