package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/apitrail/apitrail/internal/models"
)

// VersionStore handles read access to a project's version ledger. The
// write primitives below are tx-scoped so the edit and rollback paths can
// compose them inside a single transaction.
type VersionStore struct {
	Base
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(base Base) *VersionStore {
	return &VersionStore{Base: base}
}

// openVersion inserts a placeholder ledger row with an empty summary and
// change set, returning its id. Called before any aspect write so the new
// rows can be tagged with the version that produced them.
func openVersion(ctx context.Context, tx querier, projectID, userID int64) (int64, error) {
	var id int64

	err := tx.QueryRow(ctx, `
		INSERT INTO api_versions (project_id, user_id, change_types, summary)
		VALUES ($1, $2, '{}', '')
		RETURNING version_id`,
		projectID, userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("opening version: %w", err)
	}

	return id, nil
}

// closeVersion finalizes a placeholder row with the accumulated change set
// and summary. The row is immutable afterwards.
func closeVersion(ctx context.Context, tx querier, versionID int64, changes models.ChangeSet, summary string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE api_versions SET change_types = $1, summary = $2 WHERE version_id = $3`,
		changes.Int16s(), summary, versionID,
	)
	if err != nil {
		return fmt.Errorf("closing version: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrVersionNotFound
	}

	return nil
}

// insertClosedVersion inserts a fully-formed ledger row in one statement.
// Used for creation and deletion markers, which carry no aspect writes.
func insertClosedVersion(
	ctx context.Context,
	tx querier,
	projectID, userID int64,
	changes models.ChangeSet,
	summary string,
) (int64, error) {
	var id int64

	err := tx.QueryRow(ctx, `
		INSERT INTO api_versions (project_id, user_id, change_types, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING version_id`,
		projectID, userID, changes.Int16s(), summary,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting version: %w", err)
	}

	return id, nil
}

// findPriorVersion returns the id of the most recent version for the project
// whose change set contains the given type, excluding the version being
// rolled back. Returns nil when no such version exists — the aspect had no
// history before the excluded version.
func findPriorVersion(
	ctx context.Context,
	tx querier,
	projectID int64,
	change models.ChangeType,
	excluding int64,
) (*int64, error) {
	var id int64

	err := tx.QueryRow(ctx, `
		SELECT version_id FROM api_versions
		WHERE project_id = $1 AND change_types @> ARRAY[$2::smallint] AND version_id <> $3
		ORDER BY created_at DESC, version_id DESC
		LIMIT 1`,
		projectID, int16(change), excluding,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding prior version: %w", err)
	}

	return &id, nil
}

// getVersionChanges loads the change set of one ledger row.
func getVersionChanges(ctx context.Context, tx querier, projectID, versionID int64) (models.ChangeSet, error) {
	var raw []int16

	err := tx.QueryRow(ctx, `
		SELECT change_types FROM api_versions WHERE version_id = $1 AND project_id = $2`,
		versionID, projectID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}

		return nil, fmt.Errorf("loading version change set: %w", err)
	}

	return models.ChangeSetFromInt16s(raw), nil
}

// removeVersion deletes a ledger row. Only called as the terminal step of a
// successful rollback of that exact version.
func removeVersion(ctx context.Context, tx querier, versionID int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM api_versions WHERE version_id = $1", versionID)
	if err != nil {
		return fmt.Errorf("removing version: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrVersionNotFound
	}

	return nil
}

// ListProjectHistory returns the project's ledger entries, most recent
// first, joined with the acting user's name and avatar.
func (s *VersionStore) ListProjectHistory(ctx context.Context, projectID int64) ([]models.HistoryEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT v.version_id, v.project_id, v.user_id, v.change_types, v.summary, v.created_at,
		       COALESCE(u.username, ''), COALESCE(u.avatar, '')
		FROM api_versions v
		LEFT JOIN users u ON u.user_id = v.user_id
		WHERE v.project_id = $1
		ORDER BY v.created_at DESC, v.version_id DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying project history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry

	for rows.Next() {
		var e models.HistoryEntry
		var raw []int16

		if err := rows.Scan(
			&e.ID, &e.ProjectID, &e.UserID, &raw, &e.Summary, &e.CreatedAt,
			&e.UserName, &e.UserAvatar,
		); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}

		e.Changes = models.ChangeSetFromInt16s(raw)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}

	return entries, nil
}

// GetVersion returns a single ledger entry.
func (s *VersionStore) GetVersion(ctx context.Context, projectID, versionID int64) (*models.VersionRecord, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var v models.VersionRecord
	var raw []int16

	err := s.Pool.QueryRow(ctx, `
		SELECT version_id, project_id, user_id, change_types, summary, created_at
		FROM api_versions WHERE version_id = $1 AND project_id = $2`,
		versionID, projectID,
	).Scan(&v.ID, &v.ProjectID, &v.UserID, &raw, &v.Summary, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrVersionNotFound
		}

		return nil, fmt.Errorf("loading version: %w", err)
	}

	v.Changes = models.ChangeSetFromInt16s(raw)

	return &v, nil
}
