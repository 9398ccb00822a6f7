package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/apitrail/apitrail/internal/models"
)

// UpdateApi applies one logical edit touching up to four aspects, plus an
// optional dictionary reassignment, as a single transaction. Dictionary
// moves bypass the ledger; every aspect edit opens a version, tags the
// superseded rows with it, and closes it with the accumulated change set
// and summary. Returns the created version id, or 0 for a move-only edit.
func (s *ApiStore) UpdateApi(ctx context.Context, userID, apiID int64, req models.UpdateApiRequest) (int64, error) {
	if req.Empty() && req.DictionaryID == nil {
		return 0, models.ErrNothingToUpdate
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("updating api: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := s.moveDictionary(ctx, tx, apiID, req.DictionaryID); err != nil {
		return 0, err
	}

	if req.Empty() {
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("committing dictionary move: %w", err)
		}

		s.notify("api.moved", req.ProjectID)

		return 0, nil
	}

	versionID, err := openVersion(ctx, tx, req.ProjectID, userID)
	if err != nil {
		return 0, err
	}

	changes, summary, err := s.applyAspects(ctx, tx, apiID, versionID, req)
	if err != nil {
		return 0, err
	}

	if err := closeVersion(ctx, tx, versionID, changes, summary); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing update api: %w", err)
	}

	s.notify("api.updated", req.ProjectID)

	return versionID, nil
}

// moveDictionary applies a folder reassignment directly to the entity.
// Not versioned: the ledger only tracks aspect edits.
func (s *ApiStore) moveDictionary(ctx context.Context, tx querier, apiID int64, dictionaryID *int64) error {
	if dictionaryID == nil {
		return nil
	}

	var current int64

	err := tx.QueryRow(ctx,
		"SELECT dictionary_id FROM apis WHERE api_id = $1", apiID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrApiNotFound
		}

		return fmt.Errorf("loading dictionary assignment: %w", err)
	}

	if current == *dictionaryID {
		return nil
	}

	if _, err := tx.Exec(ctx,
		"UPDATE apis SET dictionary_id = $1 WHERE api_id = $2",
		*dictionaryID, apiID,
	); err != nil {
		return fmt.Errorf("moving api to dictionary: %w", err)
	}

	return nil
}

// applyAspects writes each supplied aspect under the open version and
// accumulates the change set and the human-readable summary.
func (s *ApiStore) applyAspects(
	ctx context.Context,
	tx querier,
	apiID, versionID int64,
	req models.UpdateApiRequest,
) (models.ChangeSet, string, error) {
	var changes models.ChangeSet
	var parts []string

	if req.BasicInfo != nil {
		if err := s.applyBasicInfo(ctx, tx, apiID, versionID, *req.BasicInfo); err != nil {
			return nil, "", err
		}

		changes = append(changes, models.ChangeBasic)
		parts = append(parts, fmt.Sprintf("updated basic info of api %d", apiID))
	}

	if req.Responses != nil {
		if _, err := deactivateResponses(ctx, tx, apiID, versionID); err != nil {
			return nil, "", err
		}

		names, err := insertResponses(ctx, tx, apiID, versionID, *req.Responses)
		if err != nil {
			return nil, "", err
		}

		changes = append(changes, models.ChangeResponses)
		parts = append(parts, "updated responses: "+strings.Join(names, ", "))
	}

	if req.Params != nil {
		if _, err := deactivateParams(ctx, tx, apiID, versionID); err != nil {
			return nil, "", err
		}

		names, err := insertParams(ctx, tx, apiID, versionID, *req.Params)
		if err != nil {
			return nil, "", err
		}

		changes = append(changes, models.ChangeParams)
		parts = append(parts, "updated request params: "+strings.Join(names, ", "))
	}

	if req.BodyJSON != nil {
		if _, err := deactivateBody(ctx, tx, apiID, versionID); err != nil {
			return nil, "", err
		}

		if err := insertBody(ctx, tx, apiID, versionID, *req.BodyJSON); err != nil {
			return nil, "", err
		}

		changes = append(changes, models.ChangeBody)
		parts = append(parts, "updated body JSON")
	}

	return changes, strings.Join(parts, "; ") + ".", nil
}

// applyBasicInfo backs up the entire current row, then overwrites the
// entity's basic-info fields in place and points it at the new version.
func (s *ApiStore) applyBasicInfo(
	ctx context.Context,
	tx querier,
	apiID, versionID int64,
	info models.BasicInfoPayload,
) error {
	if err := backupBasicInfo(ctx, tx, apiID, versionID); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `
		UPDATE apis SET
			api_name = $1, api_method = $2, api_url = $3, api_status = $4,
			api_desc = $5, api_principal_id = $6, api_editor_id = $7,
			version_id = $8, edited_at = now()
		WHERE api_id = $9`,
		info.Name, info.Method, info.URL, info.Status,
		info.Desc, info.PrincipalID, info.EditorID,
		versionID, apiID,
	)
	if err != nil {
		return fmt.Errorf("overwriting basic info: %w", err)
	}

	return nil
}
