package store

import (
	"context"
	"fmt"

	"github.com/apitrail/apitrail/internal/models"
)

// Tx-scoped primitives for the response aspect. One row per response
// object; at most one active row per (api, response name) at any time.

// insertResponses inserts the supplied responses as the new active rows,
// tagged with the version that produced them. Returns the inserted names
// for the version summary.
func insertResponses(
	ctx context.Context,
	tx querier,
	apiID, versionID int64,
	payloads []models.ResponsePayload,
) ([]string, error) {
	names := make([]string, 0, len(payloads))

	for _, p := range payloads {
		_, err := tx.Exec(ctx, `
			INSERT INTO api_responses (api_id, http_status, response_name, response_body, version_id, active)
			VALUES ($1, $2, $3, $4, $5, TRUE)`,
			apiID, p.HTTPStatus, p.ResponseName, p.ResponseBody, versionID,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting response %q: %w", p.ResponseName, err)
		}

		names = append(names, p.ResponseName)
	}

	return names, nil
}

// deactivateResponses marks all active response rows for the api inactive,
// retagging them with the superseding version. Returns the affected count.
func deactivateResponses(ctx context.Context, tx querier, apiID, versionID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE api_responses SET active = FALSE, version_id = $1
		WHERE api_id = $2 AND active`,
		versionID, apiID,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivating responses: %w", err)
	}

	return tag.RowsAffected(), nil
}

// deleteActiveResponses removes the active rows a version introduced.
// Rollback primitive; runs before the superseded rows are reactivated.
func deleteActiveResponses(ctx context.Context, tx querier, versionID int64) error {
	_, err := tx.Exec(ctx,
		"DELETE FROM api_responses WHERE version_id = $1 AND active", versionID)
	if err != nil {
		return fmt.Errorf("deleting responses of version %d: %w", versionID, err)
	}

	return nil
}

// reactivateResponses flips the rows a version superseded back to active,
// retagging them with the version that preceded the one being rolled back.
// A nil prior means the aspect had no earlier history.
func reactivateResponses(ctx context.Context, tx querier, versionID int64, prior *int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE api_responses SET active = TRUE, version_id = $1
		WHERE version_id = $2 AND NOT active`,
		prior, versionID,
	)
	if err != nil {
		return fmt.Errorf("reactivating responses of version %d: %w", versionID, err)
	}

	return nil
}

// activeResponses returns the current response set for an api.
func activeResponses(ctx context.Context, tx querier, apiID int64) ([]models.ResponseRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT response_id, api_id, http_status, response_name, response_body, version_id, active
		FROM api_responses
		WHERE api_id = $1 AND active
		ORDER BY response_id`,
		apiID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active responses: %w", err)
	}
	defer rows.Close()

	var out []models.ResponseRow

	for rows.Next() {
		var r models.ResponseRow
		if err := rows.Scan(&r.ID, &r.ApiID, &r.HTTPStatus, &r.ResponseName, &r.ResponseBody, &r.VersionID, &r.Active); err != nil {
			return nil, fmt.Errorf("scanning response row: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating response rows: %w", err)
	}

	return out, nil
}
