package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Tx-scoped primitives for the request-body aspect. At most one active row
// per api at any time.

// insertBody inserts the new active body row, tagged with the version that
// produced it. Literal newline and tab characters are stripped from the
// payload before storage.
func insertBody(ctx context.Context, tx querier, apiID, versionID int64, bodyJSON string) error {
	cleaned := strings.NewReplacer("\n", "", "\t", "").Replace(bodyJSON)

	_, err := tx.Exec(ctx, `
		INSERT INTO request_bodies (api_id, body_json, version_id, active)
		VALUES ($1, $2, $3, TRUE)`,
		apiID, cleaned, versionID,
	)
	if err != nil {
		return fmt.Errorf("inserting body JSON: %w", err)
	}

	return nil
}

// deactivateBody marks the api's active body row (if any) inactive,
// retagging it with the superseding version. Returns the affected count.
func deactivateBody(ctx context.Context, tx querier, apiID, versionID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE request_bodies SET active = FALSE, version_id = $1
		WHERE api_id = $2 AND active`,
		versionID, apiID,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivating body JSON: %w", err)
	}

	return tag.RowsAffected(), nil
}

// deleteActiveBody removes the active body row a version introduced.
func deleteActiveBody(ctx context.Context, tx querier, versionID int64) error {
	_, err := tx.Exec(ctx,
		"DELETE FROM request_bodies WHERE version_id = $1 AND active", versionID)
	if err != nil {
		return fmt.Errorf("deleting body of version %d: %w", versionID, err)
	}

	return nil
}

// reactivateBody flips the body row a version superseded back to active,
// retagging it with the prior version (nil when no history remains).
func reactivateBody(ctx context.Context, tx querier, versionID int64, prior *int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE request_bodies SET active = TRUE, version_id = $1
		WHERE version_id = $2 AND NOT active`,
		prior, versionID,
	)
	if err != nil {
		return fmt.Errorf("reactivating body of version %d: %w", versionID, err)
	}

	return nil
}

// activeBody returns the api's current body JSON, or "" when none is set.
func activeBody(ctx context.Context, tx querier, apiID int64) (string, error) {
	var body string

	err := tx.QueryRow(ctx,
		"SELECT body_json FROM request_bodies WHERE api_id = $1 AND active", apiID,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("querying active body: %w", err)
	}

	return body, nil
}
