package store

import (
	"context"
	"fmt"

	"github.com/apitrail/apitrail/internal/models"
)

// RollbackStore reverses exactly one version's effect on the aspects it
// touched, then removes that ledger entry. The whole reversal is one
// transaction: a failure at any step leaves the project untouched.
type RollbackStore struct {
	Base
}

// NewRollbackStore creates a new RollbackStore.
func NewRollbackStore(base Base) *RollbackStore {
	return &RollbackStore{Base: base}
}

// Rollback reverses the given version. Versions recording api creation or
// deletion are rejected with ErrVersionNotRollbackable before any write.
func (s *RollbackStore) Rollback(ctx context.Context, projectID, versionID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("rolling back version: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	changes, err := getVersionChanges(ctx, tx, projectID, versionID)
	if err != nil {
		return err
	}

	if !changes.Rollbackable() {
		return models.ErrVersionNotRollbackable
	}

	if changes.Contains(models.ChangeBasic) {
		prior, err := findPriorVersion(ctx, tx, projectID, models.ChangeBasic, versionID)
		if err != nil {
			return err
		}

		if err := restoreBasicInfo(ctx, tx, versionID, prior); err != nil {
			return err
		}
	}

	if changes.Contains(models.ChangeResponses) {
		prior, err := findPriorVersion(ctx, tx, projectID, models.ChangeResponses, versionID)
		if err != nil {
			return err
		}

		if err := deleteActiveResponses(ctx, tx, versionID); err != nil {
			return err
		}

		if err := reactivateResponses(ctx, tx, versionID, prior); err != nil {
			return err
		}
	}

	if changes.Contains(models.ChangeParams) {
		prior, err := findPriorVersion(ctx, tx, projectID, models.ChangeParams, versionID)
		if err != nil {
			return err
		}

		if err := deleteActiveParams(ctx, tx, versionID); err != nil {
			return err
		}

		if err := reactivateParams(ctx, tx, versionID, prior); err != nil {
			return err
		}
	}

	if changes.Contains(models.ChangeBody) {
		prior, err := findPriorVersion(ctx, tx, projectID, models.ChangeBody, versionID)
		if err != nil {
			return err
		}

		if err := deleteActiveBody(ctx, tx, versionID); err != nil {
			return err
		}

		if err := reactivateBody(ctx, tx, versionID, prior); err != nil {
			return err
		}
	}

	if err := removeVersion(ctx, tx, versionID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing rollback: %w", err)
	}

	s.notify("api.rolledback", projectID)

	return nil
}
