package client

import (
	"context"
	"fmt"
)

// ProjectService handles project history and rollback operations.
type ProjectService struct {
	c *Client
}

// History returns the project's version ledger, newest first.
func (s *ProjectService) History(ctx context.Context, projectID int64) ([]HistoryEntry, error) {
	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/projects/%d/history", projectID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// GetVersion returns a single ledger entry.
func (s *ProjectService) GetVersion(ctx context.Context, projectID, versionID int64) (*VersionRecord, error) {
	var version VersionRecord
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/projects/%d/versions/%d", projectID, versionID), nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

// Rollback reverses a single version. Creation and deletion versions cannot
// be rolled back; the server responds 409 and IsConflict reports it.
func (s *ProjectService) Rollback(ctx context.Context, projectID, versionID int64) error {
	body := map[string]int64{"version_id": versionID}
	return s.c.post(ctx, fmt.Sprintf("/api/v1/projects/%d/rollback", projectID), body, nil)
}
