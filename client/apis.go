package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ApiService handles api definition operations.
type ApiService struct {
	c *Client
}

// Create creates a new api definition and returns its ID.
func (s *ApiService) Create(ctx context.Context, req *CreateApiRequest) (int64, error) {
	var resp struct {
		ApiID int64 `json:"api_id"`
	}
	if err := s.c.post(ctx, "/api/v1/apis", req, &resp); err != nil {
		return 0, err
	}
	return resp.ApiID, nil
}

// Get returns the full detail of an api definition.
func (s *ApiService) Get(ctx context.Context, apiID int64) (*ApiDetail, error) {
	var detail ApiDetail
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/apis/%d", apiID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update applies one logical edit to an api definition. It returns the ID of
// the version the edit created, or 0 for a dictionary-move-only edit.
func (s *ApiService) Update(ctx context.Context, apiID int64, req *UpdateApiRequest) (int64, error) {
	var resp struct {
		ApiID     int64 `json:"api_id"`
		VersionID int64 `json:"version_id"`
	}
	if err := s.c.put(ctx, fmt.Sprintf("/api/v1/apis/%d", apiID), req, &resp); err != nil {
		return 0, err
	}
	return resp.VersionID, nil
}

// Delete soft-deletes an api definition.
func (s *ApiService) Delete(ctx context.Context, apiID, projectID int64) error {
	params := url.Values{}
	params.Set("project_id", strconv.FormatInt(projectID, 10))
	return s.c.del(ctx, fmt.Sprintf("/api/v1/apis/%d", apiID), params, nil)
}

// Run executes an api against its project's current environment.
func (s *ApiService) Run(ctx context.Context, apiID int64, req *RunApiRequest) (*RunResult, error) {
	if req == nil {
		req = &RunApiRequest{}
	}
	var result RunResult
	if err := s.c.post(ctx, fmt.Sprintf("/api/v1/apis/%d/run", apiID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
