package client

import (
	"context"
	"encoding/json"
)

// MockService handles ad-hoc mock data generation.
type MockService struct {
	c *Client
}

// Generate resolves a schema document into generated mock data.
func (s *MockService) Generate(ctx context.Context, schema json.RawMessage) (json.RawMessage, error) {
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := s.c.post(ctx, "/api/v1/mock", schema, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}
