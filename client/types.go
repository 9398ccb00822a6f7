package client

import (
	"encoding/json"
	"time"
)

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ParamEntry is one request parameter inside a group.
type ParamEntry struct {
	Name  string `json:"param_name"`
	Type  int16  `json:"param_type"`
	Desc  string `json:"param_desc"`
	Value string `json:"param_value,omitempty"`
}

// ParamGroup is a class-tagged list of request parameters.
// Classes: 0 query, 1 form-data, 2 urlencoded, 3 cookie, 4 header.
type ParamGroup struct {
	Class  int16        `json:"type"`
	Params []ParamEntry `json:"params_list"`
}

// ResponsePayload is one response definition supplied on create or update.
type ResponsePayload struct {
	HTTPStatus   int    `json:"http_status"`
	ResponseName string `json:"response_name"`
	ResponseBody string `json:"response_body"`
}

// ResponseRow is a stored response definition.
type ResponseRow struct {
	ID           int64  `json:"response_id"`
	HTTPStatus   int    `json:"http_status"`
	ResponseName string `json:"response_name"`
	ResponseBody string `json:"response_body"`
}

// CreateApiRequest is the payload for creating an api definition.
type CreateApiRequest struct {
	ProjectID    int64  `json:"project_id"`
	DictionaryID int64  `json:"dictionary_id"`
	Name         string `json:"api_name"`
	Method       string `json:"api_method"`
	URL          string `json:"api_url"`
	Status       int16  `json:"api_status"`
	Desc         string `json:"api_desc"`
	PrincipalID  int64  `json:"api_principal_id"`
}

// BasicInfo carries the mutable basic-info fields of an api.
type BasicInfo struct {
	Name        string `json:"api_name"`
	Method      string `json:"api_method"`
	URL         string `json:"api_url"`
	Status      int16  `json:"api_status"`
	Desc        string `json:"api_desc"`
	PrincipalID int64  `json:"api_principal_id"`
	EditorID    int64  `json:"api_editor_id"`
}

// UpdateApiRequest is one logical edit. Nil aspect fields are left untouched;
// a non-nil empty slice replaces the aspect's rows with nothing.
type UpdateApiRequest struct {
	ProjectID    int64              `json:"project_id"`
	DictionaryID *int64             `json:"dictionary_id,omitempty"`
	BasicInfo    *BasicInfo         `json:"basic_info,omitempty"`
	Responses    *[]ResponsePayload `json:"api_responses,omitempty"`
	Params       *[]ParamGroup      `json:"api_request_params,omitempty"`
	BodyJSON     *string            `json:"api_request_json,omitempty"`
}

// ApiDetail is the full read assembly of an api.
type ApiDetail struct {
	ID           int64         `json:"api_id"`
	ProjectID    int64         `json:"project_id"`
	DictionaryID int64         `json:"dictionary_id"`
	Name         string        `json:"api_name"`
	Method       string        `json:"api_method"`
	URL          string        `json:"api_url"`
	Status       int16         `json:"api_status"`
	Desc         string        `json:"api_desc"`
	VersionID    *int64        `json:"version_id"`
	BaseURL      string        `json:"base_url"`
	Params       []ParamGroup  `json:"api_request_params"`
	BodyJSON     string        `json:"api_request_json"`
	Responses    []ResponseRow `json:"api_responses"`
	CreatedAt    time.Time     `json:"api_created_at"`
	EditedAt     time.Time     `json:"api_edited_at"`
}

// RunApiRequest carries caller-supplied values for executing an api.
type RunApiRequest struct {
	Params   []ParamGroup `json:"api_request_params"`
	BodyJSON string       `json:"api_request_json,omitempty"`
}

// RunConfig echoes the request the server assembled for a run.
type RunConfig struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Query   map[string]string `json:"params"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

// RunResult is the outcome of an api run.
type RunResult struct {
	Mode    string          `json:"mode"`
	Status  int             `json:"status,omitempty"`
	Request RunConfig       `json:"request"`
	Data    json.RawMessage `json:"data"`
}

// VersionRecord is one entry in a project's version ledger.
// Change types: 0 basic info, 1 responses, 2 params, 3 body, 4 created, 5 deleted.
type VersionRecord struct {
	ID          int64     `json:"version_id"`
	ProjectID   int64     `json:"project_id"`
	UserID      int64     `json:"user_id"`
	ChangeTypes []int16   `json:"change_types"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntry is a ledger entry joined with the acting user.
type HistoryEntry struct {
	VersionRecord
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar,omitempty"`
}
