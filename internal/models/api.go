// Package models defines data types for the api documentation platform.
package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// allowedMethods are the HTTP methods an api definition may declare.
var allowedMethods = []any{"GET", "POST", "PUT", "DELETE", "PATCH"}

// Api is a stored api definition. Basic-info fields are mutated in place by
// edits; the full prior row is preserved in a backup keyed by the version
// that caused the overwrite.
type Api struct {
	ID               int64     `json:"api_id"`
	ProjectID        int64     `json:"project_id"`
	DictionaryID     int64     `json:"dictionary_id"`
	Name             string    `json:"api_name"`
	Method           string    `json:"api_method"`
	URL              string    `json:"api_url"`
	Status           int16     `json:"api_status"`
	Desc             string    `json:"api_desc"`
	PrincipalID      int64     `json:"api_principal_id"`
	EditorID         int64     `json:"api_editor_id"`
	CreatorID        int64     `json:"api_creator_id"`
	CurrentVersionID *int64    `json:"version_id"`
	Deleted          bool      `json:"-"`
	CreatedAt        time.Time `json:"api_created_at"`
	EditedAt         time.Time `json:"api_edited_at"`
}

// BasicInfoPayload carries the mutable basic-info fields of an api.
type BasicInfoPayload struct {
	Name        string `json:"api_name"`
	Method      string `json:"api_method"`
	URL         string `json:"api_url"`
	Status      int16  `json:"api_status"`
	Desc        string `json:"api_desc"`
	PrincipalID int64  `json:"api_principal_id"`
	EditorID    int64  `json:"api_editor_id"`
}

// Validate checks the basic-info fields.
func (p BasicInfoPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Method, validation.Required, validation.In(allowedMethods...)),
		validation.Field(&p.URL, validation.Required, validation.Length(1, 2048)),
	)
}

// CreateApiRequest is the payload for creating a new api definition.
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

// Validate checks required creation fields.
func (r CreateApiRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, validation.Required),
		validation.Field(&r.DictionaryID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Method, validation.Required, validation.In(allowedMethods...)),
		validation.Field(&r.URL, validation.Required, validation.Length(1, 2048)),
	)
}

// UpdateApiRequest is one logical edit. Every aspect field is optional; a
// nil field means "leave that aspect untouched". A non-nil empty slice
// replaces the aspect's rows with nothing.
type UpdateApiRequest struct {
	ProjectID    int64              `json:"project_id"`
	DictionaryID *int64             `json:"dictionary_id,omitempty"`
	BasicInfo    *BasicInfoPayload  `json:"basic_info,omitempty"`
	Responses    *[]ResponsePayload `json:"api_responses,omitempty"`
	Params       *[]ParamGroup      `json:"api_request_params,omitempty"`
	BodyJSON     *string            `json:"api_request_json,omitempty"`
}

// Empty reports whether the request carries no aspect payload at all.
// Dictionary reassignment alone does not count as an aspect edit.
func (r UpdateApiRequest) Empty() bool {
	return r.BasicInfo == nil && r.Responses == nil && r.Params == nil && r.BodyJSON == nil
}

// Validate checks the edit payload aspect by aspect.
func (r UpdateApiRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, validation.Required),
	); err != nil {
		return err
	}

	if r.BasicInfo != nil {
		if err := r.BasicInfo.Validate(); err != nil {
			return err
		}
	}

	if r.Responses != nil {
		for _, resp := range *r.Responses {
			if err := resp.Validate(); err != nil {
				return err
			}
		}
	}

	if r.Params != nil {
		for _, group := range *r.Params {
			if err := group.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}

// ApiDetail is the full read assembly of an api: current basic info plus the
// active snapshot of every aspect.
type ApiDetail struct {
	Api
	BaseURL   string          `json:"base_url"`
	Params    []ParamGroup    `json:"api_request_params"`
	BodyJSON  string          `json:"api_request_json"`
	Responses []ResponseRow   `json:"api_responses"`
}

// RunApiRequest carries caller-supplied values for executing an api against
// its project's current environment.
type RunApiRequest struct {
	Params   []ParamGroup `json:"api_request_params"`
	BodyJSON string       `json:"api_request_json,omitempty"`
}

// RollbackRequest identifies the single version to reverse.
type RollbackRequest struct {
	VersionID int64 `json:"version_id"`
}

// Validate checks the rollback payload.
func (r RollbackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VersionID, validation.Required),
	)
}
