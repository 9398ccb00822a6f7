package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ParamClass identifies where a request parameter is carried.
type ParamClass int16

// Parameter classes, matching the grouping used by edit payloads.
const (
	ParamClassQuery      ParamClass = 0
	ParamClassFormData   ParamClass = 1
	ParamClassURLEncoded ParamClass = 2
	ParamClassCookie     ParamClass = 3
	ParamClassHeader     ParamClass = 4
)

// paramClassCount bounds the valid class range.
const paramClassCount = 5

// Valid reports whether the class is one of the known parameter classes.
func (c ParamClass) Valid() bool {
	return c >= 0 && c < paramClassCount
}

// ResponsePayload is one response object supplied in an edit request.
type ResponsePayload struct {
	HTTPStatus   int    `json:"http_status"`
	ResponseName string `json:"response_name"`
	ResponseBody string `json:"response_body"`
}

// Validate checks a response payload.
func (r ResponsePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HTTPStatus, validation.Required, validation.Min(100), validation.Max(599)),
		validation.Field(&r.ResponseName, validation.Required, validation.Length(1, 255)),
	)
}

// ResponseRow is a stored response snapshot.
type ResponseRow struct {
	ID           int64  `json:"response_id"`
	ApiID        int64  `json:"-"`
	HTTPStatus   int    `json:"http_status"`
	ResponseName string `json:"response_name"`
	ResponseBody string `json:"response_body"`
	VersionID    *int64 `json:"-"`
	Active       bool   `json:"-"`
}

// ParamPayload is one parameter entry inside a group.
// Entries with an empty name are skipped on insert.
type ParamPayload struct {
	ParamName  string `json:"param_name"`
	ParamType  int16  `json:"param_type"`
	ParamDesc  string `json:"param_desc"`
	ParamValue string `json:"param_value,omitempty"` // only meaningful when running an api
}

// ParamGroup is a class-tagged list of parameters in an edit or run request.
type ParamGroup struct {
	Class  ParamClass     `json:"type"`
	Params []ParamPayload `json:"params_list"`
}

// Validate checks the group's class tag.
func (g ParamGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Class, validation.By(func(any) error {
			if !g.Class.Valid() {
				return validation.NewError("validation_param_class", "param class must be between 0 and 4")
			}

			return nil
		})),
	)
}

// ParamRow is a stored request-parameter snapshot.
type ParamRow struct {
	ID        int64      `json:"param_id"`
	ApiID     int64      `json:"-"`
	Class     ParamClass `json:"-"`
	ParamName string     `json:"param_name"`
	ParamType int16      `json:"param_type"`
	ParamDesc string     `json:"param_desc"`
	VersionID *int64     `json:"-"`
	Active    bool       `json:"-"`
}

// BodyRow is the stored request-body snapshot. At most one row per api is
// active at any time.
type BodyRow struct {
	ID        int64  `json:"body_id"`
	ApiID     int64  `json:"-"`
	BodyJSON  string `json:"body_json"`
	VersionID *int64 `json:"-"`
	Active    bool   `json:"-"`
}
