// Package service provides business logic for the apitrail server.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apitrail/apitrail/internal/metrics"
	"github.com/apitrail/apitrail/internal/models"
)

// maxRunResponse caps how much of an upstream response body is read (10 MB).
const maxRunResponse = 10 << 20

// RunInput is everything the runner needs to execute one api: the stored
// definition's method and path, the project's current base URL, caller-supplied
// parameters, the project's global parameters, and the active response schema
// for mock runs.
type RunInput struct {
	Method         string
	Path           string
	BaseURL        string
	Params         []models.ParamGroup
	BodyJSON       string
	GlobalParams   []models.GlobalParam
	ResponseSchema string
}

// RunConfig echoes the request the runner assembled, so callers can inspect
// exactly what was sent.
type RunConfig struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Query   map[string]string `json:"params"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

// RunResult is the outcome of a run: the assembled request plus the upstream
// (or generated) response.
type RunResult struct {
	Mode    string          `json:"mode"`
	Status  int             `json:"status,omitempty"`
	Request RunConfig       `json:"request"`
	Data    json.RawMessage `json:"data"`
}

// Runner executes api definitions against their project environment, or
// short-circuits to the mock generator when the environment points at the
// configured mock URL.
type Runner struct {
	client  *http.Client
	mockURL string
	mockgen *MockGenerator
	log     *logrus.Logger
}

// NewRunner creates a Runner. timeout bounds each upstream request.
func NewRunner(mockURL string, timeout time.Duration, log *logrus.Logger) *Runner {
	return &Runner{
		client:  &http.Client{Timeout: timeout},
		mockURL: mockURL,
		mockgen: NewMockGenerator(),
		log:     log,
	}
}

// assembled holds caller-supplied and global parameters bucketed by where
// they are carried on the wire.
type assembled struct {
	query      url.Values
	headers    map[string]string
	cookies    map[string]string
	formData   url.Values
	urlencoded url.Values
}

// Run executes one api. Runs are never versioned.
func (r *Runner) Run(ctx context.Context, in *RunInput) (*RunResult, error) {
	params := bucketParams(in.Params, in.GlobalParams)

	if r.mockURL != "" && in.BaseURL == r.mockURL {
		return r.runMock(in)
	}

	return r.runLive(ctx, in, params)
}

// runMock resolves the api's stored response schema into generated data
// instead of calling an upstream server.
func (r *Runner) runMock(in *RunInput) (*RunResult, error) {
	if strings.TrimSpace(in.ResponseSchema) == "" {
		return nil, models.ErrNoResponseSchema
	}

	schema := json.RawMessage(in.ResponseSchema)

	// Documents wrapped in a top-level "root" key carry the schema there.
	var wrapper struct {
		Root json.RawMessage `json:"root"`
	}
	if err := json.Unmarshal(schema, &wrapper); err == nil && len(wrapper.Root) > 0 {
		schema = wrapper.Root
	}

	data, err := r.mockgen.Resolve(schema)
	if err != nil {
		return nil, fmt.Errorf("resolving response schema: %w", err)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding mock data: %w", err)
	}

	metrics.ApiRunsTotal.WithLabelValues("mock").Inc()

	return &RunResult{
		Mode:    "mock",
		Request: RunConfig{Method: in.Method, URL: in.BaseURL + in.Path},
		Data:    encoded,
	}, nil
}

// runLive issues a real HTTP request against the project environment.
func (r *Runner) runLive(ctx context.Context, in *RunInput, params *assembled) (*RunResult, error) {
	body, contentType, err := encodeBody(in, params)
	if err != nil {
		return nil, err
	}

	target := in.BaseURL + in.Path
	req, err := http.NewRequestWithContext(ctx, in.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if len(params.query) > 0 {
		req.URL.RawQuery = params.query.Encode()
	}

	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, value := range params.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", in.Method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRunResponse))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	metrics.ApiRunsTotal.WithLabelValues("live").Inc()

	r.log.WithFields(logrus.Fields{
		"method": in.Method,
		"url":    target,
		"status": resp.StatusCode,
	}).Debug("api run completed")

	cfg := RunConfig{
		Method:  in.Method,
		URL:     req.URL.String(),
		Query:   flatten(params.query),
		Headers: params.headers,
	}

	return &RunResult{
		Mode:    "live",
		Status:  resp.StatusCode,
		Request: cfg,
		Data:    toJSON(raw),
	}, nil
}

// encodeBody picks the request body for non-GET runs. When several body kinds
// are supplied, a raw JSON body wins, then urlencoded fields, then form data.
func encodeBody(in *RunInput, params *assembled) (io.Reader, string, error) {
	if in.Method == http.MethodGet {
		return http.NoBody, "", nil
	}

	switch {
	case in.BodyJSON != "":
		return strings.NewReader(in.BodyJSON), "application/json", nil

	case len(params.urlencoded) > 0:
		return strings.NewReader(params.urlencoded.Encode()), "application/x-www-form-urlencoded", nil

	case len(params.formData) > 0:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for key, values := range params.formData {
			for _, v := range values {
				if err := w.WriteField(key, v); err != nil {
					return nil, "", fmt.Errorf("encoding form field %q: %w", key, err)
				}
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("finalizing form body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}

	return http.NoBody, "", nil
}

// bucketParams classifies caller-supplied groups by class and merges in the
// project's global parameters. Entries with empty names are skipped.
func bucketParams(groups []models.ParamGroup, globals []models.GlobalParam) *assembled {
	a := &assembled{
		query:      url.Values{},
		headers:    map[string]string{},
		cookies:    map[string]string{},
		formData:   url.Values{},
		urlencoded: url.Values{},
	}

	for _, g := range groups {
		for _, p := range g.Params {
			if p.ParamName == "" {
				continue
			}
			switch g.Class {
			case models.ParamClassQuery:
				a.query.Set(p.ParamName, p.ParamValue)
			case models.ParamClassFormData:
				a.formData.Set(p.ParamName, p.ParamValue)
			case models.ParamClassURLEncoded:
				a.urlencoded.Set(p.ParamName, p.ParamValue)
			case models.ParamClassCookie:
				a.cookies[p.ParamName] = p.ParamValue
			case models.ParamClassHeader:
				a.headers[p.ParamName] = p.ParamValue
			}
		}
	}

	for _, gp := range globals {
		if gp.ParamName == "" {
			continue
		}
		value := globalValue(gp.ParamValue)
		switch gp.Scope {
		case models.GlobalScopeHeader:
			a.headers[gp.ParamName] = value
		case models.GlobalScopeCookie:
			a.cookies[gp.ParamName] = value
		case models.GlobalScopeQuery:
			a.query.Set(gp.ParamName, value)
		}
	}

	return a
}

// globalValue unwraps global parameter values stored as {"value": ...}
// documents; anything else is used verbatim.
func globalValue(raw string) string {
	var wrapper struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil || len(wrapper.Value) == 0 {
		return raw
	}

	var s string
	if err := json.Unmarshal(wrapper.Value, &s); err == nil {
		return s
	}

	return string(wrapper.Value)
}

// flatten converts url.Values to a single-valued map for the echoed config.
func flatten(v url.Values) map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out
}

// toJSON wraps non-JSON upstream responses as a JSON string so RunResult
// always carries valid JSON.
func toJSON(raw []byte) json.RawMessage {
	if json.Valid(raw) {
		return raw
	}

	encoded, err := json.Marshal(string(raw))
	if err != nil {
		return json.RawMessage(`""`)
	}
	return encoded
}
