package models

import "errors"

// Sentinel errors for entity lookups.
var (
	ErrApiNotFound        = errors.New("api not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrProjectEnvNotFound = errors.New("project environment not found")
	ErrUserNotFound       = errors.New("user not found")
)

// ErrApiDeleted indicates the api exists but has been soft-deleted.
var ErrApiDeleted = errors.New("api has been deleted")

// ErrNothingToUpdate indicates an edit request carried no aspect payload
// and no dictionary move. Reported as a distinct non-error outcome.
var ErrNothingToUpdate = errors.New("nothing to update")

// ErrVersionNotRollbackable indicates a rollback was attempted on a version
// that records api creation or deletion, which cannot be reversed.
var ErrVersionNotRollbackable = errors.New("version cannot be rolled back")

// ErrNoResponseSchema indicates a mocked run found no stored response body
// to generate data from.
var ErrNoResponseSchema = errors.New("api has no response schema")
