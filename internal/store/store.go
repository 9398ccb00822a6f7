// Package store provides focused, single-concern data access stores
// for the api documentation platform.
//
// Each store owns one domain (apis, versions, projects, users) and embeds
// shared helpers (Pool, logger) via the Base struct. Stores never import
// each other — tx-scoped primitives shared between the edit and rollback
// paths live in the per-aspect files of this package.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/apitrail/apitrail/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	return b.Pool.Begin(ctx)
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	return b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
}

// querier is the subset of pgx.Tx the tx-scoped primitives need, so read
// paths can reuse them outside a write transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notify sends a pg_notify on the api_changes channel (best-effort, post-commit).
func (b *Base) notify(event string, projectID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"type":       event,
		"project_id": projectID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('api_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + event + " notification")
	}
}
