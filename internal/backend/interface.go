// Package backend wires the configured transaction store, event publisher and
// summary cache into a ready-to-use TransactionService.
package backend

import (
	"context"

	"moneybot/internal/amqp"
	"moneybot/internal/analytics"
	"moneybot/internal/cache"
	"moneybot/internal/services"
	"moneybot/internal/store"
	"moneybot/internal/worker"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult contains the wired components and their cleanup function.
type BackendResult struct {
	Store     store.Store
	Service   *services.TransactionService
	Summaries *cache.LRUCache[analytics.Summary]

	// Snapshots is nil for backends that cannot persist summary snapshots.
	Snapshots worker.SnapshotWriter
	// Publisher is nil when events are disabled or the broker was unreachable.
	Publisher *amqp.Client

	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
