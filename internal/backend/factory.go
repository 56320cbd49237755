package backend

import (
	"context"
	"errors"
	"fmt"

	"moneybot/internal/amqp"
	"moneybot/internal/analytics"
	"moneybot/internal/cache"
	"moneybot/internal/log"
	"moneybot/internal/services"
	"moneybot/internal/storage"
	"moneybot/internal/store"
	"moneybot/internal/store/memory"
	"moneybot/internal/worker"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.wireService(result, config)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedDemoData {
		if err := repo.SeedDemo(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:     repo,
		Snapshots: repo,
		Cleanup:   repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	var st *memory.Store
	if config.SeedDemoData {
		st = memory.NewSeeded()
	} else {
		st = memory.New()
	}

	f.logger.Info("Initialized memory backend", "seeded", config.SeedDemoData)

	return &BackendResult{Store: st}
}

// wireService attaches the optional AMQP publisher and the summary cache.
// An unreachable broker disables events instead of failing startup.
func (f *DefaultFactory) wireService(result *BackendResult, config Config) {
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
			result.Publisher = client
		}
	}

	result.Summaries = cache.NewLRUCache[analytics.Summary](config.SummaryCacheSize, config.SummaryCacheTTL)

	opts := []services.Option{services.WithSummaryCache(result.Summaries)}
	if result.Publisher != nil {
		opts = append(opts, services.WithPublisher(result.Publisher))
	}
	result.Service = services.NewTransactionService(result.Store, f.logger, opts...)

	storeCleanup := result.Cleanup
	publisher := result.Publisher
	result.Cleanup = func() error {
		var errs []error
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
}

var (
	_ store.Store           = (*storage.SQLiteRepository)(nil)
	_ worker.SnapshotWriter = (*storage.SQLiteRepository)(nil)
)
