// Package services orchestrates ledger operations across the store, the
// analytics engine, the summary cache and the event publisher.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"moneybot/internal/amqp"
	"moneybot/internal/analytics"
	"moneybot/internal/cache"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/store"
)

// EventPublisher publishes ledger change events. *amqp.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService validates and persists transactions, keeps per-user
// summaries cached and announces changes. Publishing is best effort: a
// failure is logged and never fails the request.
type TransactionService struct {
	store     store.Store
	publisher EventPublisher
	summaries cache.Cache[analytics.Summary]
	logger    *log.Logger
	today     func() core.Date

	// generations counts writes per user. A summary is cached only if no
	// write happened while it was being computed.
	mu          sync.Mutex
	generations map[string]uint64
}

type Option func(*TransactionService)

// WithPublisher enables change events.
func WithPublisher(p EventPublisher) Option {
	return func(s *TransactionService) { s.publisher = p }
}

// WithSummaryCache caches Summary results per user.
func WithSummaryCache(c cache.Cache[analytics.Summary]) Option {
	return func(s *TransactionService) { s.summaries = c }
}

// WithClock overrides how the reference date is obtained.
func WithClock(today func() core.Date) Option {
	return func(s *TransactionService) { s.today = today }
}

func NewTransactionService(st store.Store, logger *log.Logger, opts ...Option) *TransactionService {
	s := &TransactionService{
		store:       st,
		logger:      logger,
		today:       core.Today,
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create saves tx for userID and returns it with its assigned ID.
func (s *TransactionService) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.UserID = userID
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.Create(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidate(userID)

	s.logger.Fields(ctx, slog.LevelInfo, "Transaction created",
		log.NewFields().WithOperation(log.OpCreate).WithUser(userID).WithTransaction(saved))

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventTransactionCreated, saved))
	return saved, nil
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Delete removes one of the user's transactions. It returns an error wrapping
// store.ErrNotFound when the user has no such transaction.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate(userID)

	s.logger.Fields(ctx, slog.LevelInfo, "Transaction deleted",
		log.NewFields().WithOperation(log.OpDelete).WithUser(userID).WithTransaction(core.Transaction{ID: id}))

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventTransactionDeleted, core.Transaction{ID: id, UserID: userID}))
	return nil
}

// Summary returns the user's ledger summary as of today, served from cache
// while the cached entry still refers to the current day. Callers get their
// own copies of the Categories and Recent slices.
func (s *TransactionService) Summary(ctx context.Context, userID string) (analytics.Summary, error) {
	ref := s.today()
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(userID); ok && cached.ReferenceDate.Equal(ref.Time) {
			return cloneSummary(cached), nil
		}
	}

	gen := s.generation(userID)
	txs, err := s.List(ctx, userID)
	if err != nil {
		return analytics.Summary{}, err
	}
	summary, err := analytics.Summarize(txs, ref)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	s.cacheSummary(userID, gen, summary)
	return cloneSummary(summary), nil
}

// Answer replies to a free-text question about the user's ledger.
func (s *TransactionService) Answer(ctx context.Context, userID, query string) (analytics.Reply, error) {
	txs, err := s.List(ctx, userID)
	if err != nil {
		return analytics.Reply{}, err
	}
	reply, err := analytics.Respond(query, txs, s.today())
	if err != nil {
		return analytics.Reply{}, fmt.Errorf("answer query: %w", err)
	}

	s.logger.Fields(ctx, slog.LevelDebug, "Query answered",
		log.NewFields().WithOperation(log.OpAnswer).WithUser(userID).WithIntent(reply.Intent.String()))
	return reply, nil
}

// Report builds the tabular export of the user's ledger.
func (s *TransactionService) Report(ctx context.Context, userID string) (analytics.Report, error) {
	txs, err := s.List(ctx, userID)
	if err != nil {
		return analytics.Report{}, err
	}
	summary, err := analytics.Summarize(txs, s.today())
	if err != nil {
		return analytics.Report{}, fmt.Errorf("summarize: %w", err)
	}
	return analytics.Rows(summary, txs), nil
}

func (s *TransactionService) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

// cacheSummary stores summary unless the user's ledger changed after gen was read.
func (s *TransactionService) cacheSummary(userID string, gen uint64, summary analytics.Summary) {
	if s.summaries == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userID] != gen {
		return
	}
	s.summaries.Set(userID, summary)
}

func (s *TransactionService) invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	if s.summaries != nil {
		s.summaries.Delete(userID)
	}
}

func cloneSummary(sum analytics.Summary) analytics.Summary {
	sum.Categories = slices.Clone(sum.Categories)
	sum.Recent = slices.Clone(sum.Recent)
	return sum
}

func (s *TransactionService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Fields(ctx, slog.LevelWarn, "Failed to publish transaction event",
			log.NewFields().WithOperation(log.OpPublish).WithUser(event.UserID).WithError(err))
	}
}
