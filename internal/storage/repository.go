// Package storage is the SQLite-backed transaction store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"moneybot/internal/analytics"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/store"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Create implements store.TransactionWriter
func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:          uuid.NewString(),
		UserID:      tx.UserID,
		Date:        tx.Date.String(),
		Description: tx.Description,
		Category:    tx.Category,
		AmountCents: tx.Amount.Cents,
		Kind:        string(tx.Kind),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved to SQLite",
		log.FieldTransactionID, row.ID,
		log.FieldUserID, row.UserID,
		log.FieldAmountCents, row.AmountCents)

	return toCore(row)
}

// ListByUser implements store.TransactionLister
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := toCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// Delete implements store.TransactionDeleter
func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SeedDemo inserts the demo ledger when the database holds no transactions yet.
func (r *SQLiteRepository) SeedDemo(ctx context.Context) error {
	count, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count > 0 {
		return nil
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer sqlTx.Rollback()

	q := r.queries.WithTx(sqlTx)
	for _, tx := range store.DemoTransactions() {
		if _, err := q.CreateTransaction(ctx, CreateTransactionParams{
			ID:          uuid.NewString(),
			UserID:      tx.UserID,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Category:    tx.Category,
			AmountCents: tx.Amount.Cents,
			Kind:        string(tx.Kind),
		}); err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	r.logger.InfoContext(ctx, "Seeded demo ledger", log.FieldUserID, store.DemoUserID)
	return nil
}

// SaveSnapshot records a computed summary for userID.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, userID string, s analytics.Summary, at time.Time) (int64, error) {
	id, err := r.queries.CreateSummarySnapshot(ctx, CreateSummarySnapshotParams{
		UserID:           userID,
		BalanceCents:     s.Balance.Cents,
		CreditedCents:    s.TotalCredited.Cents,
		DebitedCents:     s.TotalDebited.Cents,
		TransactionCount: int64(s.TransactionCount),
		ReferenceDate:    s.ReferenceDate.String(),
		ComputedAt:       at.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("save summary snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for userID, or store.ErrNotFound.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, userID string) (SummarySnapshot, error) {
	s, err := r.queries.LatestSummarySnapshot(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return SummarySnapshot{}, store.ErrNotFound
	}
	if err != nil {
		return SummarySnapshot{}, fmt.Errorf("latest summary snapshot: %w", err)
	}
	return s, nil
}

func toCore(row Transaction) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", row.ID, err)
	}
	kind, err := core.ParseKind(row.Kind)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		UserID:      row.UserID,
		Date:        date,
		Description: row.Description,
		Category:    row.Category,
		Amount:      core.Money{Cents: row.AmountCents},
		Kind:        kind,
	}, nil
}
