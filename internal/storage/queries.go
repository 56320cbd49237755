package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Transaction struct {
	Seq         int64
	ID          string
	UserID      string
	Date        string
	Description string
	Category    string
	AmountCents int64
	Kind        string
}

type SummarySnapshot struct {
	ID               int64
	UserID           string
	BalanceCents     int64
	CreditedCents    int64
	DebitedCents     int64
	TransactionCount int64
	ReferenceDate    string
	ComputedAt       time.Time
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (id, user_id, date, description, category, amount_cents, kind)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING seq, id, user_id, date, description, category, amount_cents, kind
`

type CreateTransactionParams struct {
	ID          string
	UserID      string
	Date        string
	Description string
	Category    string
	AmountCents int64
	Kind        string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.ID,
		arg.UserID,
		arg.Date,
		arg.Description,
		arg.Category,
		arg.AmountCents,
		arg.Kind,
	)
	var i Transaction
	err := row.Scan(
		&i.Seq,
		&i.ID,
		&i.UserID,
		&i.Date,
		&i.Description,
		&i.Category,
		&i.AmountCents,
		&i.Kind,
	)
	return i, err
}

const listTransactionsByUser = `-- name: ListTransactionsByUser :many
SELECT seq, id, user_id, date, description, category, amount_cents, kind
FROM transactions
WHERE user_id = ?
ORDER BY seq
`

func (q *Queries) ListTransactionsByUser(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.UserID,
			&i.Date,
			&i.Description,
			&i.Category,
			&i.AmountCents,
			&i.Kind,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id, userID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTransactions = `-- name: CountTransactions :one
SELECT COUNT(*) FROM transactions
`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createSummarySnapshot = `-- name: CreateSummarySnapshot :one
INSERT INTO summary_snapshots (user_id, balance_cents, credited_cents, debited_cents, transaction_count, reference_date, computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateSummarySnapshotParams struct {
	UserID           string
	BalanceCents     int64
	CreditedCents    int64
	DebitedCents     int64
	TransactionCount int64
	ReferenceDate    string
	ComputedAt       time.Time
}

func (q *Queries) CreateSummarySnapshot(ctx context.Context, arg CreateSummarySnapshotParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSummarySnapshot,
		arg.UserID,
		arg.BalanceCents,
		arg.CreditedCents,
		arg.DebitedCents,
		arg.TransactionCount,
		arg.ReferenceDate,
		arg.ComputedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const latestSummarySnapshot = `-- name: LatestSummarySnapshot :one
SELECT id, user_id, balance_cents, credited_cents, debited_cents, transaction_count, reference_date, computed_at
FROM summary_snapshots
WHERE user_id = ?
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) LatestSummarySnapshot(ctx context.Context, userID string) (SummarySnapshot, error) {
	row := q.db.QueryRowContext(ctx, latestSummarySnapshot, userID)
	var i SummarySnapshot
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.BalanceCents,
		&i.CreditedCents,
		&i.DebitedCents,
		&i.TransactionCount,
		&i.ReferenceDate,
		&i.ComputedAt,
	)
	return i, err
}
