// Package store defines the persistence ports for ledger transactions.
package store

import (
	"context"
	"errors"

	"moneybot/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters.
type (
	// TransactionWriter persists a new transaction and returns it with its ID assigned.
	TransactionWriter interface {
		Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	// TransactionLister returns a user's transactions in insertion order.
	TransactionLister interface {
		ListByUser(ctx context.Context, userID string) ([]core.Transaction, error)
	}

	// TransactionDeleter removes one of the user's transactions.
	// It returns ErrNotFound when the user owns no transaction with that ID.
	TransactionDeleter interface {
		Delete(ctx context.Context, userID, id string) error
	}

	Store interface {
		TransactionWriter
		TransactionLister
		TransactionDeleter
	}
)
