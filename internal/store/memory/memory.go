package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"moneybot/internal/core"
	"moneybot/internal/store"
)

// Store keeps transactions in process memory, in insertion order.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	newID func() string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{newID: uuid.NewString}
}

// NewSeeded returns a store preloaded with the demo ledger.
func NewSeeded() *Store {
	s := New()
	for _, tx := range store.DemoTransactions() {
		tx.ID = s.newID()
		s.items = append(s.items, tx)
	}
	return s
}

// Create validates the transaction, assigns a fresh ID and stores it.
func (s *Store) Create(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.newID()
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(tx core.Transaction) bool {
		return tx.ID == id && tx.UserID == userID
	})
	if i < 0 {
		return store.ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// Len returns the number of stored transactions across all users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
