package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"moneybot/internal/analytics"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/store"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	repo, err := NewSQLiteRepository(dbPath, log.New(cfg))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, dbPath
}

func sampleTx(user, desc string, cents int64, kind core.Kind) core.Transaction {
	return core.Transaction{
		UserID:      user,
		Date:        core.NewDate(2024, 2, 29),
		Description: desc,
		Category:    "Food & Drink",
		Amount:      core.Money{Cents: cents},
		Kind:        kind,
	}
}

func TestSQLiteRepository_CreateListDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, sampleTx("u1", "Coffee", 450, core.Debit))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected ID")
	}
	if _, err := repo.Create(ctx, sampleTx("u2", "Other", 100, core.Credit)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := repo.Create(ctx, sampleTx("u1", "Salary", 100000, core.Credit))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0] != a {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], a)
	}

	if err := repo.Delete(ctx, "u2", a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-user delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "u1", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "u1", a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("repeat delete: got %v, want ErrNotFound", err)
	}

	got, _ = repo.ListByUser(ctx, "u1")
	if len(got) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(got))
	}
}

func TestSQLiteRepository_CreateRejectsInvalid(t *testing.T) {
	repo, _ := newTestRepo(t)
	bad := sampleTx("u1", "", 10, core.Debit)
	if _, err := repo.Create(context.Background(), bad); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestSQLiteRepository_SeedDemoIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.SeedDemo(ctx); err != nil {
			t.Fatalf("SeedDemo: %v", err)
		}
	}
	got, err := repo.ListByUser(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 demo rows, got %d", len(got))
	}

	summary, err := analytics.Summarize(got, core.NewDate(2023, 12, 10))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Balance.Cents != 278550 {
		t.Errorf("demo balance = %d, want 278550", summary.Balance.Cents)
	}
}

func TestSQLiteRepository_Snapshots(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.LatestSnapshot(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any snapshot, got %v", err)
	}

	s := analytics.Summary{
		ReferenceDate:    core.NewDate(2024, 3, 15),
		Balance:          core.Money{Cents: 500},
		TotalCredited:    core.Money{Cents: 1500},
		TotalDebited:     core.Money{Cents: 1000},
		TransactionCount: 3,
	}
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	if _, err := repo.SaveSnapshot(ctx, "u1", s, at); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	s.Balance = core.Money{Cents: 700}
	if _, err := repo.SaveSnapshot(ctx, "u1", s, at.Add(time.Minute)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	latest, err := repo.LatestSnapshot(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if latest.BalanceCents != 700 || latest.TransactionCount != 3 || latest.ReferenceDate != "2024-03-15" {
		t.Errorf("unexpected snapshot: %+v", latest)
	}
}

func TestMigrationVersion(t *testing.T) {
	_, dbPath := newTestRepo(t)
	version, dirty, err := MigrationVersion(dbPath)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("version = %d dirty = %v, want 2 false", version, dirty)
	}
	// Re-running is a no-op.
	if err := RunMigrations(dbPath); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
}
