// Package cli provides the initialization steps shared by the moneybot
// subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"moneybot/internal/config"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/report"
	"moneybot/internal/store"
)

// LoadEnvFile loads .env for local development. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and installs it as the slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    strings.ToLower(cfg.LogFormat),
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// LoadLedger reads a CSV ledger for userID from path. An empty path yields the
// demo ledger.
func LoadLedger(path, userID string) ([]core.Transaction, error) {
	if path == "" {
		txs := store.DemoTransactions()
		for i := range txs {
			txs[i].UserID = userID
		}
		return txs, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	txs, err := report.ReadCSV(f, userID)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return txs, nil
}
