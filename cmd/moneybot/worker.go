package main

import (
	"errors"

	"github.com/spf13/cobra"

	"moneybot/internal/amqp"
	"moneybot/internal/cli"
	"moneybot/internal/config"
	"moneybot/internal/log"
	"moneybot/internal/storage"
	"moneybot/internal/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume transaction events and persist summary snapshots",
		Long: `The worker listens on the AMQP queue for transaction events and
records a summary snapshot for the affected user in the SQLite database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validated(); err != nil {
				return err
			}
			if a.cfg.DataBackend != "sqlite" {
				return errors.New("worker requires DATA_BACKEND=sqlite")
			}
			if !a.cfg.EventsEnabled() {
				return errors.New("worker requires AMQP_URL")
			}

			logger := a.logger.WithComponent(log.ComponentWorker)
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath, logger)
			if err != nil {
				logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", a.cfg.SQLiteDBPath)
				return err
			}
			defer repo.Close()

			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, logger)
			if err != nil {
				logger.Error("Failed to initialize AMQP client", log.FieldError, err)
				return err
			}
			defer client.Close()

			w := worker.NewSnapshotWorker(repo, repo, logger)
			if a.cfg.SeedDemoData {
				w.StartupSnapshot(ctx, config.MockUserID)
			}

			logger.Info("Starting snapshot worker", "queue", a.cfg.AMQPQueue)
			if err := client.Consume(ctx, w.HandleEvent); err != nil {
				return err
			}
			logger.Info("Worker stopped gracefully")
			return nil
		},
	}
}
