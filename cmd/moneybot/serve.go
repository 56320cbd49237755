package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"moneybot/internal/auth"
	"moneybot/internal/backend"
	"moneybot/internal/cache"
	"moneybot/internal/cli"
	"moneybot/internal/config"
	apphttp "moneybot/internal/http"
	"moneybot/internal/log"
)

const (
	shutdownTimeout    = 30 * time.Second
	cacheSweepInterval = time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			if err := a.validated(); err != nil {
				return err
			}
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override PORT")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	logger := a.logger

	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", bcfg.Type)
		return err
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	manager := cache.NewManager(logger)
	manager.Register(result.Summaries)

	opts := apphttp.Options{
		ProjectName:        a.cfg.ProjectName,
		CORSOrigins:        a.cfg.CORSOrigins,
		RateLimitPerMinute: a.cfg.RateLimitPerMinute,
		Verifier:           auth.NewVerifier(a.cfg.JWTSecret, a.cfg.JWTAudience),
		FallbackUserID:     config.MockUserID,
		Logger:             logger,
	}
	if a.cfg.AllowAnonymous {
		opts.AnonymousUserID = config.MockUserID
	}
	srv := apphttp.NewServer(":"+a.cfg.Port, result.Service, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return manager.Run(gctx, cacheSweepInterval)
	})
	g.Go(func() error {
		logger.Info("Starting MoneyBot server", "port", a.cfg.Port, "backend", bcfg.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
