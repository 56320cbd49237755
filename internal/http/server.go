// Package http exposes the ledger, chat and report operations as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"moneybot/internal/analytics"
	"moneybot/internal/auth"
	"moneybot/internal/core"
	"moneybot/internal/log"
)

// TransactionService is the application layer the handlers call.
// *services.TransactionService satisfies it.
type TransactionService interface {
	Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)
	List(ctx context.Context, userID string) ([]core.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (analytics.Summary, error)
	Answer(ctx context.Context, userID, query string) (analytics.Reply, error)
	Report(ctx context.Context, userID string) (analytics.Report, error)
}

type Options struct {
	ProjectName string
	CORSOrigins []string

	// RateLimitPerMinute bounds mutating requests per client IP.
	RateLimitPerMinute int

	Verifier *auth.Verifier
	// AnonymousUserID, when set, serves unauthenticated ledger requests as that user.
	AnonymousUserID string
	// FallbackUserID serves unauthenticated chat and report requests.
	FallbackUserID string

	Logger *log.Logger
	Now    func() time.Time
}

type Server struct {
	http.Server
	svc         TransactionService
	opts        Options
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc TransactionService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Verifier == nil {
		opts.Verifier = auth.NewVerifier("", "")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RateLimitPerMinute < 1 {
		opts.RateLimitPerMinute = 60
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	metrics := &securityMetrics{}
	s := &Server{
		svc:         svc,
		opts:        opts,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(opts.RateLimitPerMinute, time.Minute, metrics),
		metrics:     metrics,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string { return middleware.GetReqID(r.Context()) }))
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.rateLimit)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(auth.Middleware(s.opts.Verifier, s.opts.AnonymousUserID, s.authError))
			r.Post("/", s.handleCreateTransaction)
			r.Get("/", s.handleListTransactions)
			r.Get("/summary", s.handleSummary)
			r.Delete("/{transactionID}", s.handleDeleteTransaction)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.opts.Verifier, s.fallbackUser(), s.authError))
			r.Post("/chatbot/chat", s.handleChat)
			r.Post("/reports/generate", s.handleGenerateReport)
		})
	})

	return r
}

func (s *Server) fallbackUser() string {
	if s.opts.FallbackUserID != "" {
		return s.opts.FallbackUserID
	}
	return s.opts.AnonymousUserID
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
