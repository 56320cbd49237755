package http

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"moneybot/internal/auth"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to " + s.opts.ProjectName})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleMetrics exposes the security counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# TYPE moneybot_rate_limit_hits_total counter\nmoneybot_rate_limit_hits_total %d\n",
		atomic.LoadInt64(&s.metrics.rateLimitHits))
	fmt.Fprintf(w, "# TYPE moneybot_auth_failures_total counter\nmoneybot_auth_failures_total %d\n",
		atomic.LoadInt64(&s.metrics.authFailures))
	fmt.Fprintf(w, "# TYPE moneybot_rate_limit_clients gauge\nmoneybot_rate_limit_clients %d\n",
		s.rateLimiter.activeClients())
}

// userID returns the user the auth middleware attached to the request.
func userID(r *http.Request) string {
	u, _ := auth.FromContext(r.Context())
	return u.ID
}
