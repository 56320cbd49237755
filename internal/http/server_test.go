package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"moneybot/internal/analytics"
	"moneybot/internal/auth"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/services"
	"moneybot/internal/store"
	"moneybot/internal/store/memory"
)

const testSecret = "test-secret"

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return log.New(cfg)
}

func newTestServer(t *testing.T, mutate func(*Options)) *Server {
	t.Helper()
	logger := quietLogger()
	svc := services.NewTransactionService(memory.NewSeeded(), logger,
		services.WithClock(func() core.Date { return core.NewDate(2023, 12, 10) }))
	opts := Options{
		ProjectName:        "MoneyBot API",
		RateLimitPerMinute: 100,
		Verifier:           auth.NewVerifier(testSecret, "authenticated"),
		FallbackUserID:     store.DemoUserID,
		Logger:             logger,
		Now:                func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv := NewServer(":0", svc, opts)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func do(srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(srv, http.MethodGet, "/", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("root status=%d", rr.Code)
	}
	if got := decodeBody[map[string]string](t, rr)["message"]; got != "Welcome to MoneyBot API" {
		t.Fatalf("message=%q", got)
	}

	rr = do(srv, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK || decodeBody[map[string]string](t, rr)["status"] != "healthy" {
		t.Fatalf("health status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}
}

func TestUnknownRouteUsesDetailBody(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(srv, http.MethodGet, "/nope", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if decodeBody[errorBody](t, rr).Detail != "Not Found" {
		t.Fatalf("body=%s", rr.Body.String())
	}
}

func TestTransactionsRequireToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(srv, http.MethodGet, "/api/v1/transactions/", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status=%d", rr.Code)
	}
	if decodeBody[errorBody](t, rr).Detail != "Not authenticated" {
		t.Fatalf("body=%s", rr.Body.String())
	}

	rr = do(srv, http.MethodGet, "/api/v1/transactions/", "", "garbage")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d", rr.Code)
	}
	if decodeBody[errorBody](t, rr).Detail != "Invalid token or expired" {
		t.Fatalf("body=%s", rr.Body.String())
	}
	if srv.metrics.authFailures != 2 {
		t.Fatalf("authFailures=%d, want 2", srv.metrics.authFailures)
	}
}

func TestAnonymousUserServesLedger(t *testing.T) {
	srv := newTestServer(t, func(o *Options) { o.AnonymousUserID = store.DemoUserID })

	rr := do(srv, http.MethodGet, "/api/v1/transactions/", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	txs := decodeBody[[]transactionResponse](t, rr)
	if len(txs) != 4 {
		t.Fatalf("got %d transactions, want 4", len(txs))
	}
	if txs[0].Description != "Apple Store" || txs[0].Amount != "999.00" || txs[0].Type != core.Debit {
		t.Fatalf("first transaction=%+v", txs[0])
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signToken(t, "user-1")

	rr := do(srv, http.MethodPost, "/api/v1/transactions/",
		`{"date":"2023-12-04","description":"Groceries","category":"Food","amount":250.75,"type":"debit"}`, token)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decodeBody[transactionResponse](t, rr)
	if created.ID == "" || created.UserID != "user-1" || created.Amount != "250.75" {
		t.Fatalf("created=%+v", created)
	}
	if created.Date.String() != "2023-12-04" {
		t.Fatalf("date=%s", created.Date)
	}

	rr = do(srv, http.MethodGet, "/api/v1/transactions/summary", "", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}
	sum := decodeBody[summaryResponse](t, rr)
	if sum.TotalBalance != "-250.75" || sum.TotalDebited != "250.75" || sum.TransactionCount != 1 {
		t.Fatalf("summary=%+v", sum)
	}

	rr = do(srv, http.MethodDelete, "/api/v1/transactions/"+created.ID, "", token)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}

	rr = do(srv, http.MethodDelete, "/api/v1/transactions/"+created.ID, "", token)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
	if decodeBody[errorBody](t, rr).Detail != "Transaction not found" {
		t.Fatalf("body=%s", rr.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signToken(t, "user-1")

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"date":`, http.StatusBadRequest},
		{"zero amount", `{"date":"2023-12-04","description":"x","category":"c","amount":0,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"date":"2023-12-04","description":"x","category":"c","amount":-5,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"bad kind", `{"date":"2023-12-04","description":"x","category":"c","amount":5,"type":"refund"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"04/12/2023","description":"x","category":"c","amount":5,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"empty description", `{"date":"2023-12-04","description":"  ","category":"c","amount":5,"type":"debit"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(srv, http.MethodPost, "/api/v1/transactions/", tc.body, token)
			if rr.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestChatFallsBackToDemoUser(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(srv, http.MethodPost, "/api/v1/chatbot/chat", `{"message":"What is my balance?"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[chatResponse](t, rr)
	if resp.Reply != "Your current balance is ₹2,785.50." {
		t.Fatalf("reply=%q", resp.Reply)
	}
	if resp.Intent != analytics.IntentBalance.String() {
		t.Fatalf("intent=%q", resp.Intent)
	}

	rr = do(srv, http.MethodPost, "/api/v1/chatbot/chat", `{"message":"   "}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("blank message status=%d", rr.Code)
	}
	if got := decodeBody[chatResponse](t, rr).Reply; got != analytics.HelpText {
		t.Fatalf("blank message reply=%q", got)
	}
}

func TestChatUsesTokenUser(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(srv, http.MethodPost, "/api/v1/chatbot/chat", `{"message":"recent transactions"}`, signToken(t, "fresh-user"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := decodeBody[chatResponse](t, rr).Reply; got != "I couldn't find any recent transactions." {
		t.Fatalf("reply=%q", got)
	}
}

func TestGenerateReport(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(srv, http.MethodPost, "/api/v1/reports/generate", `{"report_type":"PDF","date_range":"Last 1 month"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content-type=%q", ct)
	}
	wantDisp := "attachment; filename=moneybot_financial_report_20240102_030405.csv"
	if got := rr.Header().Get("Content-Disposition"); got != wantDisp {
		t.Fatalf("disposition=%q", got)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "Date,Description,Category,Amount,Type\n") {
		t.Fatalf("body=%q", body)
	}
	if !strings.Contains(body, "Current Balance,\"₹2,785.50\"") {
		t.Fatalf("missing balance metric in %q", body)
	}

	rr = do(srv, http.MethodPost, "/api/v1/reports/generate", `{"report_type":"XLS"}`, "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown format status=%d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/v1/reports/generate", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("empty body status=%d", rr.Code)
	}
}

func TestRateLimitAppliesToWrites(t *testing.T) {
	srv := newTestServer(t, func(o *Options) { o.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		rr := do(srv, http.MethodPost, "/api/v1/chatbot/chat", `{"message":"balance"}`, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr := do(srv, http.MethodPost, "/api/v1/chatbot/chat", `{"message":"balance"}`, "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After=%q", rr.Header().Get("Retry-After"))
	}

	// Reads are never limited.
	if rr := do(srv, http.MethodGet, "/health", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("health status=%d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/metrics", "", "")
	if !strings.Contains(rr.Body.String(), "moneybot_rate_limit_hits_total 1") {
		t.Fatalf("metrics=%s", rr.Body.String())
	}
}

type failingService struct{ TransactionService }

func (failingService) List(context.Context, string) ([]core.Transaction, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	logger := quietLogger()
	srv := NewServer(":0", failingService{}, Options{Logger: logger, AnonymousUserID: "u"})
	t.Cleanup(func() { srv.rateLimiter.stop() })

	rr := do(srv, http.MethodGet, "/api/v1/transactions/", "", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "disk on fire") {
		t.Fatalf("internal error leaked: %s", rr.Body.String())
	}
}
