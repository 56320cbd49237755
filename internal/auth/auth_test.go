package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, method jwt.SigningMethod, key any, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-123",
		"email": "a@example.com",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")

	tests := []struct {
		name    string
		token   func() string
		wantID  string
		wantErr error
	}{
		{
			name:   "valid token",
			token:  func() string { return sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()) },
			wantID: "user-123",
		},
		{
			name:    "empty token",
			token:   func() string { return "" },
			wantErr: ErrMissingToken,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   func() string { return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims()) },
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong audience",
			token: func() string {
				c := validClaims()
				c["aud"] = "anon"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func() string {
				c := validClaims()
				c["exp"] = time.Now().Add(-time.Minute).Unix()
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func() string {
				c := validClaims()
				delete(c, "sub")
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "unexpected algorithm",
			token:   func() string { return sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()) },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := v.Verify(tt.token())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if u.ID != tt.wantID || u.Email != "a@example.com" {
				t.Errorf("Verify() = %+v", u)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"Bearer abc":    "abc",
		"bearer  abc  ": "abc",
		"Basic abc":     "",
		"Bearer":        "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := BearerToken(r); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
	}
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := FromContext(r.Context())
		if !ok {
			t.Error("user missing from context")
		}
		_, _ = w.Write([]byte(u.ID))
	})

	tests := []struct {
		name      string
		anonymous string
		header    string
		wantCode  int
		wantBody  string
	}{
		{"valid token", "", "Bearer " + token, http.StatusOK, "user-123"},
		{"missing token rejected", "", "", http.StatusUnauthorized, ""},
		{"missing token anonymous", "mock-user-id", "", http.StatusOK, "mock-user-id"},
		{"invalid token even when anonymous", "mock-user-id", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Middleware(v, tt.anonymous, onError)(echo)
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
