package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"infinite-experiment/flightdeck/internal/auth"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/models/entities"
)

const testSecret = "middleware-secret"

// Mock key store
type mockKeys struct {
	keys map[string]*entities.ApiKey
	err  error
}

func (m *mockKeys) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.keys[key], nil
}

func claimsEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			t.Error("Expected claims in context")
			return
		}
		w.Header().Set("X-Account", claims.AccountID())
		w.Header().Set("X-Role", claims.Role().String())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	keys := &mockKeys{keys: map[string]*entities.ApiKey{
		"ops-key":      {Key: "ops-key", Status: true, AccountID: "ops-1", Role: constants.RoleOperator},
		"disabled-key": {Key: "disabled-key", Status: false, AccountID: "p-2", Role: constants.RolePassenger},
	}}
	handler := AuthMiddleware(testSecret, keys)(claimsEcho(t))

	token, err := auth.IssueToken(testSecret, "17", constants.RolePassenger, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	tests := []struct {
		name        string
		headers     map[string]string
		wantStatus  int
		wantAccount string
	}{
		{"bearer token", map[string]string{"Authorization": "Bearer " + token}, http.StatusNoContent, "17"},
		{"bad bearer token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, ""},
		{"api key", map[string]string{"X-API-Key": "ops-key"}, http.StatusNoContent, "ops-1"},
		{"unknown api key", map[string]string{"X-API-Key": "who"}, http.StatusUnauthorized, ""},
		{"inactive api key", map[string]string{"X-API-Key": "disabled-key"}, http.StatusUnauthorized, ""},
		{"no credentials", nil, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("X-Account"); got != tt.wantAccount {
				t.Errorf("Expected account %q, got %q", tt.wantAccount, got)
			}
		})
	}
}

func TestAuthMiddleware_KeyStoreDown(t *testing.T) {
	handler := AuthMiddleware(testSecret, &mockKeys{err: errors.New("connection refused")})(claimsEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "any")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestIsOperatorMiddleware(t *testing.T) {
	handler := IsOperatorMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[constants.Role]int{
		constants.RoleOperator:  http.StatusNoContent,
		constants.RolePassenger: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(auth.SetUserClaims(req.Context(), &auth.JWTClaims{Subject: "1", RoleValue: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Errorf("%s: expected %d, got %d", role, want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without claims, got %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2})
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(account string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		if account != "" {
			req = req.WithContext(auth.SetUserClaims(req.Context(), &auth.JWTClaims{Subject: account, RoleValue: constants.RolePassenger}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("1"); code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, code)
		}
	}
	if code := call("1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}
	// Separate bucket per account and for anonymous callers
	if code := call("2"); code != http.StatusOK {
		t.Errorf("Expected other account to pass, got %d", code)
	}
	if code := call(""); code != http.StatusOK {
		t.Errorf("Expected anonymous caller to pass, got %d", code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(reg))
	r.Get("/instances/{id}", func(w http.ResponseWriter, r *http.Request) {
		if auth.GetRequestID(r.Context()) == "" {
			t.Error("Expected request id in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/instances/42", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID response header")
	}
	got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/instances/{id}", http.MethodGet, "418"))
	if got != 1 {
		t.Errorf("Expected one request counted under the route pattern, got %v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/instances/1", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "given-id" {
		t.Errorf("Expected caller's request id echoed, got %q", rec.Header().Get("X-Request-ID"))
	}
}
