package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth_EmptyKeyDisablesCheck(t *testing.T) {
	handler := APIKeyAuth("")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/databases", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyAuth_RejectsMissingKey(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/databases", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAPIKeyAuth_RejectsWrongKey(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
	req.Header.Set(APIKeyHeader, "guess")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAPIKeyAuth_AcceptsCorrectKey(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
	req.Header.Set(APIKeyHeader, "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyAuth_HealthExempt(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	for _, path := range []string{"/health", "/ping"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected %s to be exempt, got status %d", path, rec.Code)
		}
	}
}
