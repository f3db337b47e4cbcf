package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/lines/42", want: "/api/v1/lines/:id"},
		{in: "/api/v1/lines/42/metadata", want: "/api/v1/lines/:id/metadata"},
		{in: "/api/v1/lines", want: "/api/v1/lines"},
		{in: "/api/v1/lines/", want: "/api/v1/lines/"},
		{in: "/api/v1/balance", want: "/api/v1/balance"},
		{in: "/health", want: "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lines/7", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body to pass through, got %q", rr.Body.String())
	}
}
