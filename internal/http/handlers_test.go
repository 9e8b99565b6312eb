package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mysqlstore "qdash/internal/connectors/mysql"
)

func TestChipsHandler_DBDisabled(t *testing.T) {
	h := chipsHandler(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chips?limit=20", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] == nil {
		t.Fatalf("expected error field in response")
	}
}

func TestExecutionDetailRouter_DBDisabled(t *testing.T) {
	h := executionDetailRouter(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/executions/abc-123/detail", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestExecutionDetailRouter_UnknownActionReturnsNotFound(t *testing.T) {
	h := executionDetailRouter(50, &mysqlstore.Store{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/executions/abc-123/unknown", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestExecutionDetailRouter_InvalidPathReturnsNotFound(t *testing.T) {
	h := executionDetailRouter(50, &mysqlstore.Store{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/executions/abc-123", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestParseLimit_ClampsAndDefaults(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=0", 50},
		{"limit=5000", 50},
		{"limit=abc", 50},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chips?"+tc.query, nil)
		if got := parseLimit(req, 50); got != tc.want {
			t.Fatalf("query %q: expected limit %d, got %d", tc.query, tc.want, got)
		}
	}
}

func TestCanonicalURL(t *testing.T) {
	if got := canonicalURL("/chip", ""); got != "/chip" {
		t.Fatalf("expected bare path for empty query, got %q", got)
	}
	if got := canonicalURL("/chip", "chip=CHIP01"); got != "/chip?chip=CHIP01" {
		t.Fatalf("unexpected canonical url %q", got)
	}
}

func TestNormalizeMetricPath(t *testing.T) {
	cases := map[string]string{
		"/":                                    "/",
		"/metrics":                             "/metrics",
		"/api/v1/executions/abc-123/detail":    "/api/v1/executions/{execution_id}/detail",
		"/api/v1/views/0a1b2c":                 "/api/v1/views/{token}",
		"/d/0a1b2c":                            "/d/{token}",
		"/api/v1/chips":                        "/api/v1/chips",
	}
	for path, want := range cases {
		if got := normalizeMetricPath(path); got != want {
			t.Fatalf("path %q: expected %q, got %q", path, want, got)
		}
	}
}
