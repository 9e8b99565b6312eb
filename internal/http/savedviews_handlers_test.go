package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	viewsstore "qdash/internal/connectors/savedviews"
)

func newTestViewsStore(t *testing.T) *viewsstore.Store {
	t.Helper()
	store, err := viewsstore.NewSQLiteStore(filepath.Join(t.TempDir(), "views.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSavedViewsHandler_Disabled(t *testing.T) {
	h := savedViewsHandler(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestSavedViewsHandler_CreateAndList(t *testing.T) {
	store := newTestViewsStore(t)
	h := savedViewsHandler(50, store)

	body := strings.NewReader(`{"name":"bad qubits","page":"histogram","query_string":"chip=CHIP01&threshold=0.5"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/views", body)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/views", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "bad qubits") {
		t.Fatalf("expected created view in listing, got %s", rr.Body.String())
	}
}

func TestSharedViewRedirectHandler(t *testing.T) {
	store := newTestViewsStore(t)
	saved, err := store.Save(context.Background(), "weekly t1", "analysis", "chip=CHIP01&tag=weekly")
	if err != nil {
		t.Fatalf("failed to save view: %v", err)
	}

	h := sharedViewRedirectHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/d/"+saved.Token, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/analysis?chip=CHIP01&tag=weekly" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
}

func TestSharedViewRedirectHandler_UnknownToken(t *testing.T) {
	store := newTestViewsStore(t)
	h := sharedViewRedirectHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/d/not-a-token", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
