package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mysqlstore "qdash/internal/connectors/mysql"
)

func TestProvenanceHandler_StateOnlyWithoutSearchParams(t *testing.T) {
	h := provenanceHandler(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/provenance?tab=search", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	meta, ok := payload["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta object in response")
	}
	if meta["has_search_params"] != false {
		t.Fatalf("expected has_search_params=false, got %v", meta["has_search_params"])
	}
	if meta["canonical_url"] != "/provenance?tab=search" {
		t.Fatalf("unexpected canonical_url %v", meta["canonical_url"])
	}
	if payload["data"] != nil {
		t.Fatalf("expected nil data without search params, got %v", payload["data"])
	}
}

func TestProvenanceHandler_DBDisabledWithSearchParams(t *testing.T) {
	h := provenanceHandler(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/provenance?parameter=t1&qid=Q05", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestChipViewHandler_DBDisabled(t *testing.T) {
	h := chipViewHandler(50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chip/view?chip=CHIP01&task=CheckRabi&date=latest", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestSinceForRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := sinceForRange("24h", nil, now); !got.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected 24h bound: %v", got)
	}
	if got := sinceForRange("30d", nil, now); !got.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected 30d bound: %v", got)
	}
	if got := sinceForRange("all", nil, now); !got.IsZero() {
		t.Fatalf("expected zero time for all, got %v", got)
	}
	if got := sinceForRange("bogus", nil, now); !got.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("expected 7d fallback for unknown range, got %v", got)
	}

	days := 14
	if got := sinceForRange("custom", &days, now); !got.Equal(now.AddDate(0, 0, -14)) {
		t.Fatalf("unexpected custom bound: %v", got)
	}
	if got := sinceForRange("custom", nil, now); !got.Equal(now.AddDate(0, 0, -90)) {
		t.Fatalf("expected 90 day fallback for custom without days, got %v", got)
	}
}

func TestCDFSeries(t *testing.T) {
	if got := cdfSeries(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}

	got := cdfSeries([]float64{30, 10, 20, 40})
	if len(got) != 4 {
		t.Fatalf("expected 4 points, got %d", len(got))
	}
	if got[0].Value != 10 || got[3].Value != 40 {
		t.Fatalf("expected sorted values, got %v", got)
	}
	if math.Abs(got[1].Fraction-0.5) > 1e-9 {
		t.Fatalf("expected fraction 0.5 at second point, got %v", got[1].Fraction)
	}
	if got[3].Fraction != 1 {
		t.Fatalf("expected fraction 1 at last point, got %v", got[3].Fraction)
	}
}

func TestHistogramBins(t *testing.T) {
	if got := histogramBins(nil, 10); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}

	single := histogramBins([]float64{5, 5, 5}, 10)
	if len(single) != 1 || single[0].Count != 3 {
		t.Fatalf("expected a single bin for equal values, got %v", single)
	}

	bins := histogramBins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	if len(bins) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 11 {
		t.Fatalf("expected all values counted, got %d", total)
	}
	// The max value lands in the last bin, not one past the end.
	if bins[4].Count == 0 {
		t.Fatalf("expected last bin to include the max value")
	}
}

func TestCorrelationPairs(t *testing.T) {
	points := []mysqlstore.ParameterPoint{
		{QID: "Q00", Parameter: "t1", Value: 10},
		{QID: "Q00", Parameter: "t2_echo", Value: 20},
		{QID: "Q01", Parameter: "t1", Value: 11},
		{QID: "Q02", Parameter: "t2_echo", Value: 22},
	}

	pairs := correlationPairs(points, "t1", "t2_echo")
	if len(pairs) != 1 {
		t.Fatalf("expected 1 complete pair, got %d", len(pairs))
	}
	if pairs[0].QID != "Q00" || pairs[0].X != 10 || pairs[0].Y != 20 {
		t.Fatalf("unexpected pair %+v", pairs[0])
	}
}
