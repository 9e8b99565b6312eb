package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleExposition = `# HELP agent_jobs_total Calibration jobs executed.
# TYPE agent_jobs_total counter
agent_jobs_total{status="ok"} 12
agent_jobs_total{status="failed"} 3
agent_queue_depth 5
go_goroutines 17
malformed_line
`

func TestParseSamples_SumsAcrossLabelSets(t *testing.T) {
	samples, count, err := parseSamples(strings.NewReader(sampleExposition))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 samples, got %d", count)
	}
	if samples["agent_jobs_total"] != 15 {
		t.Fatalf("expected label sets summed to 15, got %v", samples["agent_jobs_total"])
	}
	if samples["agent_queue_depth"] != 5 {
		t.Fatalf("expected queue depth 5, got %v", samples["agent_queue_depth"])
	}
}

func TestScrape_FiltersByPrefixAndRecordsHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleExposition))
	}))
	defer srv.Close()

	s := NewScraper([]string{srv.URL}, 2*time.Second, 10)
	items, err := s.Scrape(context.Background(), "agent_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(items))
	}
	if _, ok := items[0].Metrics["go_goroutines"]; ok {
		t.Fatalf("expected go_goroutines filtered out by prefix")
	}
	if items[0].Metrics["agent_jobs_total"] != 15 {
		t.Fatalf("expected agent_jobs_total 15, got %v", items[0].Metrics["agent_jobs_total"])
	}

	points := s.Series(srv.URL, "agent_queue_depth", time.Time{})
	if len(points) != 1 || points[0].Value != 5 {
		t.Fatalf("expected 1 history point of value 5, got %v", points)
	}

	known := s.KnownMetrics(srv.URL)
	if len(known) != 2 {
		t.Fatalf("expected 2 known metrics, got %v", known)
	}
}

func TestSeries_TrimsToMaxPoints(t *testing.T) {
	s := NewScraper([]string{"http://example.invalid/metrics"}, time.Second, 3)
	for i := 0; i < 5; i++ {
		s.record("http://example.invalid/metrics", time.Now().UTC(), map[string]float64{"m": float64(i)})
	}

	points := s.Series("http://example.invalid/metrics", "m", time.Time{})
	if len(points) != 3 {
		t.Fatalf("expected history capped at 3 points, got %d", len(points))
	}
	if points[0].Value != 2 || points[2].Value != 4 {
		t.Fatalf("expected oldest points dropped, got %v", points)
	}
}
