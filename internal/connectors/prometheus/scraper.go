// Package prometheus polls calibration-agent metric endpoints (Prometheus
// text exposition) and keeps a bounded in-memory history for the status
// page.
package prometheus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Point is a chart-ready value at a specific timestamp.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Snapshot is a one-shot scrape summary for one agent.
type Snapshot struct {
	Target      string             `json:"target"`
	ScrapedAt   time.Time          `json:"scraped_at"`
	SampleCount int                `json:"sample_count"`
	Metrics     map[string]float64 `json:"metrics"`
}

// AgentStatus is a single agent probe used by the service-status page.
type AgentStatus struct {
	Target        string  `json:"target"`
	OK            bool    `json:"ok"`
	Error         string  `json:"error,omitempty"`
	PingMS        int64   `json:"ping_ms"`
	SampleCount   int     `json:"sample_count"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	MemoryMB      float64 `json:"memory_mb"`
	Goroutines    int64   `json:"goroutines"`
}

type historyKey struct {
	target string
	metric string
}

// Scraper reads Prometheus text exposition from calibration agents.
type Scraper struct {
	client    *http.Client
	targets   []string
	maxPoints int

	mu      sync.RWMutex
	history map[historyKey][]Point
}

func NewScraper(targets []string, timeout time.Duration, maxPoints int) *Scraper {
	if maxPoints <= 0 {
		maxPoints = 720
	}
	clean := make([]string, 0, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		targets:   clean,
		maxPoints: maxPoints,
		history:   make(map[historyKey][]Point),
	}
}

func (s *Scraper) Enabled() bool {
	return s != nil && len(s.targets) > 0
}

func (s *Scraper) Targets() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.targets))
	copy(out, s.targets)
	return out
}

// Scrape pulls each agent, keeping only metrics under matchPrefix, and
// records them into history.
func (s *Scraper) Scrape(ctx context.Context, matchPrefix string) ([]Snapshot, error) {
	if !s.Enabled() {
		return nil, nil
	}

	now := time.Now().UTC()
	prefix := strings.TrimSpace(matchPrefix)
	items := make([]Snapshot, 0, len(s.targets))

	for _, target := range s.targets {
		samples, count, err := s.fetch(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", target, err)
		}

		matched := make(map[string]float64, len(samples))
		for name, v := range samples {
			if prefix == "" || strings.HasPrefix(name, prefix) {
				matched[name] = v
			}
		}

		s.record(target, now, matched)
		items = append(items, Snapshot{
			Target:      target,
			ScrapedAt:   now,
			SampleCount: count,
			Metrics:     matched,
		})
	}

	return items, nil
}

// Series returns in-memory history for one metric/agent since cutoff.
func (s *Scraper) Series(target, metric string, since time.Time) []Point {
	if s == nil {
		return nil
	}
	k := historyKey{target: target, metric: metric}

	s.mu.RLock()
	points := append([]Point(nil), s.history[k]...)
	s.mu.RUnlock()

	if since.IsZero() {
		return points
	}

	out := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.Timestamp.Before(since) {
			out = append(out, p)
		}
	}
	return out
}

// KnownMetrics returns sorted metric names seen for an agent.
func (s *Scraper) KnownMetrics(target string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	uniq := map[string]struct{}{}
	for k := range s.history {
		if k.target == target {
			uniq[k.metric] = struct{}{}
		}
	}
	out := make([]string, 0, len(uniq))
	for m := range uniq {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ProbeAgents checks all agents independently, returning per-agent status.
func (s *Scraper) ProbeAgents(ctx context.Context) []AgentStatus {
	if !s.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	out := make([]AgentStatus, 0, len(s.targets))
	for _, target := range s.targets {
		item := AgentStatus{Target: target}

		start := time.Now()
		samples, count, err := s.fetch(ctx, target)
		item.PingMS = time.Since(start).Milliseconds()
		if err != nil {
			item.Error = err.Error()
			out = append(out, item)
			continue
		}

		item.OK = true
		item.SampleCount = count
		if startSec, ok := samples["process_start_time_seconds"]; ok && startSec > 0 {
			item.UptimeSeconds = int64(now.Sub(time.Unix(int64(startSec), 0)).Seconds())
		}
		if rss, ok := samples["process_resident_memory_bytes"]; ok && rss > 0 {
			item.MemoryMB = rss / 1024.0 / 1024.0
		}
		if gs, ok := samples["go_goroutines"]; ok && gs >= 0 {
			item.Goroutines = int64(gs)
		}

		out = append(out, item)
	}

	return out
}

func (s *Scraper) fetch(ctx context.Context, target string) (map[string]float64, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return parseSamples(resp.Body)
}

func (s *Scraper) record(target string, ts time.Time, metrics map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for metric, v := range metrics {
		k := historyKey{target: target, metric: metric}
		pts := append(s.history[k], Point{Timestamp: ts, Value: v})
		if len(pts) > s.maxPoints {
			pts = pts[len(pts)-s.maxPoints:]
		}
		s.history[k] = pts
	}
}

// parseSamples reads text exposition, summing values per metric name across
// label sets. Labels themselves are not retained.
func parseSamples(r io.Reader) (map[string]float64, int, error) {
	sc := bufio.NewScanner(r)
	samples := map[string]float64{}
	count := 0

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		if i := strings.IndexByte(name, '{'); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}

		samples[name] += v
		count++
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return samples, count, nil
}
