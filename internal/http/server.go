package http

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"qdash/internal/catalog"
	"qdash/internal/config"
	mysqlstore "qdash/internal/connectors/mysql"
	promstore "qdash/internal/connectors/prometheus"
	viewsstore "qdash/internal/connectors/savedviews"
)

// Server wraps an HTTP server and route handlers.
type Server struct {
	httpServer  *nethttp.Server
	store       *mysqlstore.Store
	views       *viewsstore.Store
	agents      *promstore.Scraper
	agentConfig struct {
		matchPrefix string
		interval    time.Duration
	}
	agentCancel context.CancelFunc
}

// NewServer creates a configured HTTP server with v1 endpoints.
func NewServer(cfg config.Config) (*Server, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var store *mysqlstore.Store
	if cfg.DBEnabled {
		createdStore, err := mysqlstore.NewStore(cfg)
		if err != nil {
			return nil, err
		}
		store = createdStore
	}
	var views *viewsstore.Store
	if cfg.SavedViewsSQLitePath != "" {
		createdStore, err := viewsstore.NewSQLiteStore(cfg.SavedViewsSQLitePath)
		if err != nil {
			return nil, err
		}
		views = createdStore
	}
	var agents *promstore.Scraper
	if cfg.AgentsEnabled {
		agents = promstore.NewScraper(cfg.AgentTargets, cfg.AgentScrapeTimeout, cfg.AgentHistoryMaxPoints)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/", dashboardHandler)
	mux.HandleFunc("/favicon.ico", faviconHandler)
	mux.Handle("/metrics", metricsHandler())
	mux.HandleFunc("/api/v1/metrics/app", appMetricsSummaryHandler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)

	mux.HandleFunc("/api/v1/chips", chipsHandler(cfg.DefaultLimit, store))
	mux.HandleFunc("/api/v1/executions/running", runningExecutionsHandler(cfg.DefaultLimit, store))
	mux.HandleFunc("/api/v1/executions/completed", completedExecutionsHandler(cfg.DefaultLimit, store))
	mux.HandleFunc("/api/v1/executions/", executionDetailRouter(cfg.DefaultLimit, store))

	mux.HandleFunc("/api/v1/chip/view", chipViewHandler(cfg.DefaultLimit, store))
	mux.HandleFunc("/api/v1/analysis/timeseries", analysisTimeseriesHandler(store))
	mux.HandleFunc("/api/v1/analysis/correlation", correlationHandler(store))
	mux.HandleFunc("/api/v1/analysis/cdf", cdfHandler(store))
	mux.HandleFunc("/api/v1/analysis/histogram", histogramHandler(store))
	mux.HandleFunc("/api/v1/timeseries/qubit", qubitTimeseriesHandler(cfg.DefaultChip, store))
	mux.HandleFunc("/api/v1/metrics/chip", chipMetricsHandler(store))
	mux.HandleFunc("/api/v1/provenance", provenanceHandler(cfg.DefaultLimit, store))

	mux.HandleFunc("/api/v1/parameters", parametersHandler(cat))
	mux.HandleFunc("/api/v1/views", savedViewsHandler(cfg.DefaultLimit, views))
	mux.HandleFunc("/api/v1/views/", savedViewDetailRouter(views))
	mux.HandleFunc("/d/", sharedViewRedirectHandler(views))

	mux.HandleFunc("/api/v1/status/services", servicesStatusHandler(store, views, agents))
	mux.HandleFunc("/api/v1/status/agents", agentSeriesHandler(agents))

	httpServer := &nethttp.Server{
		Addr:         cfg.ListenAddr,
		Handler:      loggingMiddleware(observabilityMiddleware(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	s := &Server{httpServer: httpServer, store: store, views: views, agents: agents}
	s.agentConfig.matchPrefix = cfg.AgentMatchPrefix
	s.agentConfig.interval = cfg.AgentScrapeInterval
	return s, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	if s.agents != nil && s.agents.Enabled() {
		ctx, cancel := context.WithCancel(context.Background())
		s.agentCancel = cancel
		go s.startAgentPoller(ctx)
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.agentCancel != nil {
		s.agentCancel()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.views != nil {
		_ = s.views.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) startAgentPoller(ctx context.Context) {
	interval := s.agentConfig.interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.scrapeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scrapeOnce(ctx)
		}
	}
}

func (s *Server) scrapeOnce(ctx context.Context) {
	start := time.Now()
	_, err := s.agents.Scrape(ctx, s.agentConfig.matchPrefix)
	status := "ok"
	if err != nil {
		status = "error"
		log.Printf("agent scrape failed: %v", err)
	}
	recordAgentScrape(status, time.Since(start).Seconds())
}

func healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func readyHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ready",
	})
}

func loggingMiddleware(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
