package http

import (
	nethttp "net/http"
	"time"

	mysqlstore "qdash/internal/connectors/mysql"
	promstore "qdash/internal/connectors/prometheus"
	viewsstore "qdash/internal/connectors/savedviews"
)

func servicesStatusHandler(store *mysqlstore.Store, views *viewsstore.Store, agents *promstore.Scraper) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calibdb := map[string]any{"enabled": store != nil}
		if store != nil {
			start := time.Now()
			stats, err := store.ServiceStats(r.Context())
			recordDBQuery("calibdb", "ServiceStats", time.Since(start).Seconds(), err)
			if err != nil {
				calibdb["ok"] = false
				calibdb["error"] = err.Error()
			} else {
				calibdb["ok"] = true
				calibdb["stats"] = stats
			}
		}

		saved := map[string]any{"enabled": views != nil}
		if views != nil {
			start := time.Now()
			stats, err := views.Stats(r.Context())
			recordDBQuery("saved_views", "Stats", time.Since(start).Seconds(), err)
			if err != nil {
				saved["ok"] = false
				saved["error"] = err.Error()
			} else {
				saved["ok"] = true
				saved["stats"] = stats
				saved["path"] = views.Path()
			}
		}

		agentStatus := map[string]any{"enabled": agents.Enabled()}
		if agents.Enabled() {
			probes := agents.ProbeAgents(r.Context())
			for _, p := range probes {
				var err error
				if !p.OK {
					err = errString(p.Error)
				}
				recordExternalProbe(p.Target, "ProbeAgent", float64(p.PingMS)/1000.0, err)
			}
			agentStatus["targets"] = agents.Targets()
			agentStatus["probes"] = probes
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{"checked_at": time.Now().UTC()},
			"data": map[string]any{
				"calibdb":     calibdb,
				"saved_views": saved,
				"agents":      agentStatus,
			},
		})
	}
}

func agentSeriesHandler(agents *promstore.Scraper) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if !agents.Enabled() {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "agent monitoring disabled (set QDASH_AGENTS_ENABLED=true and QDASH_AGENT_TARGETS)",
			})
			return
		}

		q := r.URL.Query()
		target := q.Get("target")
		metric := q.Get("metric")
		if target == "" {
			writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "target is required"})
			return
		}

		if metric == "" {
			writeJSON(w, nethttp.StatusOK, map[string]any{
				"meta": map[string]any{"target": target},
				"data": map[string]any{"known_metrics": agents.KnownMetrics(target)},
			})
			return
		}

		since := time.Time{}
		if raw := q.Get("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "invalid since, expected RFC3339"})
				return
			}
			since = parsed
		}

		points := agents.Series(target, metric, since)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"target": target,
				"metric": metric,
				"count":  len(points),
			},
			"data": points,
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
