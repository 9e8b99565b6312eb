package http

import (
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"qdash/internal/catalog"
	mysqlstore "qdash/internal/connectors/mysql"
	"qdash/internal/viewstate"
)

func chipsHandler(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if store == nil {
			writeDBDisabled(w)
			return
		}

		limit := parseLimit(r, defaultLimit)
		start := time.Now()
		items, err := store.ListChips(r.Context(), limit)
		recordDBQuery("calibdb", "ListChips", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{
				"error": "failed to fetch chips",
			})
			return
		}

		type chipRow struct {
			mysqlstore.Chip
			LastCalibratedAgo string `json:"last_calibrated_ago,omitempty"`
		}
		rows := make([]chipRow, 0, len(items))
		for _, item := range items {
			row := chipRow{Chip: item}
			if item.LastCalibratedAt != nil {
				row.LastCalibratedAgo = humanize.Time(*item.LastCalibratedAt)
			}
			rows = append(rows, row)
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"limit": limit,
				"count": len(rows),
			},
			"data": rows,
		})
	}
}

func runningExecutionsHandler(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if store == nil {
			writeDBDisabled(w)
			return
		}

		limit := parseLimit(r, defaultLimit)
		start := time.Now()
		items, err := store.ListRunningExecutions(r.Context(), limit)
		recordDBQuery("calibdb", "ListRunningExecutions", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{
				"error": "failed to fetch running executions",
			})
			return
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"limit": limit,
				"count": len(items),
			},
			"data": withElapsedHuman(items),
		})
	}
}

func completedExecutionsHandler(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if store == nil {
			writeDBDisabled(w)
			return
		}

		view := viewstate.NewExecutionView(viewstate.FromRequest(r))
		state := view.Snapshot()

		limit := parseLimit(r, defaultLimit)
		offset := parseOffset(r)

		start := time.Now()
		items, err := store.ListCompletedExecutions(r.Context(), limit, offset, state.SelectedChip)
		recordDBQuery("calibdb", "ListCompletedExecutions", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{
				"error": "failed to fetch completed executions",
			})
			return
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"limit":         limit,
				"offset":        offset,
				"count":         len(items),
				"view":          state,
				"canonical_url": canonicalURL("/execution", view.EncodedQuery()),
			},
			"data": withElapsedHuman(items),
		})
	}
}

func executionDetailRouter(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if store == nil {
			writeDBDisabled(w)
			return
		}

		trimmed := strings.TrimPrefix(r.URL.Path, "/api/v1/executions/")
		parts := strings.Split(strings.Trim(trimmed, "/"), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] != "detail" {
			writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "not found"})
			return
		}

		executionID := parts[0]
		limit := parseLimit(r, defaultLimit)

		start := time.Now()
		item, tasks, err := store.GetExecutionDetail(r.Context(), executionID, limit)
		recordDBQuery("calibdb", "GetExecutionDetail", time.Since(start).Seconds(), err)
		if err != nil {
			if strings.Contains(err.Error(), "no rows in result set") {
				writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "execution not found: " + executionID})
				return
			}
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch execution detail"})
			return
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"execution_id": executionID,
				"task_count":   len(tasks),
			},
			"data": map[string]any{
				"execution": item,
				"tasks":     tasks,
			},
		})
	}
}

func parametersHandler(cat *catalog.Catalog) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		params := cat.Parameters()
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{"count": len(params)},
			"data": params,
		})
	}
}

func withElapsedHuman(items []mysqlstore.Execution) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row := map[string]any{
			"execution_id":    item.ExecutionID,
			"chip_id":         item.ChipID,
			"name":            item.Name,
			"status":          item.Status,
			"tag":             item.Tag,
			"started_at":      item.StartedAt,
			"ended_at":        item.EndedAt,
			"elapsed_seconds": item.ElapsedSeconds,
			"task_count":      item.TaskCount,
			"failed_tasks":    item.FailedTasks,
		}
		if item.StartedAt != nil {
			row["started_ago"] = humanize.Time(*item.StartedAt)
		}
		out = append(out, row)
	}
	return out
}

func writeDBDisabled(w nethttp.ResponseWriter) {
	writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
		"error": "database integration disabled (set QDASH_DB_ENABLED=true)",
	})
}

func canonicalURL(path, encodedQuery string) string {
	if encodedQuery == "" {
		return path
	}
	return path + "?" + encodedQuery
}

func parseLimit(r *nethttp.Request, defaultLimit int) int {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	return limit
}

func parseOffset(r *nethttp.Request) int {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return offset
}
