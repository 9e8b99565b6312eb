package http

import (
	"encoding/json"
	nethttp "net/http"
	"strings"

	"github.com/dustin/go-humanize"

	viewsstore "qdash/internal/connectors/savedviews"
)

func writeViewsDisabled(w nethttp.ResponseWriter) {
	writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
		"error": "saved views disabled (set QDASH_SAVED_VIEWS_SQLITE_PATH)",
	})
}

func savedViewsHandler(defaultLimit int, views *viewsstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if views == nil {
			writeViewsDisabled(w)
			return
		}

		switch r.Method {
		case nethttp.MethodGet:
			limit := parseLimit(r, defaultLimit)
			items, err := views.List(r.Context(), limit)
			if err != nil {
				writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to list saved views"})
				return
			}

			type viewRow struct {
				viewsstore.SavedView
				UpdatedAgo string `json:"updated_ago,omitempty"`
				ShareURL   string `json:"share_url"`
			}
			rows := make([]viewRow, 0, len(items))
			for _, item := range items {
				row := viewRow{SavedView: item, ShareURL: "/d/" + item.Token}
				if item.UpdatedAt != nil {
					row.UpdatedAgo = humanize.Time(*item.UpdatedAt)
				}
				rows = append(rows, row)
			}

			writeJSON(w, nethttp.StatusOK, map[string]any{
				"meta": map[string]any{"limit": limit, "count": len(rows)},
				"data": rows,
			})

		case nethttp.MethodPost:
			var req struct {
				Name        string `json:"name"`
				Page        string `json:"page"`
				QueryString string `json:"query_string"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
				return
			}

			item, err := views.Save(r.Context(), req.Name, req.Page, req.QueryString)
			if err != nil {
				writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}

			writeJSON(w, nethttp.StatusCreated, map[string]any{
				"meta": map[string]any{"share_url": "/d/" + item.Token},
				"data": item,
			})

		default:
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		}
	}
}

func savedViewDetailRouter(views *viewsstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if views == nil {
			writeViewsDisabled(w)
			return
		}

		token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/views/"), "/")
		if token == "" || strings.Contains(token, "/") {
			writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "not found"})
			return
		}

		switch r.Method {
		case nethttp.MethodGet:
			item, err := views.GetByToken(r.Context(), token)
			if err != nil {
				if strings.Contains(err.Error(), "no rows in result set") {
					writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "view not found: " + token})
					return
				}
				writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch view"})
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{
				"meta": map[string]any{"share_url": "/d/" + item.Token},
				"data": item,
			})

		case nethttp.MethodDelete:
			n, err := views.DeleteByToken(r.Context(), token)
			if err != nil {
				writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to delete view"})
				return
			}
			if n == 0 {
				writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "view not found: " + token})
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{
				"meta": map[string]any{"deleted": n},
			})

		default:
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		}
	}
}

// sharedViewRedirectHandler turns /d/{token} into a redirect onto the saved
// page with its saved query string, so share links stay short.
func sharedViewRedirectHandler(views *viewsstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if views == nil {
			writeViewsDisabled(w)
			return
		}

		token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/d/"), "/")
		if token == "" || strings.Contains(token, "/") {
			writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "not found"})
			return
		}

		item, err := views.GetByToken(r.Context(), token)
		if err != nil {
			if strings.Contains(err.Error(), "no rows in result set") {
				writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "view not found: " + token})
				return
			}
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch view"})
			return
		}

		target := "/" + item.Page
		if item.QueryString != "" {
			target += "?" + item.QueryString
		}
		nethttp.Redirect(w, r, target, nethttp.StatusFound)
	}
}
