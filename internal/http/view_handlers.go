package http

import (
	nethttp "net/http"
	"sort"
	"strings"
	"time"

	mysqlstore "qdash/internal/connectors/mysql"
	"qdash/internal/viewstate"
)

// Page-data handlers. Each one builds its view-state slice from the request
// query string, snapshots it, and echoes the default-elided canonical URL so
// the UI can keep the address bar minimal.

func chipViewHandler(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewChipView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/chip", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}
		if state.SelectedChip == "" {
			// No chip chosen yet; the UI picks the first available one
			// once the view is initialized.
			writeJSON(w, nethttp.StatusOK, map[string]any{"meta": meta, "data": nil})
			return
		}

		var day *time.Time
		if state.SelectedDate != "latest" {
			parsed, err := time.Parse("2006-01-02", state.SelectedDate)
			if err != nil {
				writeJSON(w, nethttp.StatusBadRequest, map[string]any{
					"error": "invalid date, expected YYYY-MM-DD or latest",
				})
				return
			}
			day = &parsed
		}

		start := time.Now()
		results, err := store.ListTaskResults(r.Context(), state.SelectedChip, state.SelectedTask, day, defaultLimit)
		recordDBQuery("calibdb", "ListTaskResults", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch task results"})
			return
		}

		meta["count"] = len(results)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": results,
		})
	}
}

func analysisTimeseriesHandler(store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewAnalysisView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/analysis", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		// Primary parameter plus any comparison parameters, one series each.
		params := append([]string{state.SelectedParameter}, state.SelectedParameters...)
		series := make(map[string][]mysqlstore.ParameterPoint, len(params))
		for _, param := range params {
			if _, dup := series[param]; dup {
				continue
			}
			start := time.Now()
			points, err := store.ParameterHistory(r.Context(), state.SelectedChip, param, state.SelectedTag, time.Time{}, 1000)
			recordDBQuery("calibdb", "ParameterHistory", time.Since(start).Seconds(), err)
			if err != nil {
				writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch parameter history"})
				return
			}
			series[param] = points
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": map[string]any{"series": series},
		})
	}
}

func correlationHandler(store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewCorrelationView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/analysis/correlation", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		since := sinceForRange(state.TimeRange, nil, time.Now().UTC())
		start := time.Now()
		points, err := store.LatestParameterValues(r.Context(), state.SelectedChip,
			[]string{state.XParameter, state.YParameter}, state.SelectionMode, since)
		recordDBQuery("calibdb", "LatestParameterValues", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch parameter values"})
			return
		}

		pairs := correlationPairs(points, state.XParameter, state.YParameter)
		meta["count"] = len(pairs)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": pairs,
		})
	}
}

func cdfHandler(store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewCDFView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/analysis/cdf", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		since := sinceForRange(state.TimeRange, nil, time.Now().UTC())
		start := time.Now()
		points, err := store.LatestParameterValues(r.Context(), state.SelectedChip,
			state.SelectedParameters, state.SelectionMode, since)
		recordDBQuery("calibdb", "LatestParameterValues", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch parameter values"})
			return
		}

		byParam := map[string][]float64{}
		for _, p := range points {
			byParam[p.Parameter] = append(byParam[p.Parameter], p.Value)
		}
		curves := make(map[string][]cdfPoint, len(byParam))
		for param, values := range byParam {
			curves[param] = cdfSeries(values)
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": map[string]any{"curves": curves},
		})
	}
}

func histogramHandler(store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewHistogramView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/analysis/histogram", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		since := sinceForRange(state.TimeRange, nil, time.Now().UTC())
		start := time.Now()
		points, err := store.LatestParameterValues(r.Context(), state.SelectedChip,
			[]string{state.SelectedParameter}, state.SelectionMode, since)
		recordDBQuery("calibdb", "LatestParameterValues", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch parameter values"})
			return
		}

		values := make([]float64, 0, len(points))
		for _, p := range points {
			values = append(values, p.Value)
		}
		bins := histogramBins(values, 20)

		data := map[string]any{"bins": bins, "count": len(values)}
		if state.Threshold != nil {
			below := 0
			for _, v := range values {
				if v < *state.Threshold {
					below++
				}
			}
			data["below_threshold"] = below
			data["above_threshold"] = len(values) - below
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": data,
		})
	}
}

func qubitTimeseriesHandler(defaultChip string, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewQubitTimeseriesView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/qubit", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		// chip and qid address the qubit; they are routing inputs, not view
		// state, so they ride outside the slice.
		chip := strings.TrimSpace(r.URL.Query().Get("chipId"))
		if chip == "" {
			chip = defaultChip
		}
		qid := strings.TrimSpace(r.URL.Query().Get("qubitId"))
		if chip == "" || qid == "" {
			writeJSON(w, nethttp.StatusBadRequest, map[string]any{
				"error": "chipId and qubitId are required",
			})
			return
		}

		start := time.Now()
		points, err := store.ParameterHistory(r.Context(), chip, state.SelectedParameter, state.SelectedTag, time.Time{}, 1000)
		recordDBQuery("calibdb", "ParameterHistory", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch parameter history"})
			return
		}

		series := make([]mysqlstore.ParameterPoint, 0, len(points))
		for _, p := range points {
			if p.QID == qid {
				series = append(series, p)
			}
		}

		meta["chip_id"] = chip
		meta["qubit_id"] = qid
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": series,
		})
	}
}

func chipMetricsHandler(store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewMetricsView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":          state,
			"canonical_url": canonicalURL("/chip/metrics", view.EncodedQuery()),
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		since := sinceForRange(state.TimeRange, state.CustomDays, time.Now().UTC())
		start := time.Now()
		points, err := store.LatestParameterValues(r.Context(), state.SelectedChip,
			[]string{state.SelectedMetric}, state.SelectionMode, since)
		recordDBQuery("calibdb", "LatestParameterValues", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch metric values"})
			return
		}

		meta["count"] = len(points)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": points,
		})
	}
}

func provenanceHandler(defaultLimit int, store *mysqlstore.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := viewstate.NewProvenanceView(viewstate.FromRequest(r))
		state := view.Snapshot()
		meta := map[string]any{
			"view":              state,
			"has_search_params": state.HasSearchParams,
			"canonical_url":     canonicalURL("/provenance", view.EncodedQuery()),
		}

		// An incomplete search form is a valid page state, not an error,
		// and needs no database.
		if !state.HasSearchParams {
			writeJSON(w, nethttp.StatusOK, map[string]any{"meta": meta, "data": nil})
			return
		}

		if store == nil {
			writeDBDisabled(w)
			return
		}

		limit := parseLimit(r, defaultLimit)
		start := time.Now()
		points, err := store.ParameterProvenance(r.Context(), state.SearchParameter, state.SearchQID, limit)
		recordDBQuery("calibdb", "ParameterProvenance", time.Since(start).Seconds(), err)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to fetch provenance"})
			return
		}

		meta["count"] = len(points)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": points,
		})
	}
}

// sinceForRange converts a page time range into a lower bound. Unknown
// range strings degrade to the 7d default; "all" means no bound.
func sinceForRange(timeRange string, customDays *int, now time.Time) time.Time {
	switch timeRange {
	case "24h":
		return now.Add(-24 * time.Hour)
	case "7d":
		return now.AddDate(0, 0, -7)
	case "30d":
		return now.AddDate(0, 0, -30)
	case "90d":
		return now.AddDate(0, 0, -90)
	case "custom":
		days := viewstate.DefaultCustomDays
		if customDays != nil && *customDays > 0 {
			days = *customDays
		}
		return now.AddDate(0, 0, -days)
	case "all":
		return time.Time{}
	default:
		return now.AddDate(0, 0, -7)
	}
}

type cdfPoint struct {
	Value    float64 `json:"value"`
	Fraction float64 `json:"fraction"`
}

// cdfSeries returns the empirical CDF of values: sorted ascending, each
// point carrying the fraction of values at or below it.
func cdfSeries(values []float64) []cdfPoint {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]cdfPoint, len(sorted))
	for i, v := range sorted {
		out[i] = cdfPoint{Value: v, Fraction: float64(i+1) / float64(len(sorted))}
	}
	return out
}

type histogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// histogramBins buckets values into binCount equal-width bins spanning
// [min, max]. All-equal inputs collapse into a single bin.
func histogramBins(values []float64, binCount int) []histogramBin {
	if len(values) == 0 {
		return nil
	}
	if binCount <= 0 {
		binCount = 20
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []histogramBin{{Lo: lo, Hi: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(binCount)
	out := make([]histogramBin, binCount)
	for i := range out {
		out[i] = histogramBin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		out[idx].Count++
	}
	return out
}

type correlationPoint struct {
	QID string  `json:"qid"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// correlationPairs joins x and y parameter values per qubit, dropping
// qubits that are missing either side. With history mode feeding multiple
// values per qubit, the last (newest) value wins.
func correlationPairs(points []mysqlstore.ParameterPoint, xParam, yParam string) []correlationPoint {
	xs := map[string]float64{}
	ys := map[string]float64{}
	for _, p := range points {
		switch p.Parameter {
		case xParam:
			xs[p.QID] = p.Value
		case yParam:
			ys[p.QID] = p.Value
		}
	}

	qids := make([]string, 0, len(xs))
	for qid := range xs {
		if _, ok := ys[qid]; ok {
			qids = append(qids, qid)
		}
	}
	sort.Strings(qids)

	out := make([]correlationPoint, 0, len(qids))
	for _, qid := range qids {
		out = append(out, correlationPoint{QID: qid, X: xs[qid], Y: ys[qid]})
	}
	return out
}
