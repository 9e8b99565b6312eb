package viewstate

import (
	"strings"
	"testing"
)

func TestChipViewInitialQueryScenario(t *testing.T) {
	q := mustParse(t, "chip=CHIP01&date=2024-01-01&task=CheckT1&view=2q&qview=table")
	v := NewChipView(q)

	state := v.Snapshot()
	if state.SelectedChip != "CHIP01" {
		t.Fatalf("expected chip CHIP01, got %q", state.SelectedChip)
	}
	if state.SelectedDate != "2024-01-01" {
		t.Fatalf("expected date 2024-01-01, got %q", state.SelectedDate)
	}
	if state.SelectedTask != "CheckT1" {
		t.Fatalf("expected task CheckT1, got %q", state.SelectedTask)
	}
	if state.ViewMode != "2q" {
		t.Fatalf("expected view 2q, got %q", state.ViewMode)
	}
	if state.QubitViewMode != "table" {
		t.Fatalf("expected qview table, got %q", state.QubitViewMode)
	}

	v.SetSelectedDate("latest")
	if got := v.SelectedDate(); got != "latest" {
		t.Fatalf("expected latest after reset, got %q", got)
	}
	if enc := v.EncodedQuery(); strings.Contains(enc, "date") {
		t.Fatalf("expected date absent from URL, got %q", enc)
	}
}

func TestChipViewEmptyQueryDefaults(t *testing.T) {
	v := NewChipView(mustParse(t, ""))

	state := v.Snapshot()
	if state.SelectedChip != "" || state.SelectedDate != "latest" ||
		state.SelectedTask != "CheckRabi" || state.ViewMode != "1q" ||
		state.QubitViewMode != "dashboard" {
		t.Fatalf("unexpected defaults: %+v", state)
	}
	if enc := v.EncodedQuery(); enc != "" {
		t.Fatalf("expected empty query, got %q", enc)
	}
}

func TestChipViewRoundTrip(t *testing.T) {
	v := NewChipView(mustParse(t, ""))
	v.SetSelectedChip("64Q-3")
	v.SetSelectedTask("CheckRamsey")
	v.SetViewMode("2q")

	fresh := NewChipView(mustParse(t, v.EncodedQuery()))
	state := fresh.Snapshot()
	if state.SelectedChip != "64Q-3" || state.SelectedTask != "CheckRamsey" || state.ViewMode != "2q" {
		t.Fatalf("round trip lost state: %+v", state)
	}
	if state.SelectedDate != "latest" || state.QubitViewMode != "dashboard" {
		t.Fatalf("round trip disturbed defaults: %+v", state)
	}
}

func TestExecutionViewExplicitNullChip(t *testing.T) {
	v := NewExecutionView(mustParse(t, "chip=CHIP01"))

	got := v.SelectedChip()
	if got == nil || *got != "CHIP01" {
		t.Fatalf("expected CHIP01, got %v", got)
	}

	v.SetSelectedChip(nil)
	if got := v.SelectedChip(); got != nil {
		t.Fatalf("expected nil after clearing, got %q", *got)
	}

	empty := ""
	v.SetSelectedChip(&empty)
	if got := v.SelectedChip(); got != nil {
		t.Fatalf("expected empty string to clear the filter, got %q", *got)
	}
	if enc := v.EncodedQuery(); enc != "" {
		t.Fatalf("expected chip removed from URL, got %q", enc)
	}
}

func TestChipBindingsNormalizeAbsenceToEmpty(t *testing.T) {
	q := mustParse(t, "")
	if got := NewChipView(q).SelectedChip(); got != "" {
		t.Fatalf("chip view: expected empty string, got %q", got)
	}
	if got := NewAnalysisView(q).SelectedChip(); got != "" {
		t.Fatalf("analysis view: expected empty string, got %q", got)
	}
	if got := NewCorrelationView(q).SelectedChip(); got != "" {
		t.Fatalf("correlation view: expected empty string, got %q", got)
	}
	if got := NewCDFView(q).SelectedChip(); got != "" {
		t.Fatalf("cdf view: expected empty string, got %q", got)
	}
	if got := NewHistogramView(q).SelectedChip(); got != "" {
		t.Fatalf("histogram view: expected empty string, got %q", got)
	}
	if got := NewMetricsView(q).SelectedChip(); got != "" {
		t.Fatalf("metrics view: expected empty string, got %q", got)
	}
}

func TestCDFViewEmptyQueryDefaults(t *testing.T) {
	v := NewCDFView(mustParse(t, ""))

	state := v.Snapshot()
	if !stringSlicesEqual(state.SelectedParameters, []string{"t1", "t2_echo", "t2_star"}) {
		t.Fatalf("expected default parameter triple, got %v", state.SelectedParameters)
	}
	if state.ShowAsErrorRate {
		t.Fatalf("expected errorRate false by default")
	}
	if state.TimeRange != "7d" || state.SelectionMode != "latest" {
		t.Fatalf("unexpected range/mode defaults: %+v", state)
	}
}

func TestCDFViewEmptySelectionResetsToDefault(t *testing.T) {
	v := NewCDFView(mustParse(t, "params=t1%2Cgate_fidelity"))

	v.SetSelectedParameters([]string{})
	if got := v.SelectedParameters(); !stringSlicesEqual(got, []string{"t1", "t2_echo", "t2_star"}) {
		t.Fatalf("expected reset to default triple, got %v", got)
	}
	if enc := v.EncodedQuery(); enc != "" {
		t.Fatalf("expected params elided after reset, got %q", enc)
	}
}

func TestCDFViewParameterOrderRoundTrip(t *testing.T) {
	v := NewCDFView(mustParse(t, ""))
	want := []string{"t2_star", "t1"}
	v.SetSelectedParameters(want)

	fresh := NewCDFView(mustParse(t, v.EncodedQuery()))
	if got := fresh.SelectedParameters(); !stringSlicesEqual(got, want) {
		t.Fatalf("expected %v after round trip, got %v", want, got)
	}
}

func TestAnalysisViewEmptySelectionStaysEmpty(t *testing.T) {
	v := NewAnalysisView(mustParse(t, "params=t1%2Ct2_echo"))

	v.SetSelectedParameters([]string{})
	if got := v.SelectedParameters(); len(got) != 0 {
		t.Fatalf("expected empty selection to stay empty, got %v", got)
	}
	if enc := v.EncodedQuery(); enc != "" {
		t.Fatalf("expected params removed from URL, got %q", enc)
	}
}

func TestHistogramParameterChangeClearsThreshold(t *testing.T) {
	v := NewHistogramView(mustParse(t, "param=t1&threshold=5"))

	if got := v.Threshold(); got == nil || *got != 5.0 {
		t.Fatalf("expected threshold 5.0, got %v", got)
	}

	v.SetSelectedParameter("t2_echo")
	if got := v.Threshold(); got != nil {
		t.Fatalf("expected threshold cleared on parameter change, got %v", *got)
	}
	if enc := v.EncodedQuery(); strings.Contains(enc, "threshold") {
		t.Fatalf("expected threshold removed from URL, got %q", enc)
	}
	if got := v.SelectedParameter(); got != "t2_echo" {
		t.Fatalf("expected param t2_echo, got %q", got)
	}
}

func TestMetricsCustomRangeDaysCoupling(t *testing.T) {
	v := NewMetricsView(mustParse(t, ""))

	if got := v.CustomDays(); got != nil {
		t.Fatalf("expected nil days initially, got %d", *got)
	}

	v.SetTimeRange("custom")
	got := v.CustomDays()
	if got == nil || *got != 90 {
		t.Fatalf("expected days 90 after entering custom range, got %v", got)
	}

	v.SetTimeRange("7d")
	if got := v.CustomDays(); got != nil {
		t.Fatalf("expected days cleared after leaving custom range, got %d", *got)
	}
	if enc := v.EncodedQuery(); enc != "" {
		t.Fatalf("expected all defaults elided, got %q", enc)
	}
}

func TestMetricsCustomRangeKeepsExistingDays(t *testing.T) {
	v := NewMetricsView(mustParse(t, "days=30"))

	v.SetTimeRange("custom")
	got := v.CustomDays()
	if got == nil || *got != 30 {
		t.Fatalf("expected existing days 30 preserved, got %v", got)
	}
}

func TestProvenanceHasSearchParams(t *testing.T) {
	v := NewProvenanceView(mustParse(t, "parameter=t1"))
	if v.HasSearchParams() {
		t.Fatalf("expected incomplete search without qid")
	}

	v.SetSearchQID("Q05")
	if !v.HasSearchParams() {
		t.Fatalf("expected complete search with parameter and qid")
	}

	state := v.Snapshot()
	if !state.HasSearchParams || state.SelectedTab != "history" {
		t.Fatalf("unexpected provenance state: %+v", state)
	}
}

func TestQubitTimeseriesDefaultsAndRoundTrip(t *testing.T) {
	v := NewQubitTimeseriesView(mustParse(t, ""))
	state := v.Snapshot()
	if state.SelectedParameter != "t1" || state.SelectedTag != "daily" {
		t.Fatalf("unexpected defaults: %+v", state)
	}

	v.SetSelectedParameter("t2_star")
	v.SetSelectedTag("weekly")

	fresh := NewQubitTimeseriesView(mustParse(t, v.EncodedQuery()))
	state = fresh.Snapshot()
	if state.SelectedParameter != "t2_star" || state.SelectedTag != "weekly" {
		t.Fatalf("round trip lost state: %+v", state)
	}
}

func TestCorrelationDefaultsAndRoundTrip(t *testing.T) {
	v := NewCorrelationView(mustParse(t, ""))
	state := v.Snapshot()
	if state.XParameter != "t1" || state.YParameter != "t2_echo" {
		t.Fatalf("unexpected axis defaults: %+v", state)
	}

	v.SetXParameter("gate_fidelity")
	v.SetYParameter("readout_fidelity")
	v.SetTimeRange("30d")

	fresh := NewCorrelationView(mustParse(t, v.EncodedQuery()))
	state = fresh.Snapshot()
	if state.XParameter != "gate_fidelity" || state.YParameter != "readout_fidelity" || state.TimeRange != "30d" {
		t.Fatalf("round trip lost state: %+v", state)
	}
}

func TestReadinessResolvesOnceOnFirstSnapshot(t *testing.T) {
	v := NewChipView(mustParse(t, "chip=CHIP01"))

	if v.Initialized() {
		t.Fatalf("expected not initialized before first snapshot")
	}
	select {
	case <-v.Done():
		t.Fatalf("expected Done open before first snapshot")
	default:
	}

	v.Snapshot()
	if !v.Initialized() {
		t.Fatalf("expected initialized after first snapshot")
	}
	select {
	case <-v.Done():
	default:
		t.Fatalf("expected Done closed after first snapshot")
	}

	// Further snapshots must not disturb the one-shot signal.
	v.Snapshot()
	if !v.Initialized() {
		t.Fatalf("expected initialized to stay true")
	}
}

func TestGettersDoNotResolveReadiness(t *testing.T) {
	v := NewMetricsView(mustParse(t, "range=30d"))

	_ = v.TimeRange()
	v.SetSelectionMode("history")
	if v.Initialized() {
		t.Fatalf("expected readiness untouched by individual getters/setters")
	}
}
