package viewstate

// DefaultCustomDays is the day window applied when the metrics page enters
// the custom range with no window chosen yet.
const DefaultCustomDays = 90

// MetricsView is the chip metrics page: qubit or coupling metrics over a
// time range, with an explicit day window when the range is "custom".
type MetricsView struct {
	q     Query
	ready *Readiness

	chip   binding[string]
	rng    binding[string]
	mode   binding[string]
	typ    binding[string]
	metric binding[string]
	days   binding[*int]
}

// MetricsState is one full read of the metrics page state.
type MetricsState struct {
	SelectedChip   string `json:"chip"`
	TimeRange      string `json:"range"`
	SelectionMode  string `json:"mode"`
	MetricType     string `json:"type"`
	SelectedMetric string `json:"metric"`
	CustomDays     *int   `json:"days"`
}

func NewMetricsView(q Query) *MetricsView {
	return &MetricsView{
		q:      q,
		ready:  newReadiness(),
		chip:   stringBinding("chip", ""),
		rng:    stringBinding("range", "7d"),
		mode:   stringBinding("mode", "latest"),
		typ:    stringBinding("type", "qubit"),
		metric: stringBinding("metric", "t1"),
		days:   intBinding("days"),
	}
}

func (v *MetricsView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *MetricsView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *MetricsView) TimeRange() string { return v.rng.read(v.q) }

// SetTimeRange keeps the day window consistent with the range: leaving
// "custom" clears it, entering "custom" without a window applies the
// default, both within this single call.
func (v *MetricsView) SetTimeRange(r string) {
	v.rng.write(v.q, r)
	if r != "custom" {
		v.days.write(v.q, nil)
		return
	}
	if v.days.read(v.q) == nil {
		d := DefaultCustomDays
		v.days.write(v.q, &d)
	}
}

func (v *MetricsView) SelectionMode() string        { return v.mode.read(v.q) }
func (v *MetricsView) SetSelectionMode(mode string) { v.mode.write(v.q, mode) }

func (v *MetricsView) MetricType() string       { return v.typ.read(v.q) }
func (v *MetricsView) SetMetricType(typ string) { v.typ.write(v.q, typ) }

func (v *MetricsView) SelectedMetric() string     { return v.metric.read(v.q) }
func (v *MetricsView) SetSelectedMetric(m string) { v.metric.write(v.q, m) }

func (v *MetricsView) CustomDays() *int        { return v.days.read(v.q) }
func (v *MetricsView) SetCustomDays(days *int) { v.days.write(v.q, days) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *MetricsView) Snapshot() MetricsState {
	defer v.ready.resolve()
	return MetricsState{
		SelectedChip:   v.SelectedChip(),
		TimeRange:      v.TimeRange(),
		SelectionMode:  v.SelectionMode(),
		MetricType:     v.MetricType(),
		SelectedMetric: v.SelectedMetric(),
		CustomDays:     v.CustomDays(),
	}
}

func (v *MetricsView) Initialized() bool     { return v.ready.Initialized() }
func (v *MetricsView) Done() <-chan struct{} { return v.ready.Done() }
func (v *MetricsView) EncodedQuery() string  { return v.q.Encode() }
