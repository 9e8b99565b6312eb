package viewstate

// HistogramView is the per-parameter histogram page. The threshold marker is
// meaningful only for the parameter it was set for, so changing the
// parameter always clears it.
type HistogramView struct {
	q     Query
	ready *Readiness

	chip      binding[string]
	rng       binding[string]
	mode      binding[string]
	param     binding[string]
	errorRate binding[bool]
	threshold binding[*float64]
}

// HistogramState is one full read of the histogram page state.
type HistogramState struct {
	SelectedChip      string   `json:"chip"`
	TimeRange         string   `json:"range"`
	SelectionMode     string   `json:"mode"`
	SelectedParameter string   `json:"param"`
	ShowAsErrorRate   bool     `json:"errorRate"`
	Threshold         *float64 `json:"threshold"`
}

func NewHistogramView(q Query) *HistogramView {
	return &HistogramView{
		q:         q,
		ready:     newReadiness(),
		chip:      stringBinding("chip", ""),
		rng:       stringBinding("range", "7d"),
		mode:      stringBinding("mode", "latest"),
		param:     stringBinding("param", "t1"),
		errorRate: boolBinding("errorRate", false),
		threshold: floatBinding("threshold"),
	}
}

func (v *HistogramView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *HistogramView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *HistogramView) TimeRange() string     { return v.rng.read(v.q) }
func (v *HistogramView) SetTimeRange(r string) { v.rng.write(v.q, r) }

func (v *HistogramView) SelectionMode() string        { return v.mode.read(v.q) }
func (v *HistogramView) SetSelectionMode(mode string) { v.mode.write(v.q, mode) }

func (v *HistogramView) SelectedParameter() string { return v.param.read(v.q) }

// SetSelectedParameter switches the histogram to another parameter and
// clears the threshold in the same call, so the pair is never observed
// half-applied.
func (v *HistogramView) SetSelectedParameter(p string) {
	v.param.write(v.q, p)
	v.threshold.write(v.q, nil)
}

func (v *HistogramView) ShowAsErrorRate() bool      { return v.errorRate.read(v.q) }
func (v *HistogramView) SetShowAsErrorRate(on bool) { v.errorRate.write(v.q, on) }

func (v *HistogramView) Threshold() *float64       { return v.threshold.read(v.q) }
func (v *HistogramView) SetThreshold(t *float64)   { v.threshold.write(v.q, t) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *HistogramView) Snapshot() HistogramState {
	defer v.ready.resolve()
	return HistogramState{
		SelectedChip:      v.SelectedChip(),
		TimeRange:         v.TimeRange(),
		SelectionMode:     v.SelectionMode(),
		SelectedParameter: v.SelectedParameter(),
		ShowAsErrorRate:   v.ShowAsErrorRate(),
		Threshold:         v.Threshold(),
	}
}

func (v *HistogramView) Initialized() bool     { return v.ready.Initialized() }
func (v *HistogramView) Done() <-chan struct{} { return v.ready.Done() }
func (v *HistogramView) EncodedQuery() string  { return v.q.Encode() }
