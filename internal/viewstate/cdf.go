package viewstate

// DefaultCDFParameters is the parameter triple the CDF page always falls
// back to; clearing the selection restores it rather than showing an empty
// chart.
func DefaultCDFParameters() []string {
	return []string{"t1", "t2_echo", "t2_star"}
}

// CDFView is the cumulative-distribution page: a set of parameters plotted
// as CDFs over a shared time range, optionally transformed to error rates.
type CDFView struct {
	q     Query
	ready *Readiness

	chip      binding[string]
	rng       binding[string]
	mode      binding[string]
	params    binding[[]string]
	errorRate binding[bool]
}

// CDFState is one full read of the CDF page state.
type CDFState struct {
	SelectedChip       string   `json:"chip"`
	TimeRange          string   `json:"range"`
	SelectionMode      string   `json:"mode"`
	SelectedParameters []string `json:"params"`
	ShowAsErrorRate    bool     `json:"errorRate"`
}

func NewCDFView(q Query) *CDFView {
	return &CDFView{
		q:         q,
		ready:     newReadiness(),
		chip:      stringBinding("chip", ""),
		rng:       stringBinding("range", "7d"),
		mode:      stringBinding("mode", "latest"),
		params:    stringListBinding("params", DefaultCDFParameters()),
		errorRate: boolBinding("errorRate", false),
	}
}

func (v *CDFView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *CDFView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *CDFView) TimeRange() string     { return v.rng.read(v.q) }
func (v *CDFView) SetTimeRange(r string) { v.rng.write(v.q, r) }

func (v *CDFView) SelectionMode() string        { return v.mode.read(v.q) }
func (v *CDFView) SetSelectionMode(mode string) { v.mode.write(v.q, mode) }

func (v *CDFView) SelectedParameters() []string {
	out := v.params.read(v.q)
	if len(out) == 0 {
		return DefaultCDFParameters()
	}
	return out
}

// SetSelectedParameters resets to the default triple when given an empty
// selection; an empty CDF page is never a valid state.
func (v *CDFView) SetSelectedParameters(params []string) {
	if len(params) == 0 {
		params = DefaultCDFParameters()
	}
	v.params.write(v.q, params)
}

func (v *CDFView) ShowAsErrorRate() bool       { return v.errorRate.read(v.q) }
func (v *CDFView) SetShowAsErrorRate(on bool)  { v.errorRate.write(v.q, on) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *CDFView) Snapshot() CDFState {
	defer v.ready.resolve()
	return CDFState{
		SelectedChip:       v.SelectedChip(),
		TimeRange:          v.TimeRange(),
		SelectionMode:      v.SelectionMode(),
		SelectedParameters: v.SelectedParameters(),
		ShowAsErrorRate:    v.ShowAsErrorRate(),
	}
}

func (v *CDFView) Initialized() bool     { return v.ready.Initialized() }
func (v *CDFView) Done() <-chan struct{} { return v.ready.Done() }
func (v *CDFView) EncodedQuery() string  { return v.q.Encode() }
