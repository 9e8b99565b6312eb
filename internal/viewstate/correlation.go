package viewstate

// CorrelationView is the parameter correlation page: one parameter per axis
// over a shared time range and selection mode.
type CorrelationView struct {
	q     Query
	ready *Readiness

	chip   binding[string]
	rng    binding[string]
	mode   binding[string]
	xParam binding[string]
	yParam binding[string]
}

// CorrelationState is one full read of the correlation page state.
type CorrelationState struct {
	SelectedChip  string `json:"chip"`
	TimeRange     string `json:"range"`
	SelectionMode string `json:"mode"`
	XParameter    string `json:"xParam"`
	YParameter    string `json:"yParam"`
}

func NewCorrelationView(q Query) *CorrelationView {
	return &CorrelationView{
		q:      q,
		ready:  newReadiness(),
		chip:   stringBinding("chip", ""),
		rng:    stringBinding("range", "7d"),
		mode:   stringBinding("mode", "latest"),
		xParam: stringBinding("xParam", "t1"),
		yParam: stringBinding("yParam", "t2_echo"),
	}
}

func (v *CorrelationView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *CorrelationView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *CorrelationView) TimeRange() string         { return v.rng.read(v.q) }
func (v *CorrelationView) SetTimeRange(r string)     { v.rng.write(v.q, r) }

func (v *CorrelationView) SelectionMode() string        { return v.mode.read(v.q) }
func (v *CorrelationView) SetSelectionMode(mode string) { v.mode.write(v.q, mode) }

func (v *CorrelationView) XParameter() string     { return v.xParam.read(v.q) }
func (v *CorrelationView) SetXParameter(p string) { v.xParam.write(v.q, p) }

func (v *CorrelationView) YParameter() string     { return v.yParam.read(v.q) }
func (v *CorrelationView) SetYParameter(p string) { v.yParam.write(v.q, p) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *CorrelationView) Snapshot() CorrelationState {
	defer v.ready.resolve()
	return CorrelationState{
		SelectedChip:  v.SelectedChip(),
		TimeRange:     v.TimeRange(),
		SelectionMode: v.SelectionMode(),
		XParameter:    v.XParameter(),
		YParameter:    v.YParameter(),
	}
}

func (v *CorrelationView) Initialized() bool     { return v.ready.Initialized() }
func (v *CorrelationView) Done() <-chan struct{} { return v.ready.Done() }
func (v *CorrelationView) EncodedQuery() string  { return v.q.Encode() }
