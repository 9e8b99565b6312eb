package viewstate

// AnalysisView is the parameter analysis page: one primary parameter for the
// time-series pane plus a free-form comparison set. The comparison set has
// no meaningful non-empty default, so clearing it leaves it empty.
type AnalysisView struct {
	q     Query
	ready *Readiness

	chip      binding[string]
	parameter binding[string]
	params    binding[[]string]
	tag       binding[string]
	aview     binding[string]
}

// AnalysisState is one full read of the analysis page state.
type AnalysisState struct {
	SelectedChip       string   `json:"chip"`
	SelectedParameter  string   `json:"parameter"`
	SelectedParameters []string `json:"params"`
	SelectedTag        string   `json:"tag"`
	AnalysisViewMode   string   `json:"aview"`
}

func NewAnalysisView(q Query) *AnalysisView {
	return &AnalysisView{
		q:         q,
		ready:     newReadiness(),
		chip:      stringBinding("chip", ""),
		parameter: stringBinding("parameter", "t1"),
		params:    stringListBinding("params", []string{}),
		tag:       stringBinding("tag", "daily"),
		aview:     stringBinding("aview", "timeseries"),
	}
}

func (v *AnalysisView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *AnalysisView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *AnalysisView) SelectedParameter() string     { return v.parameter.read(v.q) }
func (v *AnalysisView) SetSelectedParameter(p string) { v.parameter.write(v.q, p) }

func (v *AnalysisView) SelectedParameters() []string {
	out := v.params.read(v.q)
	if out == nil {
		return []string{}
	}
	return out
}

func (v *AnalysisView) SetSelectedParameters(params []string) {
	if params == nil {
		params = []string{}
	}
	v.params.write(v.q, params)
}

func (v *AnalysisView) SelectedTag() string       { return v.tag.read(v.q) }
func (v *AnalysisView) SetSelectedTag(tag string) { v.tag.write(v.q, tag) }

func (v *AnalysisView) AnalysisViewMode() string        { return v.aview.read(v.q) }
func (v *AnalysisView) SetAnalysisViewMode(mode string) { v.aview.write(v.q, mode) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *AnalysisView) Snapshot() AnalysisState {
	defer v.ready.resolve()
	return AnalysisState{
		SelectedChip:       v.SelectedChip(),
		SelectedParameter:  v.SelectedParameter(),
		SelectedParameters: v.SelectedParameters(),
		SelectedTag:        v.SelectedTag(),
		AnalysisViewMode:   v.AnalysisViewMode(),
	}
}

func (v *AnalysisView) Initialized() bool     { return v.ready.Initialized() }
func (v *AnalysisView) Done() <-chan struct{} { return v.ready.Done() }
func (v *AnalysisView) EncodedQuery() string  { return v.q.Encode() }
