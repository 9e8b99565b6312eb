package viewstate

// QubitTimeseriesView is the single-qubit time-series page: one parameter
// filtered by calibration tag.
type QubitTimeseriesView struct {
	q     Query
	ready *Readiness

	param binding[string]
	tag   binding[string]
}

// QubitTimeseriesState is one full read of the qubit time-series page state.
type QubitTimeseriesState struct {
	SelectedParameter string `json:"param"`
	SelectedTag       string `json:"tag"`
}

func NewQubitTimeseriesView(q Query) *QubitTimeseriesView {
	return &QubitTimeseriesView{
		q:     q,
		ready: newReadiness(),
		param: stringBinding("param", "t1"),
		tag:   stringBinding("tag", "daily"),
	}
}

func (v *QubitTimeseriesView) SelectedParameter() string     { return v.param.read(v.q) }
func (v *QubitTimeseriesView) SetSelectedParameter(p string) { v.param.write(v.q, p) }

func (v *QubitTimeseriesView) SelectedTag() string       { return v.tag.read(v.q) }
func (v *QubitTimeseriesView) SetSelectedTag(tag string) { v.tag.write(v.q, tag) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *QubitTimeseriesView) Snapshot() QubitTimeseriesState {
	defer v.ready.resolve()
	return QubitTimeseriesState{
		SelectedParameter: v.SelectedParameter(),
		SelectedTag:       v.SelectedTag(),
	}
}

func (v *QubitTimeseriesView) Initialized() bool     { return v.ready.Initialized() }
func (v *QubitTimeseriesView) Done() <-chan struct{} { return v.ready.Done() }
func (v *QubitTimeseriesView) EncodedQuery() string  { return v.q.Encode() }
