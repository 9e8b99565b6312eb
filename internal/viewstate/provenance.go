package viewstate

// ProvenanceView is the calibration provenance page: a tab plus a search
// form over parameter and qubit ID, with an optional entity filter.
type ProvenanceView struct {
	q     Query
	ready *Readiness

	tab       binding[string]
	parameter binding[string]
	qid       binding[string]
	entity    binding[string]
}

// ProvenanceState is one full read of the provenance page state.
type ProvenanceState struct {
	SelectedTab     string `json:"tab"`
	SearchParameter string `json:"parameter"`
	SearchQID       string `json:"qid"`
	SearchEntity    string `json:"entity"`
	HasSearchParams bool   `json:"hasSearchParams"`
}

func NewProvenanceView(q Query) *ProvenanceView {
	return &ProvenanceView{
		q:         q,
		ready:     newReadiness(),
		tab:       stringBinding("tab", "history"),
		parameter: stringBinding("parameter", ""),
		qid:       stringBinding("qid", ""),
		entity:    stringBinding("entity", ""),
	}
}

func (v *ProvenanceView) SelectedTab() string       { return v.tab.read(v.q) }
func (v *ProvenanceView) SetSelectedTab(tab string) { v.tab.write(v.q, tab) }

func (v *ProvenanceView) SearchParameter() string     { return v.parameter.read(v.q) }
func (v *ProvenanceView) SetSearchParameter(p string) { v.parameter.write(v.q, p) }

func (v *ProvenanceView) SearchQID() string        { return v.qid.read(v.q) }
func (v *ProvenanceView) SetSearchQID(qid string)  { v.qid.write(v.q, qid) }

func (v *ProvenanceView) SearchEntity() string         { return v.entity.read(v.q) }
func (v *ProvenanceView) SetSearchEntity(entity string) { v.entity.write(v.q, entity) }

// HasSearchParams reports whether the search form is complete enough to run:
// both parameter and qubit ID are set.
func (v *ProvenanceView) HasSearchParams() bool {
	return v.SearchParameter() != "" && v.SearchQID() != ""
}

// Snapshot reads every binding and resolves the readiness signal.
func (v *ProvenanceView) Snapshot() ProvenanceState {
	defer v.ready.resolve()
	return ProvenanceState{
		SelectedTab:     v.SelectedTab(),
		SearchParameter: v.SearchParameter(),
		SearchQID:       v.SearchQID(),
		SearchEntity:    v.SearchEntity(),
		HasSearchParams: v.HasSearchParams(),
	}
}

func (v *ProvenanceView) Initialized() bool     { return v.ready.Initialized() }
func (v *ProvenanceView) Done() <-chan struct{} { return v.ready.Done() }
func (v *ProvenanceView) EncodedQuery() string  { return v.q.Encode() }
