package viewstate

// ExecutionView is the execution browsing page. Its chip filter is nullable:
// nil means "all chips" and is distinct from any concrete chip ID. Setting
// the empty string also clears the filter.
type ExecutionView struct {
	q     Query
	ready *Readiness

	chip binding[*string]
}

// ExecutionState is one full read of the execution browsing page state.
type ExecutionState struct {
	SelectedChip *string `json:"chip"`
}

func NewExecutionView(q Query) *ExecutionView {
	return &ExecutionView{
		q:     q,
		ready: newReadiness(),
		chip:  nullableStringBinding("chip"),
	}
}

func (v *ExecutionView) SelectedChip() *string { return v.chip.read(v.q) }

func (v *ExecutionView) SetSelectedChip(chip *string) {
	if chip != nil && *chip == "" {
		chip = nil
	}
	v.chip.write(v.q, chip)
}

// Snapshot reads every binding and resolves the readiness signal.
func (v *ExecutionView) Snapshot() ExecutionState {
	defer v.ready.resolve()
	return ExecutionState{SelectedChip: v.SelectedChip()}
}

func (v *ExecutionView) Initialized() bool     { return v.ready.Initialized() }
func (v *ExecutionView) Done() <-chan struct{} { return v.ready.Done() }
func (v *ExecutionView) EncodedQuery() string  { return v.q.Encode() }
