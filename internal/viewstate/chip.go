package viewstate

// ChipView is the chip browsing page: which chip is shown, at which
// calibration date, which task's results, and how qubits are laid out.
type ChipView struct {
	q     Query
	ready *Readiness

	chip  binding[string]
	date  binding[string]
	task  binding[string]
	view  binding[string]
	qview binding[string]
}

// ChipState is one full read of the chip browsing page state.
type ChipState struct {
	SelectedChip  string `json:"chip"`
	SelectedDate  string `json:"date"`
	SelectedTask  string `json:"task"`
	ViewMode      string `json:"view"`
	QubitViewMode string `json:"qview"`
}

func NewChipView(q Query) *ChipView {
	return &ChipView{
		q:     q,
		ready: newReadiness(),
		chip:  stringBinding("chip", ""),
		date:  stringBinding("date", "latest"),
		task:  stringBinding("task", "CheckRabi"),
		view:  stringBinding("view", "1q"),
		qview: stringBinding("qview", "dashboard"),
	}
}

func (v *ChipView) SelectedChip() string        { return v.chip.read(v.q) }
func (v *ChipView) SetSelectedChip(chip string) { v.chip.write(v.q, chip) }

func (v *ChipView) SelectedDate() string        { return v.date.read(v.q) }
func (v *ChipView) SetSelectedDate(date string) { v.date.write(v.q, date) }

func (v *ChipView) SelectedTask() string        { return v.task.read(v.q) }
func (v *ChipView) SetSelectedTask(task string) { v.task.write(v.q, task) }

func (v *ChipView) ViewMode() string        { return v.view.read(v.q) }
func (v *ChipView) SetViewMode(mode string) { v.view.write(v.q, mode) }

func (v *ChipView) QubitViewMode() string        { return v.qview.read(v.q) }
func (v *ChipView) SetQubitViewMode(mode string) { v.qview.write(v.q, mode) }

// Snapshot reads every binding and resolves the readiness signal.
func (v *ChipView) Snapshot() ChipState {
	defer v.ready.resolve()
	return ChipState{
		SelectedChip:  v.SelectedChip(),
		SelectedDate:  v.SelectedDate(),
		SelectedTask:  v.SelectedTask(),
		ViewMode:      v.ViewMode(),
		QubitViewMode: v.QubitViewMode(),
	}
}

func (v *ChipView) Initialized() bool        { return v.ready.Initialized() }
func (v *ChipView) Done() <-chan struct{}    { return v.ready.Done() }
func (v *ChipView) EncodedQuery() string     { return v.q.Encode() }
