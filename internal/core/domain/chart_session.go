package domain

// ChartSession tracks a user's custom date-range selection: date-picker
// visibility, the confirmed range, and the result of the most recent fetch
// for it. Transitions are pure functions over the value; the caller owns
// storage and performs the actual fetches.
//
// Every fetch is tagged with a monotonically increasing sequence number.
// Results are applied only when their sequence matches the latest issued
// one, so a slow response can never overwrite the state of a newer request.
type ChartSession struct {
	PickerVisible bool       `json:"picker_visible"`
	Range         *DateRange `json:"range,omitempty"`
	Chart         *ChartView `json:"chart,omitempty"`
	Loading       bool       `json:"loading"`
	Err           string     `json:"error,omitempty"`

	Seq uint64 `json:"-"`
}

// Active reports whether a custom range is currently selected.
func (s ChartSession) Active() bool {
	return s.Range != nil
}

// OpenPicker shows the date picker. The selected range, if any, is kept.
func OpenPicker(s ChartSession) ChartSession {
	s.PickerVisible = true
	return s
}

// ClosePicker cancels the picker without touching the selected range: the
// session returns to whatever state it was in before the picker opened.
func ClosePicker(s ChartSession) ChartSession {
	s.PickerVisible = false
	return s
}

// ConfirmRange selects a custom range, closes the picker, and begins a new
// fetch generation. The returned sequence must accompany the fetch result.
func ConfirmRange(s ChartSession, rng DateRange) (ChartSession, uint64) {
	s.PickerVisible = false
	s.Range = &rng
	s.Loading = true
	s.Err = ""
	s.Seq++
	return s, s.Seq
}

// ClearRange drops the custom range and everything fetched for it. The
// sequence keeps counting so in-flight fetches of the cleared range are
// discarded when they land.
func ClearRange(s ChartSession) ChartSession {
	s.Range = nil
	s.Chart = nil
	s.Loading = false
	s.Err = ""
	s.Seq++
	return s
}

// RetryFetch re-issues the fetch for the currently selected range. It is a
// no-op when no range is selected; the second return value reports whether
// a fetch should actually be performed.
func RetryFetch(s ChartSession) (ChartSession, uint64, bool) {
	if s.Range == nil {
		return s, 0, false
	}
	s.Loading = true
	s.Err = ""
	s.Seq++
	return s, s.Seq, true
}

// ApplyFetchSuccess installs a fetched view if it belongs to the latest
// fetch generation. Stale results leave the session untouched.
func ApplyFetchSuccess(s ChartSession, seq uint64, view *ChartView) ChartSession {
	if seq != s.Seq || s.Range == nil {
		return s
	}
	s.Chart = view
	s.Loading = false
	s.Err = ""
	return s
}

// ApplyFetchFailure records a fetch error for the latest generation.
// Previously fetched data stays visible; retrying is the only recovery.
func ApplyFetchFailure(s ChartSession, seq uint64, message string) ChartSession {
	if seq != s.Seq || s.Range == nil {
		return s
	}
	s.Loading = false
	s.Err = message
	return s
}

// PipelineState projects the session onto the custom chart pipeline for
// display selection.
func (s ChartSession) PipelineState() PipelineState {
	state := PipelineState{
		Loading: s.Loading,
		Err:     s.Err,
	}
	if s.Chart != nil {
		state.Data = s.Chart.Data
		state.Stats = s.Chart.Stats
		state.Label = s.Chart.PeriodLabel
	}
	return state
}
