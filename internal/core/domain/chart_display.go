package domain

// PipelineState is the observable output of one chart pipeline (regular
// offset navigation or custom range): the last derived view plus its
// loading flag and error message. Errors live here as data so the caller
// can render a retry affordance; nothing is thrown past this boundary.
type PipelineState struct {
	Data    []AggregatedPoint `json:"data"`
	Stats   PeriodStats       `json:"stats"`
	Label   string            `json:"period_label"`
	Loading bool              `json:"loading"`
	Err     string            `json:"error,omitempty"`
}

// DisplayView is the unified bundle handed to the rendering layer after
// merging the two pipelines.
type DisplayView struct {
	Data         []AggregatedPoint `json:"data"`
	Stats        PeriodStats       `json:"stats"`
	PeriodLabel  string            `json:"period_label"`
	IsLoading    bool              `json:"is_loading"`
	Error        string            `json:"error,omitempty"`
	CanGoNext    bool              `json:"can_go_next"`
	IsCustomMode bool              `json:"is_custom_mode"`
}

// SelectDisplay merges the regular and custom pipelines into one view.
// An active custom range takes precedence entirely, including its loading
// flag and error, even when the regular pipeline has also loaded. Forward
// navigation is only offered while in the past and not in custom mode.
// Pure derivation: recompute whenever any input changes.
func SelectDisplay(regular, custom PipelineState, customActive bool, offset int) DisplayView {
	if customActive {
		return DisplayView{
			Data:         custom.Data,
			Stats:        custom.Stats,
			PeriodLabel:  custom.Label,
			IsLoading:    custom.Loading,
			Error:        custom.Err,
			CanGoNext:    false,
			IsCustomMode: true,
		}
	}

	return DisplayView{
		Data:        regular.Data,
		Stats:       regular.Stats,
		PeriodLabel: regular.Label,
		IsLoading:   regular.Loading,
		Error:       regular.Err,
		CanGoNext:   offset < 0,
	}
}
