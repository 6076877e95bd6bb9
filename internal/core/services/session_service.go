package services

import (
	"context"
	"sync"

	"github.com/stepperapp/stepper-insights/internal/core/domain"
)

// ChartSessionService owns one custom-range session per user and drives
// the pure session transitions. The fetch for a confirmed range runs
// outside the lock; its result is applied through the sequence guard, so a
// response from a superseded request never overwrites newer state even
// when two fetches for the same user overlap.
type ChartSessionService struct {
	charts *ChartService

	mu       sync.Mutex
	sessions map[string]domain.ChartSession
}

func NewChartSessionService(charts *ChartService) *ChartSessionService {
	return &ChartSessionService{
		charts:   charts,
		sessions: make(map[string]domain.ChartSession),
	}
}

// Session returns the user's current session state.
func (s *ChartSessionService) Session(userID string) domain.ChartSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

// OpenPicker shows the user's date picker.
func (s *ChartSessionService) OpenPicker(userID string) domain.ChartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := domain.OpenPicker(s.sessions[userID])
	s.sessions[userID] = session
	return session
}

// ClosePicker cancels the picker without touching any selected range.
func (s *ChartSessionService) ClosePicker(userID string) domain.ChartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := domain.ClosePicker(s.sessions[userID])
	s.sessions[userID] = session
	return session
}

// ConfirmRange selects a custom range and fetches its daily aggregation.
// A failed fetch is captured on the session, never returned: the error
// belongs to the custom pipeline and surfaces as data for the UI.
func (s *ChartSessionService) ConfirmRange(ctx context.Context, userID string, rng domain.DateRange) domain.ChartSession {
	s.mu.Lock()
	session, seq := domain.ConfirmRange(s.sessions[userID], rng)
	s.sessions[userID] = session
	s.mu.Unlock()

	return s.fetch(ctx, userID, rng, seq)
}

// ClearRange returns the user to regular offset navigation and discards
// the fetched custom data.
func (s *ChartSessionService) ClearRange(userID string) domain.ChartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := domain.ClearRange(s.sessions[userID])
	s.sessions[userID] = session
	return session
}

// Retry re-issues the fetch for the selected range. No-op without one.
func (s *ChartSessionService) Retry(ctx context.Context, userID string) domain.ChartSession {
	s.mu.Lock()
	session, seq, ok := domain.RetryFetch(s.sessions[userID])
	if !ok {
		s.mu.Unlock()
		return session
	}
	s.sessions[userID] = session
	rng := *session.Range
	s.mu.Unlock()

	return s.fetch(ctx, userID, rng, seq)
}

// Display merges the custom pipeline with the given regular pipeline state.
func (s *ChartSessionService) Display(userID string, regular domain.PipelineState, offset int) domain.DisplayView {
	session := s.Session(userID)
	return domain.SelectDisplay(regular, session.PipelineState(), session.Active(), offset)
}

func (s *ChartSessionService) fetch(ctx context.Context, userID string, rng domain.DateRange, seq uint64) domain.ChartSession {
	view, err := s.charts.GetCustomChart(ctx, userID, rng)

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if err != nil {
		session = domain.ApplyFetchFailure(session, seq, err.Error())
	} else {
		session = domain.ApplyFetchSuccess(session, seq, view)
	}
	s.sessions[userID] = session
	return session
}
