// Package service coordinates a single end-to-end lookup: resolve a
// place, fetch its weather, update display state and feed the result
// into the alert pipeline.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"meteoalerte/internal/forecast"
	"meteoalerte/internal/metrics"
	"meteoalerte/internal/model"
	"meteoalerte/internal/repository"
)

// SearchInput is either free text to geocode or an already-resolved
// favorite used directly.
type SearchInput struct {
	Query    string
	Favorite *model.Location
}

// DisplayState is what the UI layer renders: the resolved query text,
// the current conditions and the forward-looking window of the last
// successful fetch, or the error that replaced them.
type DisplayState struct {
	QueryText   string                 `json:"query_text"`
	Location    *model.Location        `json:"location,omitempty"`
	Snapshot    *model.WeatherSnapshot `json:"snapshot,omitempty"`
	Window      forecast.Window        `json:"window,omitempty"`
	LastUpdated *time.Time             `json:"last_updated,omitempty"`
	ErrMessage  string                 `json:"error,omitempty"`
}

// AlertDispatcher is the downstream notification pipeline.
type AlertDispatcher interface {
	DispatchAlert(ctx context.Context, intent model.AlertIntent)
	DispatchRefreshSummary(ctx context.Context, location string, snapshot model.WeatherSnapshot)
}

// SearchService is the orchestrator. Searches may overlap; a monotonic
// sequence number guarantees that only the most recently initiated
// search's completion updates state, so a stale response can never
// clobber a newer result.
type SearchService struct {
	geocoder      repository.GeocodingRepository
	forecasts     repository.ForecastRepository
	dispatcher    AlertDispatcher
	heatThreshold float64
	rainCodes     map[int]struct{}
	windowSize    int
	log           *zap.SugaredLogger
	now           func() time.Time

	mu     sync.Mutex
	latest uint64
	state  DisplayState
}

func NewSearchService(
	geocoder repository.GeocodingRepository,
	forecasts repository.ForecastRepository,
	dispatcher AlertDispatcher,
	heatThreshold float64,
	windowSize int,
	log *zap.SugaredLogger,
) *SearchService {
	return &SearchService{
		geocoder:      geocoder,
		forecasts:     forecasts,
		dispatcher:    dispatcher,
		heatThreshold: heatThreshold,
		rainCodes:     model.DefaultRainCodes(),
		windowSize:    windowSize,
		log:           log,
		now:           time.Now,
	}
}

// State returns a copy of the current display state.
func (s *SearchService) State() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search runs one lookup end to end and returns the display state as it
// stands after this search completed (which may reflect a newer search
// if this one was superseded mid-flight).
func (s *SearchService) Search(ctx context.Context, input SearchInput) (DisplayState, error) {
	start := s.now()
	err := s.search(ctx, input)
	metrics.RecordSearch(start, err)
	return s.State(), err
}

func (s *SearchService) search(ctx context.Context, input SearchInput) error {
	query := strings.TrimSpace(input.Query)
	if input.Favorite == nil && query == "" {
		return s.failValidation(model.ValidationError(
			model.ErrCodeValidationEmptyQuery, "enter a place name to search"))
	}

	seq := s.claim()

	loc, err := s.resolve(ctx, query, input.Favorite)
	if err != nil {
		s.commit(seq, func(st *DisplayState) {
			st.ErrMessage = errMessage(err)
			st.Snapshot = nil
			st.Window = nil
		})
		return err
	}

	// A loose query becomes the canonical formatted name once resolved.
	s.commit(seq, func(st *DisplayState) {
		st.QueryText = loc.Name
		st.Location = loc
	})

	resp, err := s.forecasts.GetForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		// Stale weather must not sit next to an error; the resolved
		// name stays as the last successfully resolved query text.
		s.commit(seq, func(st *DisplayState) {
			st.ErrMessage = errMessage(err)
			st.Snapshot = nil
			st.Window = nil
		})
		return err
	}

	snapshot := model.SnapshotFromCurrent(resp.Current)
	series := model.SeriesFromHourly(resp.Hourly)
	now := s.now()
	window := forecast.ExtractWindow(series, now, s.windowSize)

	committed := s.commit(seq, func(st *DisplayState) {
		st.Snapshot = &snapshot
		st.Window = window
		st.LastUpdated = &now
		st.ErrMessage = ""
	})
	if !committed {
		// Superseded by a newer search; discard silently.
		return nil
	}

	s.dispatcher.DispatchRefreshSummary(ctx, loc.Name, snapshot)
	for _, intent := range forecast.Evaluate(window, now, loc.Name, s.heatThreshold, s.rainCodes) {
		s.dispatcher.DispatchAlert(ctx, intent)
	}
	return nil
}

// resolve uses the supplied favorite directly or asks the geocoder.
func (s *SearchService) resolve(ctx context.Context, query string, favorite *model.Location) (*model.Location, error) {
	if favorite != nil {
		loc := *favorite
		return &loc, nil
	}
	return s.geocoder.Resolve(ctx, query)
}

// claim issues the next sequence number; whoever holds the highest one
// owns the right to update state.
func (s *SearchService) claim() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// commit applies fn only if seq is still the latest claimed sequence.
func (s *SearchService) commit(seq uint64, fn func(*DisplayState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		return false
	}
	fn(&s.state)
	return true
}

// failValidation records a validation failure; no sequence is claimed
// because no network call is issued. Like any other surfaced error it
// clears the displayed weather so stale data never sits next to it.
func (s *SearchService) failValidation(err *model.AppError) error {
	s.mu.Lock()
	s.state.ErrMessage = err.Message
	s.state.Snapshot = nil
	s.state.Window = nil
	s.mu.Unlock()
	return err
}

func errMessage(err error) string {
	if appErr, ok := model.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
