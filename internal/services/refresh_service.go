// Package services – RefreshService
//
// This file implements the RefreshService, the write side of the system: it
// pulls the full remote dataset, persists it as the local snapshot, rebuilds
// the in-memory analytics store, and swaps it into the AnalyticsService.
// Refreshes are single-flight; a second request while one is running is
// rejected with ErrRefreshInProgress rather than queued.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aryanBanwala/match-analytics/internal/analytics"
	"github.com/aryanBanwala/match-analytics/internal/domain"
	"github.com/aryanBanwala/match-analytics/internal/repo"
)

// MatchSource is the remote data source contract required by RefreshService.
type MatchSource interface {
	// Configured reports whether the source has credentials to fetch with.
	Configured() bool

	// FetchMatches pulls every remote match row, reporting progress per page.
	FetchMatches(ctx context.Context, progress func(fetched, total int)) ([]domain.MatchRecord, error)

	// FetchProfiles pulls every remote user profile.
	FetchProfiles(ctx context.Context, progress func(fetched, total int)) ([]domain.UserProfile, error)
}

// RefreshState is the lifecycle phase of the latest refresh.
type RefreshState string

// Refresh states.
const (
	RefreshIdle    RefreshState = "idle"
	RefreshRunning RefreshState = "running"
	RefreshDone    RefreshState = "done"
	RefreshFailed  RefreshState = "failed"
)

// RefreshStatus is a point-in-time view of the refresh lifecycle, served by
// the status endpoint while a background refresh runs.
type RefreshStatus struct {
	State      RefreshState `json:"state"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`

	// Fetched/Total track the match pull, the dominant phase.
	Fetched int `json:"fetched"`
	Total   int `json:"total"`

	Error string `json:"error,omitempty"`

	// Report holds the load counters of the last successful refresh.
	Report *analytics.LoadReport `json:"report,omitempty"`
}

// RefreshService coordinates fetch, persist, rebuild, and swap.
type RefreshService struct {
	DB        *gorm.DB
	Source    MatchSource
	Analytics *AnalyticsService
	Log       zerolog.Logger

	mu      sync.Mutex
	running bool
	status  RefreshStatus
}

// NewRefreshService constructs a RefreshService.
func NewRefreshService(db *gorm.DB, src MatchSource, as *AnalyticsService, log zerolog.Logger) *RefreshService {
	return &RefreshService{
		DB:        db,
		Source:    src,
		Analytics: as,
		Log:       log,
		status:    RefreshStatus{State: RefreshIdle},
	}
}

// Status returns the current refresh status.
func (s *RefreshService) Status() RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start begins a background refresh. It returns immediately:
// ErrRefreshInProgress when one is already running, ErrSourceNotConfigured
// when the source has no credentials, nil when the refresh was started. The
// work runs detached from the caller's request context.
func (s *RefreshService) Start() error {
	if err := s.begin(); err != nil {
		return err
	}
	go func() {
		_ = s.finish(s.refresh(context.Background()))
	}()
	return nil
}

// RunOnce performs one synchronous refresh. Used for refresh-on-start and
// anywhere the caller wants the result, with the same single-flight rule as
// Start.
func (s *RefreshService) RunOnce(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.finish(s.refresh(ctx))
}

func (s *RefreshService) begin() error {
	if !s.Source.Configured() {
		return ErrSourceNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRefreshInProgress
	}
	now := time.Now().UTC()
	s.running = true
	s.status = RefreshStatus{State: RefreshRunning, StartedAt: &now}
	return nil
}

func (s *RefreshService) finish(err error) error {
	s.mu.Lock()
	now := time.Now().UTC()
	s.running = false
	s.status.FinishedAt = &now
	if err != nil {
		s.status.State = RefreshFailed
		s.status.Error = err.Error()
	} else {
		s.status.State = RefreshDone
	}
	s.mu.Unlock()

	if err != nil {
		s.Log.Error().Err(err).Msg("refresh failed")
	}
	return err
}

// refresh performs one full pull-persist-rebuild-swap cycle.
func (s *RefreshService) refresh(ctx context.Context) error {
	started := time.Now()

	matches, err := s.Source.FetchMatches(ctx, s.trackProgress)
	if err != nil {
		return err
	}
	profiles, err := s.Source.FetchProfiles(ctx, nil)
	if err != nil {
		return err
	}

	if err := repo.ReplaceMatches(ctx, s.DB, matches); err != nil {
		return err
	}
	if err := repo.ReplaceProfiles(ctx, s.DB, profiles); err != nil {
		return err
	}
	if err := repo.RecordRefresh(ctx, s.DB, len(matches), len(profiles), time.Since(started)); err != nil {
		return err
	}

	store := analytics.NewStore(matches, profiles)
	s.Analytics.Swap(store, time.Now())

	report := store.Report()
	s.mu.Lock()
	s.status.Report = &report
	s.mu.Unlock()

	s.Log.Info().
		Int("matches", report.MatchesLoaded).
		Int("profiles", report.ProfilesLoaded).
		Int("rejected", report.MatchesRejected).
		Dur("took", time.Since(started)).
		Msg("refresh complete")
	return nil
}

func (s *RefreshService) trackProgress(fetched, total int) {
	s.mu.Lock()
	s.status.Fetched = fetched
	s.status.Total = total
	s.mu.Unlock()
}

// LoadFromDB warm-starts the analytics store from the persisted snapshot.
// A missing or empty snapshot is not an error; the service just stays
// not-ready until the first refresh.
func (s *RefreshService) LoadFromDB(ctx context.Context) error {
	matches, err := repo.ListMatches(ctx, s.DB)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	profiles, err := repo.ListProfiles(ctx, s.DB)
	if err != nil {
		return err
	}

	store := analytics.NewStore(matches, profiles)
	at := time.Now()
	if last, err := repo.LastRefresh(ctx, s.DB); err == nil && last != nil {
		at = last.FetchedAt
	}
	s.Analytics.Swap(store, at)

	s.Log.Info().
		Int("matches", store.Len()).
		Int("profiles", store.Report().ProfilesLoaded).
		Msg("snapshot loaded from local database")
	return nil
}
