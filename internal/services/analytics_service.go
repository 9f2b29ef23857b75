// Package services – AnalyticsService
//
// This file implements the AnalyticsService, the read side of the system. It
// owns the current in-memory analytics store behind a read-write mutex: reads
// take the read lock for the duration of a pointer copy only, and a completed
// refresh swaps the pointer atomically, so long-running metric computations
// always run against one consistent snapshot and never block a swap.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/aryanBanwala/match-analytics/internal/analytics"
	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// FilterParams are the raw, unvalidated filter inputs taken from a request.
type FilterParams struct {
	Dates  []string
	Gender string
	Tier   int
}

// ParseFilter validates raw parameters into an analytics filter.
func ParseFilter(p FilterParams) (analytics.Filter, error) {
	f := analytics.Filter{}

	for _, d := range p.Dates {
		if _, err := time.Parse(domain.DayLayout, d); err != nil {
			return f, ErrInvalidDate
		}
		f.Dates = append(f.Dates, d)
	}

	switch p.Gender {
	case "":
	case string(domain.GenderMale):
		f.Gender = domain.GenderMale
	case string(domain.GenderFemale):
		f.Gender = domain.GenderFemale
	default:
		return f, ErrInvalidGender
	}

	if p.Tier != 0 {
		t := domain.Tier(p.Tier)
		if !t.Known() {
			return f, ErrInvalidTier
		}
		f.Tier = t
	}

	return f, nil
}

// AnalyticsService serves metric computations over the currently loaded
// store. All methods are safe for concurrent use.
type AnalyticsService struct {
	mu          sync.RWMutex
	store       *analytics.Store
	refreshedAt time.Time
}

// NewAnalyticsService constructs an AnalyticsService with no data loaded.
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Swap installs a freshly built store as the current snapshot.
func (s *AnalyticsService) Swap(store *analytics.Store, at time.Time) {
	s.mu.Lock()
	s.store = store
	s.refreshedAt = at.UTC()
	s.mu.Unlock()
}

// Ready reports whether a store has been loaded.
func (s *AnalyticsService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store != nil
}

// RefreshedAt returns when the current store was installed, zero when none.
func (s *AnalyticsService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

func (s *AnalyticsService) current() (*analytics.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNoData
	}
	return s.store, nil
}

// Snapshot computes every metric over the current store under the given
// filter parameters.
func (s *AnalyticsService) Snapshot(ctx context.Context, p FilterParams) (*analytics.Snapshot, error) {
	f, err := ParseFilter(p)
	if err != nil {
		return nil, err
	}
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return analytics.Assemble(store.Filter(f), time.Now()), nil
}

// AvailableDates lists the days present in the current store, newest first.
func (s *AnalyticsService) AvailableDates(ctx context.Context) ([]string, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	return store.AvailableDates(), nil
}

// LoadReport returns the accept/reject counters recorded when the current
// store was built.
func (s *AnalyticsService) LoadReport(ctx context.Context) (analytics.LoadReport, error) {
	store, err := s.current()
	if err != nil {
		return analytics.LoadReport{}, err
	}
	return store.Report(), nil
}

// TierRanks runs the rank performance breakdown restricted to one cell of
// the tier matrix.
func (s *AnalyticsService) TierRanks(ctx context.Context, viewerTier, candidateTier int, p FilterParams) (analytics.RankResult, error) {
	vt, ct := domain.Tier(viewerTier), domain.Tier(candidateTier)
	if !vt.Known() || !ct.Known() {
		return analytics.RankResult{}, ErrInvalidTier
	}
	f, err := ParseFilter(p)
	if err != nil {
		return analytics.RankResult{}, err
	}
	store, err := s.current()
	if err != nil {
		return analytics.RankResult{}, err
	}
	return analytics.ComputeCellRanks(store.Filter(f), vt, ct), nil
}

// SegmentUsers returns one page of the viewers classified into the given
// behavioral segment, ordered by user id, plus the segment's total size.
func (s *AnalyticsService) SegmentUsers(ctx context.Context, segment string, p FilterParams, page, pageSize int) ([]analytics.UserSegment, int, error) {
	seg, ok := analytics.ParseSegment(segment)
	if !ok {
		return nil, 0, ErrInvalidSegment
	}
	f, err := ParseFilter(p)
	if err != nil {
		return nil, 0, err
	}
	store, err := s.current()
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	var users []analytics.UserSegment
	for _, u := range analytics.ClassifySegments(store.Filter(f)) {
		if u.Segment == seg {
			users = append(users, u)
		}
	}

	total := len(users)
	lo := (page - 1) * pageSize
	if lo >= total {
		return []analytics.UserSegment{}, total, nil
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return users[lo:hi], total, nil
}
