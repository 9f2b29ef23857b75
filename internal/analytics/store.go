// Package analytics implements the aggregation engine: an immutable
// in-memory snapshot of match rows and user profiles, a filter layer that
// derives read-only views, and the eight metric computers that turn a view
// into the serializable tables the dashboard renders.
//
// Design rules, mirrored throughout the package:
//
//   - No logging and no I/O in the library; callers own both.
//   - A Store is immutable once built and safe for concurrent reads; every
//     Filter call yields an independent view, so the same store can serve
//     many filters at once.
//   - Metrics count unique viewers, not rows, unless a metric explicitly
//     declares row-based counting (see aggregate.go's Unit).
//   - Empty inputs degrade to zero-valued results, never to errors.
package analytics

import (
	"sort"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// LoadReport describes what the store accepted and rejected at the load
// boundary. Malformed rows (missing identifiers) are dropped here so that a
// single bad row cannot corrupt unrelated metrics, and the drop is always
// surfaced, never silent.
type LoadReport struct {
	MatchesLoaded     int `json:"matches_loaded"`
	MatchesRejected   int `json:"matches_rejected"`
	ProfilesLoaded    int `json:"profiles_loaded"`
	ProfilesRejected  int `json:"profiles_rejected"`
	DuplicateProfiles int `json:"duplicate_profiles"`
}

// likePair is an ordered (viewer, candidate) pair with decision "liked",
// indexed over the whole store so the funnel's mutual-match stage can check
// reverse likes outside the active date filter.
type likePair struct {
	viewer    string
	candidate string
}

// Store is the immutable pair of row collections plus derived indexes. Build
// one per refresh with NewStore; never mutate it afterwards.
type Store struct {
	matches  []domain.MatchRecord
	profiles map[string]domain.UserProfile
	dates    []string // ascending day keys present in the data
	likes    map[likePair]struct{}
	report   LoadReport
}

// NewStore builds a store from already-fetched collections. Rows missing an
// id, viewer id, or candidate id are rejected and counted in the report;
// duplicate profile rows keep the last occurrence.
func NewStore(matches []domain.MatchRecord, profiles []domain.UserProfile) *Store {
	s := &Store{
		profiles: make(map[string]domain.UserProfile, len(profiles)),
		likes:    make(map[likePair]struct{}),
	}

	for _, p := range profiles {
		if p.UserID == "" {
			s.report.ProfilesRejected++
			continue
		}
		if _, dup := s.profiles[p.UserID]; dup {
			s.report.DuplicateProfiles++
		}
		s.profiles[p.UserID] = p
	}
	s.report.ProfilesLoaded = len(s.profiles)

	daySet := make(map[string]struct{})
	s.matches = make([]domain.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" || m.ViewerID == "" || m.CandidateID == "" {
			s.report.MatchesRejected++
			continue
		}
		s.matches = append(s.matches, m)
		daySet[m.Day()] = struct{}{}
		if m.Decision == domain.DecisionLiked {
			s.likes[likePair{viewer: m.ViewerID, candidate: m.CandidateID}] = struct{}{}
		}
	}
	s.report.MatchesLoaded = len(s.matches)

	s.dates = make([]string, 0, len(daySet))
	for d := range daySet {
		s.dates = append(s.dates, d)
	}
	sort.Strings(s.dates)

	return s
}

// Report returns the load report recorded when the store was built.
func (s *Store) Report() LoadReport { return s.report }

// Len returns the number of accepted match rows.
func (s *Store) Len() int { return len(s.matches) }

// AvailableDates returns the distinct days present in the data, newest
// first. The slice is a copy and safe to retain.
func (s *Store) AvailableDates() []string {
	out := make([]string, len(s.dates))
	for i, d := range s.dates {
		out[len(s.dates)-1-i] = d
	}
	return out
}

// Profile resolves a user's attributes. Missing lookups yield unknown gender
// and tier; they never fail.
func (s *Store) Profile(userID string) (domain.Gender, domain.Tier) {
	p, ok := s.profiles[userID]
	if !ok {
		return domain.GenderUnknown, domain.TierUnknown
	}
	g := p.Gender
	if g != domain.GenderMale && g != domain.GenderFemale {
		g = domain.GenderUnknown
	}
	t := p.Tier
	if !t.Known() {
		t = domain.TierUnknown
	}
	return g, t
}

// likedBack reports whether candidate has a liked row toward viewer anywhere
// in the store, regardless of the active filter.
func (s *Store) likedBack(viewer, candidate string) bool {
	_, ok := s.likes[likePair{viewer: candidate, candidate: viewer}]
	return ok
}
