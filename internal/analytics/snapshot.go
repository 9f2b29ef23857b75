package analytics

import (
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// Summary is the headline strip rendered above the metric tables.
type Summary struct {
	TotalMatches int     `json:"total_matches"`
	TotalUsers   int     `json:"total_users"`
	ViewRatePct  float64 `json:"view_rate_pct"` // viewed rows over all rows
	LikeRatePct  float64 `json:"like_rate_pct"` // liked rows over viewed rows
	Dates        int     `json:"dates"`
}

// Split carries a metric computed three times: over the whole view and over
// its male and female slices. The gendered slices are omitted when the
// filter already pins a gender.
type Split[T any] struct {
	Global T  `json:"global"`
	Male   *T `json:"male,omitempty"`
	Female *T `json:"female,omitempty"`
}

// Snapshot is one full evaluation of every metric over a filtered view.
// It is immutable once built and safe to serve concurrently.
type Snapshot struct {
	Filter      Filter    `json:"filter"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary  Summary               `json:"summary"`
	Funnel   Split[FunnelResult]   `json:"funnel"`
	Hours    HoursResult           `json:"hours"`
	Latency  LatencyResult         `json:"latency"`
	Ranks    RankResult            `json:"ranks"`
	Tiers    TierResult            `json:"tiers"`
	Dates    DatesResult           `json:"dates"`
	KnowMore Split[KnowMoreResult] `json:"know_more"`
	Segments Split[SegmentsResult] `json:"segments"`
}

// split evaluates fn over the view and, when no gender is pinned, over its
// male and female re-filters.
func split[T any](v *View, fn func(*View) T) Split[T] {
	s := Split[T]{Global: fn(v)}
	if v.Filter.Gender != "" {
		return s
	}
	m := fn(v.withGender(domain.GenderMale))
	f := fn(v.withGender(domain.GenderFemale))
	s.Male, s.Female = &m, &f
	return s
}

// Assemble runs every metric over the view and stamps the result.
func Assemble(v *View, now time.Time) *Snapshot {
	viewed := Count(v.Rows, ByRow, func(r Row) bool { return r.M.Viewed })
	liked := Count(v.Rows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })

	return &Snapshot{
		Filter:      v.Filter,
		GeneratedAt: now.UTC(),
		Summary: Summary{
			TotalMatches: len(v.Rows),
			TotalUsers:   CountUsersWhere(v.Rows, func(Row) bool { return true }),
			ViewRatePct:  Percentage(viewed, len(v.Rows)),
			LikeRatePct:  Percentage(liked, viewed),
			Dates:        len(v.Dates),
		},
		Funnel:   split(v, ComputeFunnel),
		Hours:    ComputeHours(v),
		Latency:  ComputeLatency(v),
		Ranks:    ComputeRanks(v.Rows),
		Tiers:    ComputeTiers(v),
		Dates:    ComputeDates(v),
		KnowMore: split(v, ComputeKnowMore),
		Segments: split(v, ComputeSegments),
	}
}
