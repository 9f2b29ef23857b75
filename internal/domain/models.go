// Package domain defines the records the analytics engine operates on:
// match rows, user profiles, and the refresh bookkeeping entry. The match
// and profile types are mapped with GORM for the local snapshot store and
// carry JSON tags for API payloads.
package domain

import (
	"time"
)

// Gender is a user's reported gender. Unknown is used whenever a profile
// lookup fails; it participates in overall totals but is excluded from the
// male/female sub-views.
type Gender string

// Gender values.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Tier is a user's professional tier, 1 (highest) through 3. TierUnknown is
// used when the profile is missing or carries no tier.
type Tier int

// Tier values.
const (
	TierUnknown Tier = 0
	Tier1       Tier = 1
	Tier2       Tier = 2
	Tier3       Tier = 3
)

// Known reports whether t is one of the concrete tiers 1..3.
func (t Tier) Known() bool { return t >= Tier1 && t <= Tier3 }

// Decision is the action a viewer took on a match. The empty string means
// the viewer has not decided yet.
type Decision string

// Decision values.
const (
	DecisionNone     Decision = ""
	DecisionLiked    Decision = "liked"
	DecisionDisliked Decision = "disliked"
	DecisionPassed   Decision = "passed"
)

// Decided reports whether d is a concrete decision.
func (d Decision) Decided() bool { return d != DecisionNone }

// Rejecting reports whether d is a non-like decision (dislike or pass).
func (d Decision) Rejecting() bool { return d == DecisionDisliked || d == DecisionPassed }

// ParseDecision maps a raw decision string to one of the known values.
// Anything else, including future remote values, collapses to DecisionNone
// so unrecognized rows count as undecided rather than decided.
func ParseDecision(s string) Decision {
	switch d := Decision(s); d {
	case DecisionLiked, DecisionDisliked, DecisionPassed:
		return d
	default:
		return DecisionNone
	}
}

// MatchRecord is one viewer/candidate pairing. Each viewer receives at most
// one match per rank per day; ranks run 1 (shown first) through 9.
//
// Invariants tolerated rather than enforced: DecidedAt should never precede
// ViewedAt, but rows violating it are loaded and excluded from latency
// aggregates with a diagnostic count (see the analytics package).
type MatchRecord struct {
	ID          string `json:"id"           gorm:"type:varchar(64);primaryKey"`
	ViewerID    string `json:"viewer_id"    gorm:"type:varchar(64);not null;index:idx_matches_viewer"`
	CandidateID string `json:"candidate_id" gorm:"type:varchar(64);not null;index:idx_matches_candidate"`

	// Rank is the slot the match occupied in the viewer's daily batch (1-9).
	Rank int `json:"rank" gorm:"not null"`

	Viewed   bool       `json:"viewed"`
	ViewedAt *time.Time `json:"viewed_at,omitempty"`

	Decision  Decision   `json:"decision,omitempty" gorm:"type:varchar(16)"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`

	// KnowMoreCount is how many times the viewer expanded this profile.
	KnowMoreCount int `json:"know_more_count"`

	// OriginPhase is carried through from the remote schema but consumed by
	// no metric; it is kept opaque for a possible future segmentation axis.
	OriginPhase string `json:"origin_phase,omitempty" gorm:"type:varchar(32)"`

	// CreatedAt is the date bucket the match belongs to.
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_matches_created"`
}

// TableName returns the database table name for MatchRecord.
func (MatchRecord) TableName() string { return "user_matches" }

// Day returns the UTC calendar day of CreatedAt as "2006-01-02". All
// date-based metrics bucket on this key, never on action timestamps.
func (m *MatchRecord) Day() string { return m.CreatedAt.UTC().Format(DayLayout) }

// DayLayout is the canonical date-key layout used across the system.
const DayLayout = "2006-01-02"

// UserProfile is the attribute record for a single user. At most one row per
// user id; missing lookups resolve to unknown gender and tier.
type UserProfile struct {
	UserID string `json:"user_id" gorm:"type:varchar(64);primaryKey"`
	Gender Gender `json:"gender"  gorm:"type:varchar(16)"`
	Tier   Tier   `json:"tier"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_metadata" }

// RefreshLog records one completed data refresh: when it ran, how many rows
// it loaded, and how long the fetch took.
type RefreshLog struct {
	ID          uint      `json:"-"            gorm:"primaryKey"`
	FetchedAt   time.Time `json:"fetched_at"`
	MatchRows   int       `json:"match_rows"`
	ProfileRows int       `json:"profile_rows"`
	DurationMS  int64     `json:"duration_ms"`
}

// TableName returns the database table name for RefreshLog.
func (RefreshLog) TableName() string { return "refresh_log" }
