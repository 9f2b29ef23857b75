package analytics

import "github.com/aryanBanwala/match-analytics/internal/domain"

// FunnelStage is one row of the core user funnel. Absolute percentages are
// against the top-of-funnel population (viewers with matches); relative
// percentages are against the immediately preceding step's population. Both
// are kept even when they coincide.
type FunnelStage struct {
	Stage       string  `json:"stage"`
	Users       int     `json:"users"`
	AbsolutePct float64 `json:"absolute_pct"`
	RelativePct float64 `json:"relative_pct"`
}

// FunnelResult is the core user-level funnel. All counts are unique viewer
// counts, not row counts. The outcome stages are non-exclusive: a viewer who
// liked one match and disliked another appears in both, so outcome counts
// may sum to more than the decided stage.
type FunnelResult struct {
	// Stages: with-matches, viewed, engaged (know-more > 0), decided.
	Stages []FunnelStage `json:"stages"`
	// Outcomes: liked, disliked, passed (relative to decided) and got-match
	// (mutual like, relative to liked).
	Outcomes []FunnelStage `json:"outcomes"`
	// NoAction counts viewers who never viewed any of their matches.
	NoAction FunnelStage `json:"no_action"`
}

// Funnel stage labels.
const (
	StageWithMatches = "with_matches"
	StageViewed      = "viewed"
	StageEngaged     = "engaged"
	StageDecided     = "decided"
	StageLiked       = "liked"
	StageDisliked    = "disliked"
	StagePassed      = "passed"
	StageGotMatch    = "got_match"
	StageNoAction    = "no_action"
)

// ComputeFunnel builds the funnel over the filtered view. The got-match
// stage checks reverse likes against the whole store, not just the filtered
// slice, so a mutual like struck across the date boundary still counts.
func ComputeFunnel(v *View) FunnelResult {
	total := CountUsersWhere(v.Rows, func(Row) bool { return true })

	viewed := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.Viewed })
	engaged := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.KnowMoreCount > 0 })
	decided := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.Decision.Decided() })
	liked := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })
	disliked := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.Decision == domain.DecisionDisliked })
	passed := CountUsersWhere(v.Rows, func(r Row) bool { return r.M.Decision == domain.DecisionPassed })
	gotMatch := CountUsersWhere(v.Rows, func(r Row) bool {
		return r.M.Decision == domain.DecisionLiked && v.store.likedBack(r.M.ViewerID, r.M.CandidateID)
	})

	stage := func(label string, users, prev int) FunnelStage {
		return FunnelStage{
			Stage:       label,
			Users:       users,
			AbsolutePct: Percentage(users, total),
			RelativePct: Percentage(users, prev),
		}
	}

	return FunnelResult{
		Stages: []FunnelStage{
			stage(StageWithMatches, total, total),
			stage(StageViewed, viewed, total),
			stage(StageEngaged, engaged, viewed),
			stage(StageDecided, decided, engaged),
		},
		Outcomes: []FunnelStage{
			stage(StageLiked, liked, decided),
			stage(StageDisliked, disliked, decided),
			stage(StagePassed, passed, decided),
			stage(StageGotMatch, gotMatch, liked),
		},
		NoAction: FunnelStage{
			Stage:       StageNoAction,
			Users:       total - viewed,
			AbsolutePct: Percentage(total-viewed, total),
		},
	}
}
