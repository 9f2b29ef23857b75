package analytics

import "github.com/aryanBanwala/match-analytics/internal/domain"

// tierOrder is the fixed iteration order for every tier table.
var tierOrder = []domain.Tier{domain.Tier1, domain.Tier2, domain.Tier3}

// ViewerTierRow describes how viewers of one tier behave. Counts are unique
// viewers; decision percentages are against viewers who viewed.
type ViewerTierRow struct {
	Tier          int     `json:"tier"`
	Users         int     `json:"users"`
	ViewedUsers   int     `json:"viewed_users"`
	ViewPct       float64 `json:"view_pct"`
	KnowMoreMean  float64 `json:"know_more_mean"`
	LikedUsers    int     `json:"liked_users"`
	LikePct       float64 `json:"like_pct"`
	DislikedUsers int     `json:"disliked_users"`
	DislikePct    float64 `json:"dislike_pct"`
	PassedUsers   int     `json:"passed_users"`
	PassPct       float64 `json:"pass_pct"`
}

// CandidateTierRow describes how candidates of one tier are received. Counts
// here are row counts by design: the same profile shown to many viewers
// accumulates exposure, it is not deduplicated.
type CandidateTierRow struct {
	Tier         int     `json:"tier"`
	Shown        int     `json:"shown"`
	ViewedRows   int     `json:"viewed_rows"`
	ViewPct      float64 `json:"view_pct"`
	KnowMoreMean float64 `json:"know_more_mean"`
	LikedRows    int     `json:"liked_rows"`
	LikePct      float64 `json:"like_pct"`
	DislikedRows int     `json:"disliked_rows"`
	DislikePct   float64 `json:"dislike_pct"`
	PassedRows   int     `json:"passed_rows"`
	PassPct      float64 `json:"pass_pct"`
}

// TierCell is one cell of the 3x3 viewer-tier x candidate-tier matrix. View
// and like percentages are against the cell's own match count. Rows with an
// unknown tier on either side are excluded from the matrix only; they still
// participate in the one-sided tables through the unknown bucket's absence.
type TierCell struct {
	ViewerTier    int     `json:"viewer_tier"`
	CandidateTier int     `json:"candidate_tier"`
	Matches       int     `json:"matches"`
	ViewPct       float64 `json:"view_pct"`
	LikePct       float64 `json:"like_pct"`
	KnowMoreMean  float64 `json:"know_more_mean"`
}

// TierResult is the tier cross-analysis: per-viewer-tier behavior,
// per-candidate-tier reception, and the 3x3 interaction matrix. All three
// tables iterate tiers in fixed 1-2-3 order and always carry all tiers,
// zero-valued when empty.
type TierResult struct {
	Viewer    []ViewerTierRow    `json:"viewer"`
	Candidate []CandidateTierRow `json:"candidate"`
	Matrix    [][]TierCell       `json:"matrix"`
}

// ComputeTiers builds the three tier sub-views over the filtered rows.
func ComputeTiers(v *View) TierResult {
	res := TierResult{
		Viewer:    make([]ViewerTierRow, 0, len(tierOrder)),
		Candidate: make([]CandidateTierRow, 0, len(tierOrder)),
		Matrix:    make([][]TierCell, len(tierOrder)),
	}

	for _, t := range tierOrder {
		res.Viewer = append(res.Viewer, viewerTierRow(v.Rows, t))
		res.Candidate = append(res.Candidate, candidateTierRow(v.Rows, t))
	}

	for i, vt := range tierOrder {
		res.Matrix[i] = make([]TierCell, len(tierOrder))
		for j, ct := range tierOrder {
			res.Matrix[i][j] = tierCell(CellRows(v, vt, ct), vt, ct)
		}
	}
	return res
}

// CellRows returns the view's rows restricted to one (viewer tier,
// candidate tier) pair. It backs both the matrix cells and the on-demand
// per-cell rank breakdown.
func CellRows(v *View, viewerTier, candidateTier domain.Tier) []Row {
	var out []Row
	for _, r := range v.Rows {
		if r.ViewerTier == viewerTier && r.CandidateTier == candidateTier {
			out = append(out, r)
		}
	}
	return out
}

// ComputeCellRanks re-invokes the rank performance algorithm restricted to
// one matrix cell. It is a parameterized re-run of ComputeRanks, not a
// separate algorithm.
func ComputeCellRanks(v *View, viewerTier, candidateTier domain.Tier) RankResult {
	return ComputeRanks(CellRows(v, viewerTier, candidateTier))
}

func viewerTierRow(rows []Row, t domain.Tier) ViewerTierRow {
	var tierRows []Row
	for _, r := range rows {
		if r.ViewerTier == t {
			tierRows = append(tierRows, r)
		}
	}

	users := CountUsersWhere(tierRows, func(Row) bool { return true })
	viewed := CountUsersWhere(tierRows, func(r Row) bool { return r.M.Viewed })
	liked := CountUsersWhere(tierRows, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })
	disliked := CountUsersWhere(tierRows, func(r Row) bool { return r.M.Decision == domain.DecisionDisliked })
	passed := CountUsersWhere(tierRows, func(r Row) bool { return r.M.Decision == domain.DecisionPassed })

	km := make([]int, 0, len(tierRows))
	for _, r := range tierRows {
		km = append(km, r.M.KnowMoreCount)
	}

	return ViewerTierRow{
		Tier:          int(t),
		Users:         users,
		ViewedUsers:   viewed,
		ViewPct:       Percentage(viewed, users),
		KnowMoreMean:  meanInts(km),
		LikedUsers:    liked,
		LikePct:       Percentage(liked, viewed),
		DislikedUsers: disliked,
		DislikePct:    Percentage(disliked, viewed),
		PassedUsers:   passed,
		PassPct:       Percentage(passed, viewed),
	}
}

func candidateTierRow(rows []Row, t domain.Tier) CandidateTierRow {
	var tierRows []Row
	for _, r := range rows {
		if r.CandidateTier == t {
			tierRows = append(tierRows, r)
		}
	}

	shown := len(tierRows)
	viewed := Count(tierRows, ByRow, func(r Row) bool { return r.M.Viewed })
	liked := Count(tierRows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })
	disliked := Count(tierRows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionDisliked })
	passed := Count(tierRows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionPassed })

	km := make([]int, 0, len(tierRows))
	for _, r := range tierRows {
		km = append(km, r.M.KnowMoreCount)
	}

	return CandidateTierRow{
		Tier:         int(t),
		Shown:        shown,
		ViewedRows:   viewed,
		ViewPct:      Percentage(viewed, shown),
		KnowMoreMean: meanInts(km),
		LikedRows:    liked,
		LikePct:      Percentage(liked, viewed),
		DislikedRows: disliked,
		DislikePct:   Percentage(disliked, viewed),
		PassedRows:   passed,
		PassPct:      Percentage(passed, viewed),
	}
}

func tierCell(rows []Row, vt, ct domain.Tier) TierCell {
	viewed := Count(rows, ByRow, func(r Row) bool { return r.M.Viewed })
	liked := Count(rows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })

	km := make([]int, 0, len(rows))
	for _, r := range rows {
		km = append(km, r.M.KnowMoreCount)
	}

	return TierCell{
		ViewerTier:    int(vt),
		CandidateTier: int(ct),
		Matches:       len(rows),
		ViewPct:       Percentage(viewed, len(rows)),
		LikePct:       Percentage(liked, len(rows)),
		KnowMoreMean:  meanInts(km),
	}
}
