package analytics

import "github.com/aryanBanwala/match-analytics/internal/domain"

// minRank and maxRank bound the match rank domain.
const (
	minRank = 1
	maxRank = 9
)

// RankRow is the performance of one rank slot. User counts are unique
// viewers; the know-more mean is a row mean over every row at the rank (a
// viewer has at most one row per rank per day, so no dedup is needed).
// Decision percentages are denominated against viewers who viewed at the
// rank, not against the rank's total.
type RankRow struct {
	Rank          int     `json:"rank"`
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

// RankResult is the rank performance table, ranks ascending. Only ranks with
// at least one row appear.
type RankResult struct {
	Ranks []RankRow `json:"ranks"`
}

// ComputeRanks builds the rank performance table over rows. It takes a row
// slice rather than a view so the tier matrix can re-invoke it restricted to
// one (viewer tier, candidate tier) cell.
func ComputeRanks(rows []Row) RankResult {
	byRank := make(map[int][]Row)
	for _, r := range rows {
		if r.M.Rank < minRank || r.M.Rank > maxRank {
			continue
		}
		byRank[r.M.Rank] = append(byRank[r.M.Rank], r)
	}

	res := RankResult{}
	for rank := minRank; rank <= maxRank; rank++ {
		rankRows, ok := byRank[rank]
		if !ok {
			continue
		}

		users := CountUsersWhere(rankRows, func(Row) bool { return true })
		viewed := CountUsersWhere(rankRows, func(r Row) bool { return r.M.Viewed })
		liked := CountUsersWhere(rankRows, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })
		disliked := CountUsersWhere(rankRows, func(r Row) bool { return r.M.Decision == domain.DecisionDisliked })
		passed := CountUsersWhere(rankRows, func(r Row) bool { return r.M.Decision == domain.DecisionPassed })

		km := make([]int, 0, len(rankRows))
		for _, r := range rankRows {
			km = append(km, r.M.KnowMoreCount)
		}

		res.Ranks = append(res.Ranks, RankRow{
			Rank:          rank,
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
		})
	}
	return res
}
