package analytics

import "github.com/aryanBanwala/match-analytics/internal/domain"

// knowMoreBuckets label the per-viewer know-more totals. The last bucket is
// open-ended.
var knowMoreBuckets = []struct {
	Label string
	Min   int
	Max   int // inclusive; -1 means no upper bound
}{
	{"0", 0, 0},
	{"1", 1, 1},
	{"2", 2, 2},
	{"3+", 3, -1},
}

// KnowMoreRow is one bucket of viewers grouped by their total know-more
// taps across all their rows. The outcome columns count viewers who liked,
// disliked, or passed on at least one row; a viewer with mixed decisions
// appears in several columns, so the columns are not a partition of Users.
type KnowMoreRow struct {
	Bucket string  `json:"bucket"`
	Users  int     `json:"users"`
	Pct    float64 `json:"pct"`

	Liked      int `json:"liked"`
	Disliked   int `json:"disliked"`
	Passed     int `json:"passed"`
	NoDecision int `json:"no_decision"`

	LikePct float64 `json:"like_pct"` // liked over bucket users
}

// KnowMoreResult buckets viewers by know-more usage and correlates the
// buckets with eventual decisions.
type KnowMoreResult struct {
	Rows       []KnowMoreRow `json:"rows"`
	TotalUsers int           `json:"total_users"`
	// UsersWithTaps is the count of viewers with at least one tap.
	UsersWithTaps int     `json:"users_with_taps"`
	TapsPct       float64 `json:"taps_pct"`
}

// ComputeKnowMore sums know-more taps per viewer, places each viewer in
// exactly one bucket, and counts decision outcomes within every bucket.
func ComputeKnowMore(v *View) KnowMoreResult {
	byViewer := groupByViewer(v.Rows)

	res := KnowMoreResult{
		Rows:       make([]KnowMoreRow, len(knowMoreBuckets)),
		TotalUsers: len(byViewer),
	}
	for i, b := range knowMoreBuckets {
		res.Rows[i].Bucket = b.Label
	}

	for _, rows := range byViewer {
		total := 0
		liked, disliked, passed, decided := false, false, false, false
		for _, r := range rows {
			total += r.M.KnowMoreCount
			switch r.M.Decision {
			case domain.DecisionLiked:
				liked, decided = true, true
			case domain.DecisionDisliked:
				disliked, decided = true, true
			case domain.DecisionPassed:
				passed, decided = true, true
			}
		}
		if total > 0 {
			res.UsersWithTaps++
		}

		i := knowMoreBucketIndex(total)
		res.Rows[i].Users++
		if liked {
			res.Rows[i].Liked++
		}
		if disliked {
			res.Rows[i].Disliked++
		}
		if passed {
			res.Rows[i].Passed++
		}
		if !decided {
			res.Rows[i].NoDecision++
		}
	}

	for i := range res.Rows {
		res.Rows[i].Pct = Percentage(res.Rows[i].Users, res.TotalUsers)
		res.Rows[i].LikePct = Percentage(res.Rows[i].Liked, res.Rows[i].Users)
	}
	res.TapsPct = Percentage(res.UsersWithTaps, res.TotalUsers)
	return res
}

func knowMoreBucketIndex(total int) int {
	for i, b := range knowMoreBuckets {
		if total >= b.Min && (b.Max < 0 || total <= b.Max) {
			return i
		}
	}
	return len(knowMoreBuckets) - 1
}
