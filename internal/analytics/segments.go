package analytics

import "github.com/aryanBanwala/match-analytics/internal/domain"

// Segment is one of the four behavioral classes. Unlike every other metric
// in this package the classes form a strict partition: each viewer lands in
// exactly one, assigned in priority order Active, PassOnly, Ghost,
// NeverViewed.
type Segment string

const (
	// SegmentActive viewers liked at least one candidate.
	SegmentActive Segment = "active"
	// SegmentPassOnly viewers decided at least once but never liked.
	SegmentPassOnly Segment = "pass_only"
	// SegmentGhost viewers viewed at least one candidate and decided none.
	SegmentGhost Segment = "ghost"
	// SegmentNeverViewed viewers have rows but viewed none of them.
	SegmentNeverViewed Segment = "never_viewed"
)

// Segments lists the classes in priority order.
var Segments = []Segment{SegmentActive, SegmentPassOnly, SegmentGhost, SegmentNeverViewed}

// ParseSegment validates a segment name from an external caller.
func ParseSegment(s string) (Segment, bool) {
	switch Segment(s) {
	case SegmentActive, SegmentPassOnly, SegmentGhost, SegmentNeverViewed:
		return Segment(s), true
	}
	return "", false
}

// UserSegment is one classified viewer with the counters the class was
// derived from.
type UserSegment struct {
	ID      string  `json:"user_id"`
	Segment Segment `json:"segment"`

	Matches  int `json:"matches"`
	Viewed   int `json:"viewed"`
	Liked    int `json:"liked"`
	Disliked int `json:"disliked"`
	Passed   int `json:"passed"`
}

// ghostViewBuckets group ghost viewers by how many candidates they viewed
// without ever deciding.
var ghostViewBuckets = []struct {
	Label string
	Min   int
	Max   int // inclusive; -1 means open-ended
}{
	{"1-2", 1, 2},
	{"3-5", 3, 5},
	{"6-8", 6, 8},
	{"9+", 9, -1},
}

// GhostBucket counts ghost viewers per view-count band.
type GhostBucket struct {
	Views string  `json:"views"`
	Users int     `json:"users"`
	Pct   float64 `json:"pct"` // over ghost users
}

// PassOnlyBreakdown splits the pass-only class by what their rejections
// looked like.
type PassOnlyBreakdown struct {
	AllPassed   int `json:"all_passed"`
	AllDisliked int `json:"all_disliked"`
	Mixed       int `json:"mixed"`
}

// SegmentCount is one class in the partition table.
type SegmentCount struct {
	Segment Segment `json:"segment"`
	Users   int     `json:"users"`
	Pct     float64 `json:"pct"`
}

// SegmentsResult is the partition plus the ghost and pass-only drilldowns.
type SegmentsResult struct {
	Counts     []SegmentCount    `json:"counts"`
	TotalUsers int               `json:"total_users"`
	Ghost      []GhostBucket     `json:"ghost_buckets"`
	PassOnly   PassOnlyBreakdown `json:"pass_only"`
}

// classify assigns one viewer's rows to a segment by priority.
func classify(rows []Row) (Segment, UserSegment) {
	u := UserSegment{Matches: len(rows)}
	for _, r := range rows {
		if r.M.Viewed {
			u.Viewed++
		}
		switch r.M.Decision {
		case domain.DecisionLiked:
			u.Liked++
		case domain.DecisionDisliked:
			u.Disliked++
		case domain.DecisionPassed:
			u.Passed++
		}
	}
	switch {
	case u.Liked > 0:
		u.Segment = SegmentActive
	case u.Disliked > 0 || u.Passed > 0:
		u.Segment = SegmentPassOnly
	case u.Viewed > 0:
		u.Segment = SegmentGhost
	default:
		u.Segment = SegmentNeverViewed
	}
	return u.Segment, u
}

// ClassifySegments returns every viewer in the view with its class,
// ordered by user ID for stable output.
func ClassifySegments(v *View) []UserSegment {
	byViewer := groupByViewer(v.Rows)
	out := make([]UserSegment, 0, len(byViewer))
	for _, id := range sortedViewerIDs(byViewer) {
		_, u := classify(byViewer[id])
		u.ID = id
		out = append(out, u)
	}
	return out
}

// ComputeSegments partitions the view's viewers and builds the ghost
// view-count bands and the pass-only rejection breakdown.
func ComputeSegments(v *View) SegmentsResult {
	byViewer := groupByViewer(v.Rows)

	res := SegmentsResult{
		Counts:     make([]SegmentCount, len(Segments)),
		TotalUsers: len(byViewer),
		Ghost:      make([]GhostBucket, len(ghostViewBuckets)),
	}
	for i, s := range Segments {
		res.Counts[i].Segment = s
	}
	for i, b := range ghostViewBuckets {
		res.Ghost[i].Views = b.Label
	}

	counts := make(map[Segment]int, len(Segments))
	ghosts := 0
	for _, rows := range byViewer {
		seg, u := classify(rows)
		counts[seg]++
		switch seg {
		case SegmentGhost:
			ghosts++
			for i, b := range ghostViewBuckets {
				if u.Viewed >= b.Min && (b.Max < 0 || u.Viewed <= b.Max) {
					res.Ghost[i].Users++
					break
				}
			}
		case SegmentPassOnly:
			switch {
			case u.Disliked == 0:
				res.PassOnly.AllPassed++
			case u.Passed == 0:
				res.PassOnly.AllDisliked++
			default:
				res.PassOnly.Mixed++
			}
		}
	}

	for i, s := range Segments {
		res.Counts[i].Users = counts[s]
		res.Counts[i].Pct = Percentage(counts[s], res.TotalUsers)
	}
	for i := range res.Ghost {
		res.Ghost[i].Pct = Percentage(res.Ghost[i].Users, ghosts)
	}
	return res
}
