package analytics

import (
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// DateRow is one day of the engagement timeline. The three user series
// (active, viewed, liked) are unique-viewer counts; the row counters and
// their rates mirror the daily breakdown table. Rates are view% over the
// day's rows and decision% over the day's viewed rows.
type DateRow struct {
	Date    string `json:"date"`
	Display string `json:"display"` // e.g. "Aug 28 (Thu)"

	ActiveUsers int `json:"active_users"`
	ViewedUsers int `json:"viewed_users"`
	LikedUsers  int `json:"liked_users"`

	Matches      int     `json:"matches"`
	ViewedRows   int     `json:"viewed_rows"`
	ViewPct      float64 `json:"view_pct"`
	LikedRows    int     `json:"liked_rows"`
	LikePct      float64 `json:"like_pct"`
	DislikedRows int     `json:"disliked_rows"`
	DislikePct   float64 `json:"dislike_pct"`
	PassedRows   int     `json:"passed_rows"`
	PassPct      float64 `json:"pass_pct"`
}

// DayOverDay is the delta row between a day and its predecessor. Volume
// changes are percentages; rate changes are percentage-point deltas.
type DayOverDay struct {
	Date             string  `json:"date"`
	MatchesChangePct float64 `json:"matches_change_pct"`
	UsersChangePct   float64 `json:"users_change_pct"`
	ViewRateDeltaPP  float64 `json:"view_rate_delta_pp"`
	LikeRateDeltaPP  float64 `json:"like_rate_delta_pp"`
}

// PeriodSummary aggregates the selected period: totals, daily averages, and
// peak days.
type PeriodSummary struct {
	TotalMatches     int     `json:"total_matches"`
	TotalUsers       int     `json:"total_users"`
	AvgDailyMatches  float64 `json:"avg_daily_matches"`
	AvgDailyUsers    float64 `json:"avg_daily_users"`
	PeakMatchesDate  string  `json:"peak_matches_date,omitempty"`
	PeakUsersDate    string  `json:"peak_users_date,omitempty"`
	PeakLikeRateDate string  `json:"peak_like_rate_date,omitempty"`
}

// RetentionBucket counts viewers engaged on exactly ActiveDates of the
// selected dates. Buckets run 0..N where N is the size of the active date
// set; their arity is derived from the filter at runtime, never fixed.
type RetentionBucket struct {
	ActiveDates int     `json:"active_dates"`
	Users       int     `json:"users"`
	Pct         float64 `json:"pct"`
}

// RetentionResult buckets viewers by how many selected dates they engaged
// on (engagement = viewed or decided on a match created that day). The
// named segments are derived from the same per-viewer date sets, not
// independently computed.
type RetentionResult struct {
	Buckets []RetentionBucket `json:"buckets"` // index == active-date count, 0..N

	// Loyal: engaged on every selected date.
	Loyal int `json:"loyal"`
	// Churned: engaged on the earliest selected date and on none after it.
	// Requires at least two selected dates, otherwise zero.
	Churned int `json:"churned"`
	// LateAdopters: not engaged on the earliest date but engaged later.
	LateAdopters int `json:"late_adopters"`
	// OneTime: engaged on exactly one date.
	OneTime int `json:"one_time"`
}

// OverlapMatrix is the NxN symmetric active-viewer overlap table over the
// selected dates ascending. Cell (i,i) is the engaged-viewer count on date
// i; cell (i,j) is the size of the intersection of the engaged sets of
// dates i and j.
type OverlapMatrix struct {
	Dates []string `json:"dates"`
	Cells [][]int  `json:"cells"`
}

// DatesResult is the full date-wise engagement metric.
type DatesResult struct {
	Timeline   []DateRow       `json:"timeline"`
	DayOverDay []DayOverDay    `json:"day_over_day,omitempty"`
	Summary    PeriodSummary   `json:"summary"`
	Retention  RetentionResult `json:"retention"`
	Overlap    OverlapMatrix   `json:"overlap"`
}

// engagedOn reports whether a row counts as engagement for retention and
// overlap purposes: the viewer viewed it or decided on it.
func engagedOn(r Row) bool { return r.M.Viewed || r.M.Decision.Decided() }

// ComputeDates builds the timeline, retention buckets, derived segments,
// and the overlap matrix for the view's active date set. Dates with no rows
// stay in every table as zero rows so the declared N is preserved.
func ComputeDates(v *View) DatesResult {
	byDay := make(map[string][]Row, len(v.Dates))
	for _, r := range v.Rows {
		d := r.Day()
		byDay[d] = append(byDay[d], r)
	}

	res := DatesResult{
		Timeline: make([]DateRow, 0, len(v.Dates)),
	}

	// Per-date engaged-viewer sets feed retention and the overlap matrix;
	// they are built once, not rescanned per cell.
	engaged := make([]map[string]struct{}, len(v.Dates))

	for i, d := range v.Dates {
		rows := byDay[d]
		engaged[i] = ViewersWhere(rows, engagedOn)

		matches := len(rows)
		viewedRows := Count(rows, ByRow, func(r Row) bool { return r.M.Viewed })
		likedRows := Count(rows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionLiked })
		dislikedRows := Count(rows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionDisliked })
		passedRows := Count(rows, ByRow, func(r Row) bool { return r.M.Decision == domain.DecisionPassed })

		res.Timeline = append(res.Timeline, DateRow{
			Date:         d,
			Display:      displayDate(d),
			ActiveUsers:  CountUsersWhere(rows, func(Row) bool { return true }),
			ViewedUsers:  CountUsersWhere(rows, func(r Row) bool { return r.M.Viewed }),
			LikedUsers:   CountUsersWhere(rows, func(r Row) bool { return r.M.Decision == domain.DecisionLiked }),
			Matches:      matches,
			ViewedRows:   viewedRows,
			ViewPct:      Percentage(viewedRows, matches),
			LikedRows:    likedRows,
			LikePct:      Percentage(likedRows, viewedRows),
			DislikedRows: dislikedRows,
			DislikePct:   Percentage(dislikedRows, viewedRows),
			PassedRows:   passedRows,
			PassPct:      Percentage(passedRows, viewedRows),
		})
	}

	res.DayOverDay = dayOverDay(res.Timeline)
	res.Summary = periodSummary(v, res.Timeline)
	res.Retention = retention(v, engaged)
	res.Overlap = overlap(v.Dates, engaged)
	return res
}

func dayOverDay(timeline []DateRow) []DayOverDay {
	if len(timeline) < 2 {
		return nil
	}
	out := make([]DayOverDay, 0, len(timeline)-1)
	for i := 1; i < len(timeline); i++ {
		prev, curr := timeline[i-1], timeline[i]
		out = append(out, DayOverDay{
			Date:             curr.Date,
			MatchesChangePct: changePct(prev.Matches, curr.Matches),
			UsersChangePct:   changePct(prev.ActiveUsers, curr.ActiveUsers),
			ViewRateDeltaPP:  round1(curr.ViewPct - prev.ViewPct),
			LikeRateDeltaPP:  round1(curr.LikePct - prev.LikePct),
		})
	}
	return out
}

// changePct is the relative change from prev to curr, 0 when prev is 0.
func changePct(prev, curr int) float64 {
	if prev == 0 {
		return 0
	}
	return round1(float64(curr-prev) / float64(prev) * 100)
}

func periodSummary(v *View, timeline []DateRow) PeriodSummary {
	s := PeriodSummary{
		TotalUsers: CountUsersWhere(v.Rows, func(Row) bool { return true }),
	}
	if len(timeline) == 0 {
		return s
	}

	usersSum := 0
	peakMatches, peakUsers, peakLike := timeline[0], timeline[0], timeline[0]
	for _, row := range timeline {
		s.TotalMatches += row.Matches
		usersSum += row.ActiveUsers
		if row.Matches > peakMatches.Matches {
			peakMatches = row
		}
		if row.ActiveUsers > peakUsers.ActiveUsers {
			peakUsers = row
		}
		if row.LikePct > peakLike.LikePct {
			peakLike = row
		}
	}
	n := float64(len(timeline))
	s.AvgDailyMatches = round1(float64(s.TotalMatches) / n)
	s.AvgDailyUsers = round1(float64(usersSum) / n)
	s.PeakMatchesDate = peakMatches.Date
	s.PeakUsersDate = peakUsers.Date
	s.PeakLikeRateDate = peakLike.Date
	return s
}

func retention(v *View, engaged []map[string]struct{}) RetentionResult {
	n := len(v.Dates)
	res := RetentionResult{Buckets: make([]RetentionBucket, n+1)}
	for i := range res.Buckets {
		res.Buckets[i].ActiveDates = i
	}

	// Engaged-date count per viewer over the whole population (any row at
	// all, engaged or not — idle viewers land in bucket 0).
	population := ViewersWhere(v.Rows, func(Row) bool { return true })
	counts := make(map[string]int, len(population))
	firstDate := make(map[string]bool) // engaged on the earliest date
	laterDate := make(map[string]bool) // engaged on any later date
	for i, set := range engaged {
		for id := range set {
			counts[id]++
			if i == 0 {
				firstDate[id] = true
			} else {
				laterDate[id] = true
			}
		}
	}

	for id := range population {
		c := counts[id]
		res.Buckets[c].Users++
		switch {
		case c == 0:
			continue
		case c == n:
			res.Loyal++
		}
		if c == 1 {
			res.OneTime++
		}
		if n >= 2 && firstDate[id] && !laterDate[id] {
			res.Churned++
		}
		if !firstDate[id] && laterDate[id] {
			res.LateAdopters++
		}
	}

	for i := range res.Buckets {
		res.Buckets[i].Pct = Percentage(res.Buckets[i].Users, len(population))
	}
	return res
}

func overlap(dates []string, engaged []map[string]struct{}) OverlapMatrix {
	m := OverlapMatrix{
		Dates: append([]string(nil), dates...),
		Cells: make([][]int, len(dates)),
	}
	for i := range dates {
		m.Cells[i] = make([]int, len(dates))
		m.Cells[i][i] = len(engaged[i])
		for j := 0; j < i; j++ {
			n := intersectionSize(engaged[i], engaged[j])
			m.Cells[i][j] = n
			m.Cells[j][i] = n
		}
	}
	return m
}

// intersectionSize iterates the smaller set, keeping the matrix cost at
// O(N^2 x average set size) instead of O(N^2 x total rows).
func intersectionSize(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}

// displayDate renders a day key as "Aug 28 (Thu)"; unparseable keys pass
// through unchanged.
func displayDate(day string) string {
	t, err := time.Parse(domain.DayLayout, day)
	if err != nil {
		return day
	}
	return t.Format("Jan 02 (Mon)")
}
