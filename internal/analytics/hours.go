package analytics

import (
	"sort"
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// HourCount is one hour-of-day bucket with its unique-viewer count and share
// of the distribution's total.
type HourCount struct {
	Hour  int     `json:"hour"`
	Users int     `json:"users"`
	Pct   float64 `json:"pct"`
}

// HourDistribution is a 24-hour activity profile sorted by count descending
// (ties broken by hour ascending). Totals denominate per-hour shares; dead
// hours are present hours carrying less than 1% of the total.
type HourDistribution struct {
	Counts     []HourCount `json:"counts"`
	PeakHour   int         `json:"peak_hour"` // -1 when the distribution is empty
	Top3Pct    float64     `json:"top3_pct"`
	DeadHours  []int       `json:"dead_hours,omitempty"`
	TotalUsers int         `json:"total_users"`
}

// HoursResult groups the three hour-of-day distributions: when viewers view,
// when they like, and when they reject (dislike or pass).
type HoursResult struct {
	Views   HourDistribution `json:"views"`
	Likes   HourDistribution `json:"likes"`
	Rejects HourDistribution `json:"rejects"`
}

// ComputeHours builds the three hour distributions for the view. View hours
// come from ViewedAt; like and reject hours come from DecidedAt.
func ComputeHours(v *View) HoursResult {
	return HoursResult{
		Views: hourDistribution(v.Rows, func(r Row) *time.Time {
			if r.M.Viewed {
				return r.M.ViewedAt
			}
			return nil
		}),
		Likes: hourDistribution(v.Rows, func(r Row) *time.Time {
			if r.M.Decision == domain.DecisionLiked {
				return r.M.DecidedAt
			}
			return nil
		}),
		Rejects: hourDistribution(v.Rows, func(r Row) *time.Time {
			if r.M.Decision.Rejecting() {
				return r.M.DecidedAt
			}
			return nil
		}),
	}
}

// hourDistribution counts unique viewers per hour of the timestamp selected
// by at; rows where at returns nil are skipped.
func hourDistribution(rows []Row, at func(Row) *time.Time) HourDistribution {
	perHour := make(map[int]map[string]struct{})
	for _, r := range rows {
		ts := at(r)
		if ts == nil {
			continue
		}
		h := ts.UTC().Hour()
		if perHour[h] == nil {
			perHour[h] = make(map[string]struct{})
		}
		perHour[h][r.M.ViewerID] = struct{}{}
	}

	dist := HourDistribution{PeakHour: -1}
	for h, users := range perHour {
		dist.Counts = append(dist.Counts, HourCount{Hour: h, Users: len(users)})
		dist.TotalUsers += len(users)
	}
	sort.Slice(dist.Counts, func(i, j int) bool {
		if dist.Counts[i].Users != dist.Counts[j].Users {
			return dist.Counts[i].Users > dist.Counts[j].Users
		}
		return dist.Counts[i].Hour < dist.Counts[j].Hour
	})

	if len(dist.Counts) == 0 {
		return dist
	}

	dist.PeakHour = dist.Counts[0].Hour
	top3 := 0
	for i := range dist.Counts {
		pct := Percentage(dist.Counts[i].Users, dist.TotalUsers)
		dist.Counts[i].Pct = pct
		if i < 3 {
			top3 += dist.Counts[i].Users
		}
		if pct < 1 {
			dist.DeadHours = append(dist.DeadHours, dist.Counts[i].Hour)
		}
	}
	sort.Ints(dist.DeadHours)
	dist.Top3Pct = Percentage(top3, dist.TotalUsers)
	return dist
}
