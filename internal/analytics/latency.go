package analytics

import (
	"math"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// latencyBucketEdges are the half-open [lo, hi) decision-latency intervals
// in minutes. The final bucket is unbounded.
var latencyBucketEdges = []struct {
	Lo, Hi float64
	Label  string
}{
	{0, 1, "<1m"},
	{1, 5, "1-5m"},
	{5, 30, "5-30m"},
	{30, 120, "30m-2h"},
	{120, 360, "2-6h"},
	{360, 1440, "6-24h"},
	{1440, math.Inf(1), "24h+"},
}

// LatencyBucket is one fixed latency interval with its unique-viewer count.
type LatencyBucket struct {
	Label string  `json:"label"`
	Users int     `json:"users"`
	Pct   float64 `json:"pct"`
}

// LatencyDistribution is the per-decision-kind bucketing of view-to-decision
// latency. Bucketing here is deliberately per event, not per user: within a
// bucket viewers are deduplicated, but a viewer whose matches land in
// different buckets appears in each of them, unlike the per-user rule used
// elsewhere. Mean and median are over all sampled events, in minutes.
type LatencyDistribution struct {
	Buckets       []LatencyBucket `json:"buckets"`
	MeanMinutes   float64         `json:"mean_minutes"`
	MedianMinutes float64         `json:"median_minutes"`
	Samples       int             `json:"samples"`
}

// LatencyResult holds the liked and the disliked/passed distributions, plus
// the count of rows dropped for negative latency (decision timestamp before
// the view timestamp). Those rows are malformed and excluded, but never
// silently: the counter is the diagnostic trace.
type LatencyResult struct {
	Liked               LatencyDistribution `json:"liked"`
	Rejected            LatencyDistribution `json:"rejected"`
	NegativeLatencyRows int                 `json:"negative_latency_rows"`
}

// ComputeLatency measures DecidedAt-ViewedAt for every row carrying both
// timestamps and a decision, and splits the samples into the liked and the
// disliked/passed distributions.
func ComputeLatency(v *View) LatencyResult {
	type sample struct {
		viewer  string
		minutes float64
	}
	var liked, rejected []sample
	res := LatencyResult{}

	for _, r := range v.Rows {
		if r.M.ViewedAt == nil || r.M.DecidedAt == nil || !r.M.Decision.Decided() {
			continue
		}
		minutes := r.M.DecidedAt.Sub(*r.M.ViewedAt).Minutes()
		if minutes < 0 {
			res.NegativeLatencyRows++
			continue
		}
		s := sample{viewer: r.M.ViewerID, minutes: minutes}
		switch {
		case r.M.Decision == domain.DecisionLiked:
			liked = append(liked, s)
		case r.M.Decision.Rejecting():
			rejected = append(rejected, s)
		}
	}

	build := func(samples []sample) LatencyDistribution {
		perBucket := make([]map[string]struct{}, len(latencyBucketEdges))
		var minutes []float64
		for _, s := range samples {
			for i, b := range latencyBucketEdges {
				if s.minutes >= b.Lo && s.minutes < b.Hi {
					if perBucket[i] == nil {
						perBucket[i] = make(map[string]struct{})
					}
					perBucket[i][s.viewer] = struct{}{}
					break
				}
			}
			minutes = append(minutes, s.minutes)
		}

		dist := LatencyDistribution{
			Buckets:       make([]LatencyBucket, len(latencyBucketEdges)),
			MeanMinutes:   meanFloats(minutes),
			MedianMinutes: medianFloats(minutes),
			Samples:       len(samples),
		}
		total := 0
		for i := range perBucket {
			total += len(perBucket[i])
		}
		for i, b := range latencyBucketEdges {
			dist.Buckets[i] = LatencyBucket{
				Label: b.Label,
				Users: len(perBucket[i]),
				Pct:   Percentage(len(perBucket[i]), total),
			}
		}
		return dist
	}

	res.Liked = build(liked)
	res.Rejected = build(rejected)
	return res
}
