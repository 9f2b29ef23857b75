package analytics

import (
	"testing"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func datesFixture() *View {
	return viewOf([]domain.MatchRecord{
		// Day 0: u1 and u2 engage, u3 gets rows but does nothing.
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0), decided(domain.DecisionLiked, 0, 9, 1)),
		match("m2", "u2", "c2", 0, 1, viewed(0, 10, 0)),
		match("m3", "u3", "c3", 0, 1),
		// Day 1: u1 returns, u4 appears for the first time.
		match("m4", "u1", "c4", 1, 1, viewed(1, 9, 0), decided(domain.DecisionDisliked, 1, 9, 1)),
		match("m5", "u4", "c5", 1, 1, viewed(1, 9, 0)),
		// Day 2: only u1.
		match("m6", "u1", "c6", 2, 1, viewed(2, 9, 0), decided(domain.DecisionPassed, 2, 9, 1)),
	}, nil, Filter{})
}

func TestComputeDatesTimeline(t *testing.T) {
	res := ComputeDates(datesFixture())

	if len(res.Timeline) != 3 {
		t.Fatalf("timeline = %d rows, want 3", len(res.Timeline))
	}

	d0 := res.Timeline[0]
	if d0.Date != dayKey(0) || d0.ActiveUsers != 3 || d0.ViewedUsers != 2 || d0.LikedUsers != 1 {
		t.Fatalf("day 0 = %+v", d0)
	}
	if d0.Matches != 3 || d0.ViewedRows != 2 || d0.ViewPct != 66.7 {
		t.Fatalf("day 0 rows = %+v", d0)
	}
	if d0.LikePct != 50 {
		t.Fatalf("day 0 like pct = %v, want 50 (over viewed rows)", d0.LikePct)
	}
	if d0.Display != "Aug 01 (Sat)" {
		t.Fatalf("day 0 display = %q", d0.Display)
	}

	if len(res.DayOverDay) != 2 {
		t.Fatalf("day-over-day = %d rows, want 2", len(res.DayOverDay))
	}
	dod := res.DayOverDay[0]
	if dod.Date != dayKey(1) || dod.MatchesChangePct != -33.3 || dod.UsersChangePct != -33.3 {
		t.Fatalf("day-over-day[0] = %+v", dod)
	}

	s := res.Summary
	if s.TotalMatches != 6 || s.TotalUsers != 4 {
		t.Fatalf("summary totals = %d/%d, want 6/4", s.TotalMatches, s.TotalUsers)
	}
	if s.AvgDailyMatches != 2 || s.PeakMatchesDate != dayKey(0) {
		t.Fatalf("summary = %+v", s)
	}
}

func TestComputeDatesRetention(t *testing.T) {
	res := ComputeDates(datesFixture())
	r := res.Retention

	// N=3 selected dates yields buckets 0..3.
	if len(r.Buckets) != 4 {
		t.Fatalf("buckets = %d, want 4", len(r.Buckets))
	}

	// u3 never engaged (bucket 0), u2 and u4 engaged once, u1 on all three.
	want := []int{1, 2, 0, 1}
	sum := 0
	for i, b := range r.Buckets {
		if b.ActiveDates != i || b.Users != want[i] {
			t.Fatalf("bucket %d = %+v, want %d users", i, b, want[i])
		}
		sum += b.Users
	}
	if sum != 4 {
		t.Fatalf("bucket sum = %d, want the full population 4", sum)
	}

	if r.Loyal != 1 || r.OneTime != 2 {
		t.Fatalf("loyal=%d oneTime=%d, want 1/2", r.Loyal, r.OneTime)
	}
	// u2 engaged on the first date only; u4 only later.
	if r.Churned != 1 || r.LateAdopters != 1 {
		t.Fatalf("churned=%d lateAdopters=%d, want 1/1", r.Churned, r.LateAdopters)
	}
}

func TestRetentionChurnedNeedsTwoDates(t *testing.T) {
	v := viewOf([]domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0)),
	}, nil, Filter{Dates: []string{dayKey(0)}})

	r := ComputeDates(v).Retention
	if r.Churned != 0 {
		t.Fatalf("churned over a single date = %d, want 0", r.Churned)
	}
	if r.Loyal != 1 || r.OneTime != 1 {
		t.Fatalf("single date loyal=%d oneTime=%d, want 1/1", r.Loyal, r.OneTime)
	}
}

func TestComputeDatesOverlap(t *testing.T) {
	res := ComputeDates(datesFixture())
	o := res.Overlap

	if len(o.Dates) != 3 || len(o.Cells) != 3 {
		t.Fatalf("overlap = %d dates, %d rows", len(o.Dates), len(o.Cells))
	}

	// The diagonal equals each day's engaged-user count.
	wantDiag := []int{2, 2, 1}
	for i, w := range wantDiag {
		if o.Cells[i][i] != w {
			t.Fatalf("diagonal[%d] = %d, want %d", i, o.Cells[i][i], w)
		}
	}

	// u1 is the only viewer engaged on both day 0 and day 1.
	if o.Cells[0][1] != 1 || o.Cells[1][0] != 1 {
		t.Fatalf("cells (0,1)/(1,0) = %d/%d, want symmetric 1", o.Cells[0][1], o.Cells[1][0])
	}
	if o.Cells[0][2] != 1 || o.Cells[1][2] != 1 {
		t.Fatalf("overlaps with day 2 = %d/%d, want 1/1", o.Cells[0][2], o.Cells[1][2])
	}
}

func TestComputeDatesKeepsEmptyDeclaredDates(t *testing.T) {
	v := viewOf([]domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0)),
	}, nil, Filter{Dates: []string{dayKey(0), dayKey(1)}})

	res := ComputeDates(v)
	if len(res.Timeline) != 2 {
		t.Fatalf("timeline = %d rows, want the declared 2", len(res.Timeline))
	}
	if res.Timeline[1].Matches != 0 || res.Timeline[1].ActiveUsers != 0 {
		t.Fatalf("empty declared day = %+v, want zeros", res.Timeline[1])
	}
	if len(res.Retention.Buckets) != 3 {
		t.Fatalf("retention buckets = %d, want 0..2", len(res.Retention.Buckets))
	}
	if len(res.Overlap.Cells) != 2 || res.Overlap.Cells[1][1] != 0 {
		t.Fatalf("overlap = %+v, want a zero row for the empty day", res.Overlap)
	}
}
