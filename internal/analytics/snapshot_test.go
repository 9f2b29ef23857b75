package analytics

import (
	"testing"
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func TestAssemble(t *testing.T) {
	matches := []domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0), decided(domain.DecisionLiked, 0, 9, 1)),
		match("m2", "u2", "c2", 0, 1, viewed(0, 10, 0)),
		match("m3", "u3", "c3", 1, 1),
	}
	profiles := []domain.UserProfile{
		profile("u1", domain.GenderMale, domain.Tier1),
		profile("u2", domain.GenderFemale, domain.Tier2),
		profile("u3", domain.GenderMale, domain.Tier2),
	}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

	snap := Assemble(viewOf(matches, profiles, Filter{}), now)

	if !snap.GeneratedAt.Equal(now) || snap.GeneratedAt.Location() != time.UTC {
		t.Fatalf("GeneratedAt = %v, want the same instant in UTC", snap.GeneratedAt)
	}
	if snap.Summary.TotalMatches != 3 || snap.Summary.TotalUsers != 3 || snap.Summary.Dates != 2 {
		t.Fatalf("summary = %+v", snap.Summary)
	}
	if snap.Summary.ViewRatePct != 66.7 {
		t.Fatalf("view rate = %v, want 66.7", snap.Summary.ViewRatePct)
	}
	// Like rate is over viewed rows.
	if snap.Summary.LikeRatePct != 50 {
		t.Fatalf("like rate = %v, want 50", snap.Summary.LikeRatePct)
	}

	// Gender-unpinned snapshots carry the male and female sub-views.
	if snap.Funnel.Male == nil || snap.Funnel.Female == nil {
		t.Fatal("funnel split missing gender sub-views")
	}
	if got := snap.Funnel.Male.Stages[0].Users; got != 2 {
		t.Fatalf("male funnel population = %d, want 2", got)
	}
	if got := snap.Funnel.Female.Stages[0].Users; got != 1 {
		t.Fatalf("female funnel population = %d, want 1", got)
	}
	if snap.Segments.Male == nil || snap.KnowMore.Female == nil {
		t.Fatal("segment/know-more splits missing gender sub-views")
	}
}

func TestAssembleWithPinnedGender(t *testing.T) {
	matches := []domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0)),
	}
	profiles := []domain.UserProfile{profile("u1", domain.GenderMale, domain.Tier1)}

	snap := Assemble(viewOf(matches, profiles, Filter{Gender: domain.GenderMale}), time.Now())

	if snap.Funnel.Male != nil || snap.Funnel.Female != nil {
		t.Fatal("pinned-gender snapshot should not carry gender sub-views")
	}
	if snap.Funnel.Global.Stages[0].Users != 1 {
		t.Fatalf("global funnel = %+v", snap.Funnel.Global.Stages[0])
	}
}

func TestAssembleEmptyStore(t *testing.T) {
	snap := Assemble(viewOf(nil, nil, Filter{}), time.Now())

	if snap.Summary.TotalMatches != 0 || snap.Summary.ViewRatePct != 0 {
		t.Fatalf("empty summary = %+v", snap.Summary)
	}
	if len(snap.Tiers.Viewer) != 3 {
		t.Fatalf("tier rows = %d, want all three even when empty", len(snap.Tiers.Viewer))
	}
	if len(snap.Ranks.Ranks) != 0 {
		t.Fatalf("ranks = %+v, want empty", snap.Ranks.Ranks)
	}
}
