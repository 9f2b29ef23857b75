package repo

import (
	"context"
	"testing"
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func TestLastRefreshEmpty(t *testing.T) {
	db := testDB(t)

	entry, err := LastRefresh(context.Background(), db)
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if entry != nil {
		t.Fatalf("entry = %+v, want nil before any refresh", entry)
	}
}

func TestRecordAndLastRefresh(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := RecordRefresh(ctx, db, 10, 5, 1500*time.Millisecond); err != nil {
		t.Fatalf("RecordRefresh: %v", err)
	}
	if err := RecordRefresh(ctx, db, 20, 8, 2*time.Second); err != nil {
		t.Fatalf("RecordRefresh (second): %v", err)
	}

	entry, err := LastRefresh(ctx, db)
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if entry == nil || entry.MatchRows != 20 || entry.ProfileRows != 8 || entry.DurationMS != 2000 {
		t.Fatalf("entry = %+v, want the most recent refresh", entry)
	}
}

func TestDataStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := ReplaceMatches(ctx, db, []domain.MatchRecord{sampleMatch("m1", "u1", 0)}); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}
	if err := ReplaceProfiles(ctx, db, []domain.UserProfile{
		{UserID: "u1", Gender: domain.GenderMale, Tier: domain.Tier1},
		{UserID: "u2", Gender: domain.GenderFemale, Tier: domain.Tier2},
	}); err != nil {
		t.Fatalf("ReplaceProfiles: %v", err)
	}

	matches, profiles, err := DataStats(ctx, db)
	if err != nil {
		t.Fatalf("DataStats: %v", err)
	}
	if matches != 1 || profiles != 2 {
		t.Fatalf("stats = %d/%d, want 1/2", matches, profiles)
	}
}
