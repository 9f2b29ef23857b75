package domain

import (
	"testing"
	"time"
)

func TestTierKnown(t *testing.T) {
	cases := []struct {
		tier Tier
		want bool
	}{
		{TierUnknown, false},
		{Tier1, true},
		{Tier2, true},
		{Tier3, true},
		{Tier(4), false},
		{Tier(-1), false},
	}
	for _, tc := range cases {
		if got := tc.tier.Known(); got != tc.want {
			t.Fatalf("Tier(%d).Known() = %v; want %v", tc.tier, got, tc.want)
		}
	}
}

func TestDecisionPredicates(t *testing.T) {
	if DecisionNone.Decided() {
		t.Fatalf("empty decision must not count as decided")
	}
	for _, d := range []Decision{DecisionLiked, DecisionDisliked, DecisionPassed} {
		if !d.Decided() {
			t.Fatalf("%q should be decided", d)
		}
	}
	if DecisionLiked.Rejecting() {
		t.Fatalf("liked is not a rejection")
	}
	if !DecisionDisliked.Rejecting() || !DecisionPassed.Rejecting() {
		t.Fatalf("disliked and passed are rejections")
	}
}

func TestParseDecision(t *testing.T) {
	cases := []struct {
		in   string
		want Decision
	}{
		{"liked", DecisionLiked},
		{"disliked", DecisionDisliked},
		{"passed", DecisionPassed},
		{"", DecisionNone},
		{"superliked", DecisionNone},
		{"Liked", DecisionNone},
	}
	for _, tc := range cases {
		if got := ParseDecision(tc.in); got != tc.want {
			t.Fatalf("ParseDecision(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatchRecordDay_UTCNormalized(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	m := MatchRecord{CreatedAt: time.Date(2026, 8, 1, 23, 30, 0, 0, loc)}
	if got := m.Day(); got != "2026-08-02" {
		t.Fatalf("Day() = %q; want 2026-08-02", got)
	}
}

func TestTableNames(t *testing.T) {
	if got := (MatchRecord{}).TableName(); got != "user_matches" {
		t.Fatalf("MatchRecord table = %q", got)
	}
	if got := (UserProfile{}).TableName(); got != "user_metadata" {
		t.Fatalf("UserProfile table = %q", got)
	}
	if got := (RefreshLog{}).TableName(); got != "refresh_log" {
		t.Fatalf("RefreshLog table = %q", got)
	}
}
