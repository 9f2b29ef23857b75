package analytics

import (
	"testing"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func knowMoreRow(t *testing.T, res KnowMoreResult, bucket string) KnowMoreRow {
	t.Helper()
	for _, r := range res.Rows {
		if r.Bucket == bucket {
			return r
		}
	}
	t.Fatalf("bucket %q not found", bucket)
	return KnowMoreRow{}
}

func TestComputeKnowMore(t *testing.T) {
	v := viewOf([]domain.MatchRecord{
		// u1: 1+2 taps across two rows, liked one and passed the other.
		match("m1", "u1", "c1", 0, 1, viewed(0, 9, 0), knowMore(1), decided(domain.DecisionLiked, 0, 9, 1)),
		match("m2", "u1", "c2", 0, 2, viewed(0, 9, 0), knowMore(2), decided(domain.DecisionPassed, 0, 9, 2)),
		// u2: one tap, no decision.
		match("m3", "u2", "c3", 0, 1, viewed(0, 9, 0), knowMore(1)),
		// u3: no taps, disliked.
		match("m4", "u3", "c4", 0, 1, viewed(0, 9, 0), decided(domain.DecisionDisliked, 0, 9, 1)),
		// u4: nothing at all.
		match("m5", "u4", "c5", 0, 1),
	}, nil, Filter{})

	res := ComputeKnowMore(v)

	if res.TotalUsers != 4 || res.UsersWithTaps != 2 || res.TapsPct != 50 {
		t.Fatalf("totals = %d users, %d with taps (%v%%), want 4/2/50", res.TotalUsers, res.UsersWithTaps, res.TapsPct)
	}

	// Taps sum per viewer, so u1's 1+2 lands in the open-ended bucket.
	b3 := knowMoreRow(t, res, "3+")
	if b3.Users != 1 || b3.Liked != 1 || b3.Passed != 1 {
		t.Fatalf("3+ bucket = %+v, want u1 in the liked and passed columns", b3)
	}
	if b3.LikePct != 100 {
		t.Fatalf("3+ like pct = %v, want 100", b3.LikePct)
	}

	b1 := knowMoreRow(t, res, "1")
	if b1.Users != 1 || b1.NoDecision != 1 {
		t.Fatalf("bucket 1 = %+v, want u2 undecided", b1)
	}

	b0 := knowMoreRow(t, res, "0")
	if b0.Users != 2 || b0.Disliked != 1 || b0.NoDecision != 1 {
		t.Fatalf("bucket 0 = %+v, want u3 disliked and u4 undecided", b0)
	}
	if b0.Pct != 50 {
		t.Fatalf("bucket 0 share = %v, want 50", b0.Pct)
	}
}

func TestKnowMoreBucketIndex(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{2, "2"},
		{3, "3+"},
		{17, "3+"},
	}
	for _, tc := range tests {
		if got := knowMoreBuckets[knowMoreBucketIndex(tc.total)].Label; got != tc.want {
			t.Errorf("bucket(%d) = %q, want %q", tc.total, got, tc.want)
		}
	}
}
