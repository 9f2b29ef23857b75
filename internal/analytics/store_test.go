package analytics

import (
	"reflect"
	"testing"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func TestNewStoreRejectsMalformedRows(t *testing.T) {
	s := NewStore(
		[]domain.MatchRecord{
			match("m1", "u1", "c1", 0, 1),
			match("", "u1", "c2", 0, 2),
			match("m3", "", "c3", 0, 3),
			match("m4", "u2", "", 0, 4),
		},
		[]domain.UserProfile{
			profile("u1", domain.GenderMale, domain.Tier1),
			profile("", domain.GenderFemale, domain.Tier2),
			profile("u1", domain.GenderFemale, domain.Tier3),
		},
	)

	rep := s.Report()
	if rep.MatchesLoaded != 1 || rep.MatchesRejected != 3 {
		t.Fatalf("matches loaded=%d rejected=%d, want 1/3", rep.MatchesLoaded, rep.MatchesRejected)
	}
	if rep.ProfilesLoaded != 1 || rep.ProfilesRejected != 1 || rep.DuplicateProfiles != 1 {
		t.Fatalf("profiles loaded=%d rejected=%d dup=%d, want 1/1/1",
			rep.ProfilesLoaded, rep.ProfilesRejected, rep.DuplicateProfiles)
	}

	// Duplicate profiles keep the last row.
	g, tier := s.Profile("u1")
	if g != domain.GenderFemale || tier != domain.Tier3 {
		t.Fatalf("Profile(u1) = %s/%d, want female/3", g, tier)
	}
}

func TestStoreProfileUnknownFallback(t *testing.T) {
	s := NewStore(nil, []domain.UserProfile{
		profile("u1", "other", domain.Tier(7)),
	})

	g, tier := s.Profile("u1")
	if g != domain.GenderUnknown || tier != domain.TierUnknown {
		t.Fatalf("out-of-range attributes = %s/%d, want unknown/0", g, tier)
	}
	g, tier = s.Profile("missing")
	if g != domain.GenderUnknown || tier != domain.TierUnknown {
		t.Fatalf("missing profile = %s/%d, want unknown/0", g, tier)
	}
}

func TestAvailableDatesNewestFirst(t *testing.T) {
	s := NewStore([]domain.MatchRecord{
		match("m1", "u1", "c1", 2, 1),
		match("m2", "u1", "c2", 0, 2),
		match("m3", "u2", "c3", 2, 1),
		match("m4", "u2", "c4", 1, 2),
	}, nil)

	want := []string{dayKey(2), dayKey(1), dayKey(0)}
	if got := s.AvailableDates(); !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableDates() = %v, want %v", got, want)
	}
}

func TestFilterDates(t *testing.T) {
	matches := []domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1),
		match("m2", "u1", "c2", 1, 2),
		match("m3", "u2", "c3", 2, 1),
	}

	v := viewOf(matches, nil, Filter{Dates: []string{dayKey(2), dayKey(0), dayKey(2)}})
	if len(v.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(v.Rows))
	}
	if want := []string{dayKey(0), dayKey(2)}; !reflect.DeepEqual(v.Dates, want) {
		t.Fatalf("Dates = %v, want %v", v.Dates, want)
	}

	// A declared date with no rows stays in the active set.
	v = viewOf(matches, nil, Filter{Dates: []string{dayKey(0), dayKey(5)}})
	if len(v.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(v.Rows))
	}
	if want := []string{dayKey(0), dayKey(5)}; !reflect.DeepEqual(v.Dates, want) {
		t.Fatalf("Dates = %v, want %v", v.Dates, want)
	}

	// No date filter means every day present, ascending.
	v = viewOf(matches, nil, Filter{})
	if want := []string{dayKey(0), dayKey(1), dayKey(2)}; !reflect.DeepEqual(v.Dates, want) {
		t.Fatalf("Dates = %v, want %v", v.Dates, want)
	}
}

func TestFilterGenderAndTier(t *testing.T) {
	matches := []domain.MatchRecord{
		match("m1", "u1", "c1", 0, 1),
		match("m2", "u2", "c1", 0, 1),
		match("m3", "u3", "c1", 0, 1), // no profile row
	}
	profiles := []domain.UserProfile{
		profile("u1", domain.GenderMale, domain.Tier1),
		profile("u2", domain.GenderFemale, domain.Tier2),
		profile("c1", domain.GenderFemale, domain.Tier3),
	}

	tests := []struct {
		name string
		f    Filter
		want int
	}{
		{"any", Filter{}, 3},
		{"male", Filter{Gender: domain.GenderMale}, 1},
		{"female", Filter{Gender: domain.GenderFemale}, 1},
		{"tier2", Filter{Tier: domain.Tier2}, 1},
		{"male tier2", Filter{Gender: domain.GenderMale, Tier: domain.Tier2}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := viewOf(matches, profiles, tc.f)
			if len(v.Rows) != tc.want {
				t.Fatalf("rows = %d, want %d", len(v.Rows), tc.want)
			}
		})
	}
}

func TestFilterResolvesCandidateAttributes(t *testing.T) {
	v := viewOf(
		[]domain.MatchRecord{match("m1", "u1", "c1", 0, 1)},
		[]domain.UserProfile{
			profile("u1", domain.GenderMale, domain.Tier1),
			profile("c1", domain.GenderFemale, domain.Tier3),
		},
		Filter{},
	)
	r := v.Rows[0]
	if r.ViewerGender != domain.GenderMale || r.ViewerTier != domain.Tier1 {
		t.Fatalf("viewer attrs = %s/%d", r.ViewerGender, r.ViewerTier)
	}
	if r.CandidateGender != domain.GenderFemale || r.CandidateTier != domain.Tier3 {
		t.Fatalf("candidate attrs = %s/%d", r.CandidateGender, r.CandidateTier)
	}
}
