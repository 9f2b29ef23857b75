package analytics

import (
	"time"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

var day0 = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func dayKey(day int) string {
	return day0.AddDate(0, 0, day).Format(domain.DayLayout)
}

func ts(day, hour, min int) *time.Time {
	t := day0.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	return &t
}

type matchOpt func(*domain.MatchRecord)

func viewed(day, hour, min int) matchOpt {
	return func(m *domain.MatchRecord) {
		m.Viewed = true
		m.ViewedAt = ts(day, hour, min)
	}
}

func decided(d domain.Decision, day, hour, min int) matchOpt {
	return func(m *domain.MatchRecord) {
		m.Decision = d
		m.DecidedAt = ts(day, hour, min)
	}
}

func knowMore(n int) matchOpt {
	return func(m *domain.MatchRecord) { m.KnowMoreCount = n }
}

func match(id, viewer, candidate string, day, rank int, opts ...matchOpt) domain.MatchRecord {
	m := domain.MatchRecord{
		ID:          id,
		ViewerID:    viewer,
		CandidateID: candidate,
		Rank:        rank,
		CreatedAt:   day0.AddDate(0, 0, day),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func profile(id string, g domain.Gender, t domain.Tier) domain.UserProfile {
	return domain.UserProfile{UserID: id, Gender: g, Tier: t}
}

func viewOf(matches []domain.MatchRecord, profiles []domain.UserProfile, f Filter) *View {
	return NewStore(matches, profiles).Filter(f)
}
