package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryanBanwala/match-analytics/internal/config"
	"github.com/aryanBanwala/match-analytics/internal/domain"
)

func testConfig(url string) config.SupabaseConfig {
	return config.SupabaseConfig{
		URL:          url,
		Key:          "test-key",
		MatchTable:   "user_matches",
		ProfileTable: "user_metadata",
		BatchSize:    2,
		FetchRPS:     1000, // effectively unthrottled in tests
		Timeout:      5 * time.Second,
	}
}

// fakeTable serves a PostgREST-ish endpoint: exact count on a 0-0 range,
// row slices on wider ranges.
func fakeTable(t *testing.T, table string, rows []map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/"+table) {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "test-key" || r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		lo, hi := 0, len(rows)-1
		if rng := r.Header.Get("Range"); rng != "" {
			fmt.Sscanf(rng, "%d-%d", &lo, &hi)
		}

		if r.Header.Get("Prefer") == "count=exact" {
			w.Header().Set("Content-Range", fmt.Sprintf("0-0/%d", len(rows)))
			w.WriteHeader(http.StatusPartialContent)
			fmt.Fprint(w, "[]")
			return
		}

		if lo > len(rows) {
			lo = len(rows)
		}
		if hi >= len(rows) {
			hi = len(rows) - 1
		}
		var page []map[string]any
		if lo <= hi {
			page = rows[lo : hi+1]
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			t.Errorf("encode page: %v", err)
		}
	}
}

func matchJSON(i int) map[string]any {
	return map[string]any{
		"match_id":        "m" + strconv.Itoa(i),
		"current_user_id": "u1",
		"matched_user_id": "c" + strconv.Itoa(i),
		"rank":            i + 1,
		"is_viewed":       true,
		"viewed_at":       "2026-08-01T09:00:00Z",
		"is_liked":        "liked",
		"liked_at":        "2026-08-01T09:05:00Z",
		"know_more_count": i,
		"origin_phase":    "daily",
		"created_at":      "2026-08-01T00:00:00Z",
	}
}

func TestFetchMatchesPagination(t *testing.T) {
	rows := make([]map[string]any, 5)
	for i := range rows {
		rows[i] = matchJSON(i)
	}
	srv := httptest.NewServer(fakeTable(t, "user_matches", rows))
	defer srv.Close()

	c := New(testConfig(srv.URL), zerolog.Nop())

	var calls []int
	got, err := c.FetchMatches(context.Background(), func(fetched, total int) {
		if total != 5 {
			t.Errorf("progress total = %d, want 5", total)
		}
		calls = append(calls, fetched)
	})
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("fetched %d rows, want 5", len(got))
	}

	// Batch size 2 over 5 rows: pages of 2, 2, 1.
	wantCalls := []int{0, 2, 4, 5}
	if len(calls) != len(wantCalls) {
		t.Fatalf("progress calls = %v, want %v", calls, wantCalls)
	}
	for i, w := range wantCalls {
		if calls[i] != w {
			t.Fatalf("progress calls = %v, want %v", calls, wantCalls)
		}
	}

	m := got[0]
	if m.ID != "m0" || m.ViewerID != "u1" || m.CandidateID != "c0" || m.Rank != 1 {
		t.Fatalf("row mapping = %+v", m)
	}
	if m.Decision != domain.DecisionLiked || m.DecidedAt == nil || m.ViewedAt == nil {
		t.Fatalf("decision mapping = %+v", m)
	}
	if m.CreatedAt.Format(domain.DayLayout) != "2026-08-01" {
		t.Fatalf("created_at = %v", m.CreatedAt)
	}
}

// The remote names its decision columns is_liked and liked_at; make sure
// they land on Decision and DecidedAt, and that values outside the known
// decision set load as undecided.
func TestFetchMatchesDecisionColumns(t *testing.T) {
	rows := []map[string]any{
		func() map[string]any {
			r := matchJSON(0)
			r["is_liked"] = "disliked"
			return r
		}(),
		func() map[string]any {
			r := matchJSON(1)
			r["is_liked"] = "superliked"
			r["liked_at"] = nil
			return r
		}(),
	}
	srv := httptest.NewServer(fakeTable(t, "user_matches", rows))
	defer srv.Close()

	c := New(testConfig(srv.URL), zerolog.Nop())
	got, err := c.FetchMatches(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("fetched %d rows, want 2", len(got))
	}
	if got[0].Decision != domain.DecisionDisliked || got[0].DecidedAt == nil {
		t.Fatalf("decision columns dropped: %+v", got[0])
	}
	if got[0].DecidedAt.Format(time.RFC3339) != "2026-08-01T09:05:00Z" {
		t.Fatalf("liked_at = %v", got[0].DecidedAt)
	}
	if got[1].Decision != domain.DecisionNone || got[1].Decision.Decided() {
		t.Fatalf("unknown decision value should load as undecided, got %+v", got[1])
	}
}

func TestFetchProfilesMapping(t *testing.T) {
	rows := []map[string]any{
		{"user_id": "u1", "gender": "Male", "professional_tier": 2},
		{"user_id": "u2", "gender": "female", "professional_tier": 0},
	}
	srv := httptest.NewServer(fakeTable(t, "user_metadata", rows))
	defer srv.Close()

	c := New(testConfig(srv.URL), zerolog.Nop())
	got, err := c.FetchProfiles(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchProfiles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("fetched %d rows, want 2", len(got))
	}
	// Gender is lowercased on the way in.
	if got[0].Gender != domain.GenderMale || got[0].Tier != domain.Tier2 {
		t.Fatalf("profile mapping = %+v", got[0])
	}
	if got[1].Tier != domain.TierUnknown {
		t.Fatalf("tier 0 should map to unknown, got %+v", got[1])
	}
}

func TestFetchEmptyTable(t *testing.T) {
	srv := httptest.NewServer(fakeTable(t, "user_matches", nil))
	defer srv.Close()

	c := New(testConfig(srv.URL), zerolog.Nop())
	got, err := c.FetchMatches(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fetched %d rows from empty table", len(got))
	}
}

func TestFetchNotConfigured(t *testing.T) {
	c := New(config.SupabaseConfig{BatchSize: 100, FetchRPS: 1, Timeout: time.Second}, zerolog.Nop())
	if c.Configured() {
		t.Fatal("empty client reports configured")
	}
	if _, err := c.FetchMatches(context.Background(), nil); err != ErrNotConfigured {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "overloaded")
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), zerolog.Nop())
	_, err := c.FetchMatches(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("err = %v, want upstream status 503", err)
	}
}
