// Package supabase implements the read-only PostgREST client used to pull
// match rows and user profiles from the remote store. Fetches are paged with
// Range headers after an exact count, and paced with a token-bucket limiter
// so a full pull cannot hammer the upstream API.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aryanBanwala/match-analytics/internal/config"
	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// ErrNotConfigured is returned when the client is used without a project URL
// and API key.
var ErrNotConfigured = errors.New("supabase: url and key not configured")

// Progress reports fetch progress after each page: rows fetched so far and
// the total reported by the upstream count.
type Progress = func(fetched, total int)

// Client is a paged PostgREST reader. It is safe for concurrent use; the
// limiter paces all requests across goroutines.
type Client struct {
	baseURL      string
	key          string
	matchTable   string
	profileTable string
	batchSize    int

	httpc   *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New builds a client from configuration. A client with an empty URL or key
// is still returned; Configured reports false and fetches fail with
// ErrNotConfigured, so a server without credentials can boot and serve the
// local snapshot.
func New(cfg config.SupabaseConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		key:          cfg.Key,
		matchTable:   cfg.MatchTable,
		profileTable: cfg.ProfileTable,
		batchSize:    cfg.BatchSize,
		httpc:        &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(cfg.FetchRPS), 1),
		log:          log,
	}
}

// Configured reports whether the client has a URL and key to talk to.
func (c *Client) Configured() bool { return c.baseURL != "" && c.key != "" }

// matchRow is the wire shape of one remote match row.
type matchRow struct {
	MatchID       string     `json:"match_id"`
	CurrentUserID string     `json:"current_user_id"`
	MatchedUserID string     `json:"matched_user_id"`
	Rank          int        `json:"rank"`
	IsViewed      bool       `json:"is_viewed"`
	ViewedAt      *time.Time `json:"viewed_at"`
	IsLiked       string     `json:"is_liked"`
	LikedAt       *time.Time `json:"liked_at"`
	KnowMoreCount int        `json:"know_more_count"`
	OriginPhase   string     `json:"origin_phase"`
	CreatedAt     time.Time  `json:"created_at"`
}

// profileRow is the wire shape of one remote user profile.
type profileRow struct {
	UserID           string `json:"user_id"`
	Gender           string `json:"gender"`
	ProfessionalTier int    `json:"professional_tier"`
}

// FetchMatches pulls every match row from the remote table, ordered by
// created_at so pagination stays stable across pages.
func (c *Client) FetchMatches(ctx context.Context, progress Progress) ([]domain.MatchRecord, error) {
	rows, err := fetchAll[matchRow](ctx, c, c.matchTable, "created_at.asc", progress)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MatchRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.MatchRecord{
			ID:            r.MatchID,
			ViewerID:      r.CurrentUserID,
			CandidateID:   r.MatchedUserID,
			Rank:          r.Rank,
			Viewed:        r.IsViewed,
			ViewedAt:      r.ViewedAt,
			Decision:      domain.ParseDecision(r.IsLiked),
			DecidedAt:     r.LikedAt,
			KnowMoreCount: r.KnowMoreCount,
			OriginPhase:   r.OriginPhase,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// FetchProfiles pulls every user profile row from the remote table.
func (c *Client) FetchProfiles(ctx context.Context, progress Progress) ([]domain.UserProfile, error) {
	rows, err := fetchAll[profileRow](ctx, c, c.profileTable, "user_id.asc", progress)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserProfile, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.UserProfile{
			UserID: r.UserID,
			Gender: domain.Gender(strings.ToLower(r.Gender)),
			Tier:   domain.Tier(r.ProfessionalTier),
		})
	}
	return out, nil
}

// fetchAll counts the table, then pages through it with Range headers.
func fetchAll[T any](ctx context.Context, c *Client, table, order string, progress Progress) ([]T, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	total, err := c.count(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}
	if progress != nil {
		progress(0, total)
	}

	out := make([]T, 0, total)
	for lo := 0; lo < total; lo += c.batchSize {
		hi := lo + c.batchSize - 1
		if hi >= total {
			hi = total - 1
		}

		var page []T
		if err := c.getPage(ctx, table, order, lo, hi, &page); err != nil {
			return nil, fmt.Errorf("fetch %s rows %d-%d: %w", table, lo, hi, err)
		}
		out = append(out, page...)
		if progress != nil {
			progress(len(out), total)
		}
		c.log.Debug().
			Str("table", table).
			Int("fetched", len(out)).
			Int("total", total).
			Msg("supabase page fetched")

		// Upstream shrank under us; stop instead of requesting past the end.
		if len(page) == 0 {
			break
		}
	}
	return out, nil
}

// count asks PostgREST for the exact table size via a zero-row ranged GET.
func (c *Client) count(ctx context.Context, table string) (int, error) {
	req, err := c.newRequest(ctx, table, "")
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range", "0-0")

	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Content-Range looks like "0-0/1234" ("*/0" for an empty table).
	cr := resp.Header.Get("Content-Range")
	i := strings.LastIndexByte(cr, '/')
	if i < 0 {
		return 0, fmt.Errorf("missing Content-Range total in %q", cr)
	}
	total, err := strconv.Atoi(cr[i+1:])
	if err != nil {
		return 0, fmt.Errorf("bad Content-Range total in %q", cr)
	}
	return total, nil
}

// getPage fetches one Range window into dst.
func (c *Client) getPage(ctx context.Context, table, order string, lo, hi int, dst any) error {
	req, err := c.newRequest(ctx, table, order)
	if err != nil {
		return err
	}
	req.Header.Set("Range", fmt.Sprintf("%d-%d", lo, hi))

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) newRequest(ctx context.Context, table, order string) (*http.Request, error) {
	u := c.baseURL + "/rest/v1/" + table + "?select=*"
	if order != "" {
		u += "&order=" + order
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do waits for the limiter, executes the request, and normalizes non-2xx
// responses into errors carrying a body snippet.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
