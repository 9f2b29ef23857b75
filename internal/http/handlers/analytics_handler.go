// Analytics HTTP handlers.
//
// This file exposes REST endpoints for the aggregated match analytics:
//   - GET /analytics/snapshot                                (full snapshot, filterable)
//   - GET /analytics/dates                                   (available batch dates)
//   - GET /analytics/tiers/{viewerTier}/{candidateTier}/ranks (per-cell rank drilldown)
//   - GET /analytics/segments/{segment}/users                (paginated user listing)
//
// Handlers are transport-thin: they parse query filters, call application
// services, and translate results (and sentinel errors) into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryanBanwala/match-analytics/internal/analytics"
	"github.com/aryanBanwala/match-analytics/internal/services"
	"github.com/aryanBanwala/match-analytics/internal/utils"
)

//
// Service contracts (context-aware)
//

// AnalyticsService defines the read-side analytics operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AnalyticsService interface {
	// Snapshot computes the full analytics snapshot for a filter.
	Snapshot(ctx context.Context, p services.FilterParams) (*analytics.Snapshot, error)
	// AvailableDates lists known batch dates, newest first.
	AvailableDates(ctx context.Context) ([]string, error)
	// TierRanks recomputes the rank table restricted to one tier-matrix cell.
	TierRanks(ctx context.Context, viewerTier, candidateTier int, p services.FilterParams) (analytics.RankResult, error)
	// SegmentUsers lists the users classified into a segment, paginated.
	SegmentUsers(ctx context.Context, segment string, p services.FilterParams, page, pageSize int) ([]analytics.UserSegment, int, error)
	// Ready reports whether an analytics store has been loaded.
	Ready() bool
}

// RefreshService defines the refresh lifecycle operations consumed by HTTP
// handlers.
type RefreshService interface {
	// Start launches a background refresh; single-flight.
	Start() error
	// Status reports the state of the latest refresh.
	Status() services.RefreshStatus
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for analytics and refresh operations.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	analyticsSvc AnalyticsService
	refreshSvc   RefreshService
	stats        StatsProvider
}

// New constructs and returns a Handlers instance bound to the given services.
// stats may be nil; the status endpoint then omits persisted row counts.
func New(analyticsSvc AnalyticsService, refreshSvc RefreshService, stats StatsProvider) *Handlers {
	return &Handlers{analyticsSvc: analyticsSvc, refreshSvc: refreshSvc, stats: stats}
}

//
// DTOs
//

// DatesResponse lists the batch dates present in the loaded data set.
type DatesResponse struct {
	Dates []string `json:"dates"`
	Count int      `json:"count"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// SegmentUsersResponse wraps a page of classified users with pagination
// information.
type SegmentUsersResponse struct {
	Segment    string                  `json:"segment"`
	Users      []analytics.UserSegment `json:"users"`
	Pagination Pagination              `json:"pagination"`
}

// TierRanksResponse is the per-cell rank drilldown payload.
type TierRanksResponse struct {
	ViewerTier    int                  `json:"viewer_tier"`
	CandidateTier int                  `json:"candidate_tier"`
	Ranks         analytics.RankResult `json:"ranks"`
}

//
// Helpers
//

// filterParams extracts the shared analytics filter from query parameters.
// dates is a comma-separated list of YYYY-MM-DD keys; gender and tier narrow
// the viewer population. Validation happens in the service layer.
func filterParams(c *gin.Context) services.FilterParams {
	p := services.FilterParams{
		Gender: strings.TrimSpace(c.Query("gender")),
		Tier:   utils.AtoiDefault(c.Query("tier"), 0),
	}
	if raw := strings.TrimSpace(c.Query("dates")); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				p.Dates = append(p.Dates, d)
			}
		}
	}
	return p
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failAnalytics maps service sentinel errors to HTTP responses. Unknown
// errors become 500 internal_error.
func failAnalytics(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoData):
		fail(c, http.StatusNotFound, ErrCodeNoData, "no analytics data loaded")
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidGender),
		errors.Is(err, services.ErrInvalidTier),
		errors.Is(err, services.ErrInvalidSegment):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// GetSnapshot godoc
// @ID          getSnapshot
// @Summary     Full analytics snapshot
// @Description Computes the complete analytics snapshot (funnel, hours, latency, ranks, tiers, dates, know-more, segments) for the optional filter.
// @Tags        Analytics
// @Produce     json
//
// @Param       dates   query  string  false "Comma-separated batch dates (YYYY-MM-DD)"  example(2026-08-01,2026-08-02)
// @Param       gender  query  string  false "Viewer gender filter"  Enums(male, female)
// @Param       tier    query  int     false "Viewer tier filter"    minimum(1) maximum(3)
//
// @Success     200  {object}  analytics.Snapshot
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid filter"
// @Failure     404  {object}  handlers.ErrorResponse  "No data loaded"
// @Router      /analytics/snapshot [get]
func (h *Handlers) GetSnapshot(c *gin.Context) {
	snap, err := h.analyticsSvc.Snapshot(c.Request.Context(), filterParams(c))
	if err != nil {
		failAnalytics(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// ListDates godoc
// @ID          listDates
// @Summary     Available batch dates
// @Description Returns the batch dates present in the loaded data set, newest first.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {object}  handlers.DatesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No data loaded"
// @Router      /analytics/dates [get]
func (h *Handlers) ListDates(c *gin.Context) {
	dates, err := h.analyticsSvc.AvailableDates(c.Request.Context())
	if err != nil {
		failAnalytics(c, err)
		return
	}
	ok(c, http.StatusOK, DatesResponse{Dates: dates, Count: len(dates)})
}

// GetTierRanks godoc
// @ID          getTierRanks
// @Summary     Rank drilldown for one tier-matrix cell
// @Description Recomputes the per-rank table restricted to matches where the viewer and candidate belong to the given tiers. The shared filter query parameters apply on top.
// @Tags        Analytics
// @Produce     json
//
// @Param       viewerTier     path   int     true  "Viewer tier"     minimum(1) maximum(3)
// @Param       candidateTier  path   int     true  "Candidate tier"  minimum(1) maximum(3)
// @Param       dates          query  string  false "Comma-separated batch dates (YYYY-MM-DD)"
// @Param       gender         query  string  false "Viewer gender filter"  Enums(male, female)
//
// @Success     200  {object}  handlers.TierRanksResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid tier or filter"
// @Failure     404  {object}  handlers.ErrorResponse  "No data loaded"
// @Router      /analytics/tiers/{viewerTier}/{candidateTier}/ranks [get]
func (h *Handlers) GetTierRanks(c *gin.Context) {
	vt := utils.AtoiDefault(c.Param("viewerTier"), 0)
	ct := utils.AtoiDefault(c.Param("candidateTier"), 0)

	ranks, err := h.analyticsSvc.TierRanks(c.Request.Context(), vt, ct, filterParams(c))
	if err != nil {
		failAnalytics(c, err)
		return
	}
	ok(c, http.StatusOK, TierRanksResponse{ViewerTier: vt, CandidateTier: ct, Ranks: ranks})
}

// ListSegmentUsers godoc
// @ID          listSegmentUsers
// @Summary     Users in a behavioral segment (paginated)
// @Description Lists the users classified into the given segment (active, pass_only, ghost, never_viewed) with per-user activity counts.
// @Tags        Analytics
// @Produce     json
//
// @Param       segment    path   string  true  "Segment name"  Enums(active, pass_only, ghost, never_viewed)
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(200) default(50)
// @Param       dates      query  string  false "Comma-separated batch dates (YYYY-MM-DD)"
// @Param       gender     query  string  false "Viewer gender filter"  Enums(male, female)
// @Param       tier       query  int     false "Viewer tier filter"    minimum(1) maximum(3)
//
// @Success     200  {object}  handlers.SegmentUsersResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid segment or filter"
// @Failure     404  {object}  handlers.ErrorResponse  "No data loaded"
// @Router      /analytics/segments/{segment}/users [get]
func (h *Handlers) ListSegmentUsers(c *gin.Context) {
	segment := c.Param("segment")
	page, pageSize := clampPagination(c)

	users, total, err := h.analyticsSvc.SegmentUsers(c.Request.Context(), segment, filterParams(c), page, pageSize)
	if err != nil {
		failAnalytics(c, err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	if users == nil {
		users = []analytics.UserSegment{}
	}
	ok(c, http.StatusOK, SegmentUsersResponse{
		Segment: segment,
		Users:   users,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int64(total),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
