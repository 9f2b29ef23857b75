// Refresh HTTP handlers.
//
// This file exposes the refresh lifecycle endpoints:
//   - POST /refresh         (trigger a background fetch+rebuild; single-flight)
//   - GET  /refresh/status  (refresh state plus persisted data stats)
//
// plus the /healthz liveness probe registered by the router.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aryanBanwala/match-analytics/internal/domain"
	"github.com/aryanBanwala/match-analytics/internal/services"
)

// StatsProvider exposes persisted data-set statistics for the status
// endpoint. The router adapts the repo free functions to this interface.
type StatsProvider interface {
	// DataStats returns the persisted match and profile row counts.
	DataStats(ctx context.Context) (matches, profiles int64, err error)
	// LastRefresh returns the newest refresh log entry, nil when none exists.
	LastRefresh(ctx context.Context) (*domain.RefreshLog, error)
}

//
// DTOs
//

// DataStatsResponse summarizes the persisted snapshot, with display strings
// formatted for dashboards (e.g. "12,845").
type DataStatsResponse struct {
	MatchRows          int64  `json:"match_rows"`
	ProfileRows        int64  `json:"profile_rows"`
	MatchRowsDisplay   string `json:"match_rows_display"`
	ProfileRowsDisplay string `json:"profile_rows_display"`
}

// RefreshStatusResponse combines the in-flight refresh state with the
// persisted data-set statistics.
type RefreshStatusResponse struct {
	services.RefreshStatus
	LastRefreshAt *time.Time         `json:"last_refresh_at,omitempty"`
	Data          *DataStatsResponse `json:"data,omitempty"`
}

//
// Handlers
//

// StartRefresh godoc
// @ID          startRefresh
// @Summary     Trigger a data refresh
// @Description Launches a background fetch of the remote match and profile tables, rebuilds the analytics store, and swaps it in atomically. Only one refresh runs at a time.
// @Tags        Refresh
// @Produce     json
//
// @Success     202  {object}  services.RefreshStatus
// @Failure     409  {object}  handlers.ErrorResponse  "Refresh already running"
// @Failure     503  {object}  handlers.ErrorResponse  "Remote source not configured"
// @Router      /refresh [post]
func (h *Handlers) StartRefresh(c *gin.Context) {
	if err := h.refreshSvc.Start(); err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshInProgress):
			fail(c, http.StatusConflict, ErrCodeConflict, "a refresh is already running")
		case errors.Is(err, services.ErrSourceNotConfigured):
			fail(c, http.StatusServiceUnavailable, ErrCodeSourceNotConfigured, "remote match source is not configured")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRefreshFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusAccepted, h.refreshSvc.Status())
}

// GetRefreshStatus godoc
// @ID          getRefreshStatus
// @Summary     Refresh status
// @Description Reports the state of the latest refresh (idle/running/done/failed with progress) together with the persisted row counts and last refresh time.
// @Tags        Refresh
// @Produce     json
//
// @Success     200  {object}  handlers.RefreshStatusResponse
// @Router      /refresh/status [get]
func (h *Handlers) GetRefreshStatus(c *gin.Context) {
	resp := RefreshStatusResponse{RefreshStatus: h.refreshSvc.Status()}

	if h.stats != nil {
		ctx := c.Request.Context()
		if matches, profiles, err := h.stats.DataStats(ctx); err == nil {
			resp.Data = &DataStatsResponse{
				MatchRows:          matches,
				ProfileRows:        profiles,
				MatchRowsDisplay:   formatCount(matches),
				ProfileRowsDisplay: formatCount(profiles),
			}
		}
		if last, err := h.stats.LastRefresh(ctx); err == nil && last != nil {
			at := last.FetchedAt
			resp.LastRefreshAt = &at
		}
	}
	ok(c, http.StatusOK, resp)
}

// Healthz godoc
// @ID          healthz
// @Summary     Liveness probe
// @Description Always returns 200 when the process is up; data_loaded reports whether an analytics store has been built.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  map[string]any
// @Router      /healthz [get]
func (h *Handlers) Healthz(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"status":      "ok",
		"data_loaded": h.analyticsSvc.Ready(),
	})
}
