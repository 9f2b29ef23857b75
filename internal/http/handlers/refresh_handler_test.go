package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aryanBanwala/match-analytics/internal/domain"
	"github.com/aryanBanwala/match-analytics/internal/services"
)

// fakeRefresh implements RefreshService.
type fakeRefresh struct {
	startErr error
	status   services.RefreshStatus
	started  int
}

func (f *fakeRefresh) Start() error {
	f.started++
	return f.startErr
}

func (f *fakeRefresh) Status() services.RefreshStatus { return f.status }

// fakeStats implements StatsProvider.
type fakeStats struct {
	matches  int64
	profiles int64
	last     *domain.RefreshLog
	err      error
}

func (f *fakeStats) DataStats(context.Context) (int64, int64, error) {
	return f.matches, f.profiles, f.err
}

func (f *fakeStats) LastRefresh(context.Context) (*domain.RefreshLog, error) {
	return f.last, f.err
}

func refreshRouter(fr *fakeRefresh, stats StatsProvider, ready bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(&fakeAnalytics{ready: ready}, fr, stats)
	r := gin.New()
	r.POST("/refresh", h.StartRefresh)
	r.GET("/refresh/status", h.GetRefreshStatus)
	r.GET("/healthz", h.Healthz)
	return r
}

func TestStartRefresh_Accepted(t *testing.T) {
	fr := &fakeRefresh{status: services.RefreshStatus{State: services.RefreshRunning}}
	r := refreshRouter(fr, nil, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if fr.started != 1 {
		t.Fatalf("Start called %d times", fr.started)
	}
	if !strings.Contains(w.Body.String(), `"state":"running"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestStartRefresh_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"in progress", services.ErrRefreshInProgress, http.StatusConflict, ErrCodeConflict},
		{"not configured", services.ErrSourceNotConfigured, http.StatusServiceUnavailable, ErrCodeSourceNotConfigured},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeRefreshFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := refreshRouter(&fakeRefresh{startErr: tc.err}, nil, true)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestGetRefreshStatus_IncludesStats(t *testing.T) {
	at := time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)
	stats := &fakeStats{
		matches:  12845,
		profiles: 1031,
		last:     &domain.RefreshLog{FetchedAt: at, MatchRows: 12845, ProfileRows: 1031},
	}
	r := refreshRouter(&fakeRefresh{status: services.RefreshStatus{State: services.RefreshDone}}, stats, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RefreshStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.State != services.RefreshDone {
		t.Fatalf("state = %q", resp.State)
	}
	if resp.Data == nil || resp.Data.MatchRows != 12845 {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Data.MatchRowsDisplay != "12,845" || resp.Data.ProfileRowsDisplay != "1,031" {
		t.Fatalf("display counts = %q / %q", resp.Data.MatchRowsDisplay, resp.Data.ProfileRowsDisplay)
	}
	if resp.LastRefreshAt == nil || !resp.LastRefreshAt.Equal(at) {
		t.Fatalf("last refresh at = %v", resp.LastRefreshAt)
	}
}

func TestGetRefreshStatus_NoStatsProvider(t *testing.T) {
	r := refreshRouter(&fakeRefresh{status: services.RefreshStatus{State: services.RefreshIdle}}, nil, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/refresh/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"data"`) {
		t.Fatalf("expected no data block, got %s", w.Body.String())
	}
}

func TestHealthz_DataLoadedFlag(t *testing.T) {
	for _, ready := range []bool{true, false} {
		r := refreshRouter(&fakeRefresh{}, nil, ready)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["data_loaded"] != ready {
			t.Fatalf("data_loaded = %v, want %v", body["data_loaded"], ready)
		}
	}
}
