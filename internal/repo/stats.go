// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides refresh bookkeeping and the small
// aggregate queries the HTTP layer exposes as data-freshness metadata.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// RecordRefresh appends one refresh log row describing a completed pull.
func RecordRefresh(ctx context.Context, db *gorm.DB, matchRows, profileRows int, took time.Duration) error {
	entry := &domain.RefreshLog{
		FetchedAt:   time.Now().UTC(),
		MatchRows:   matchRows,
		ProfileRows: profileRows,
		DurationMS:  took.Milliseconds(),
	}
	return db.WithContext(ctx).Create(entry).Error
}

// LastRefresh returns the most recent refresh log entry, or nil when no
// refresh has ever completed.
func LastRefresh(ctx context.Context, db *gorm.DB) (*domain.RefreshLog, error) {
	var entry domain.RefreshLog
	err := db.WithContext(ctx).Order("id DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DataStats returns the persisted row counts for matches and profiles.
func DataStats(ctx context.Context, db *gorm.DB) (matches, profiles int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.MatchRecord{}).Count(&matches).Error; err != nil {
		return 0, 0, err
	}
	if err = db.WithContext(ctx).Model(&domain.UserProfile{}).Count(&profiles).Error; err != nil {
		return 0, 0, err
	}
	return matches, profiles, nil
}
