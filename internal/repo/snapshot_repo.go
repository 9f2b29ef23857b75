// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file persists the local snapshot of remote data:
// match rows and user profiles are replaced wholesale on every refresh, never
// merged, so the snapshot is always one consistent pull.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/aryanBanwala/match-analytics/internal/domain"
)

// insertBatchSize bounds multi-row INSERTs so SQLite's variable limit is
// never hit.
const insertBatchSize = 500

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ReplaceMatches atomically swaps the persisted match rows for the given
// set. The delete and the batched inserts run in one transaction; a failed
// refresh leaves the previous snapshot intact.
func ReplaceMatches(ctx context.Context, db *gorm.DB, rows []domain.MatchRecord) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.MatchRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// ReplaceProfiles atomically swaps the persisted user profiles.
func ReplaceProfiles(ctx context.Context, db *gorm.DB, rows []domain.UserProfile) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.UserProfile{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

// ListMatches returns every persisted match row ordered by creation time
// ascending, the order the analytics store expects.
func ListMatches(ctx context.Context, db *gorm.DB) ([]domain.MatchRecord, error) {
	var rows []domain.MatchRecord
	err := db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ListProfiles returns every persisted user profile.
func ListProfiles(ctx context.Context, db *gorm.DB) ([]domain.UserProfile, error) {
	var rows []domain.UserProfile
	err := db.WithContext(ctx).Find(&rows).Error
	return rows, err
}
