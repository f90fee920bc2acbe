package repository

import (
	"context"

	"github.com/landseek/backend/internal/model"
	"gorm.io/gorm"
)

type WatchRepository interface {
	Add(ctx context.Context, userID, listingID uint64) (created bool, err error)
	Remove(ctx context.Context, userID, listingID uint64) error
	ListWatchers(ctx context.Context, listingID uint64) ([]uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.WatchEntry, error)
	PurgeListing(ctx context.Context, listingID uint64) error
	SetDB(db *gorm.DB)
}

type watchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(db *gorm.DB) WatchRepository {
	return &watchRepository{db: db}
}

func (r *watchRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *watchRepository) Add(ctx context.Context, userID, listingID uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	entry := model.WatchEntry{UserID: userID, ListingID: listingID}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		FirstOrCreate(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *watchRepository) Remove(ctx context.Context, userID, listingID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.WatchEntry{}).Error
}

func (r *watchRepository) ListWatchers(ctx context.Context, listingID uint64) ([]uint64, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&model.WatchEntry{}).
		Where("listing_id = ?", listingID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *watchRepository) ListByUser(ctx context.Context, userID uint64) ([]model.WatchEntry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var entries []model.WatchEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *watchRepository) PurgeListing(ctx context.Context, listingID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&model.WatchEntry{}).Error
}
