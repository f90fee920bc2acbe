package model

import "time"

// WatchEntry records that a user saved a listing and wants status updates.
// Rows are removed one at a time by the user, or all at once when the
// listing reaches a terminal status.
type WatchEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;index:idx_user_listing,unique;not null" json:"userId"`
	ListingID uint64    `gorm:"column:listing_id;index:idx_user_listing,unique;index;not null" json:"listingId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (WatchEntry) TableName() string {
	return "watch_entries"
}
