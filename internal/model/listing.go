package model

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusPending   ListingStatus = "pending"
	ListingStatusSold      ListingStatus = "sold"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusAvailable, ListingStatusPending, ListingStatusSold:
		return true
	}
	return false
}

// Terminal reports whether no further status transitions are expected.
func (s ListingStatus) Terminal() bool {
	return s == ListingStatusSold
}

type Listing struct {
	ID          uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint64        `gorm:"column:owner_id;index;not null" json:"ownerId"`
	Title       string        `gorm:"size:120;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Price       uint          `gorm:"not null" json:"price"`
	Status      ListingStatus `gorm:"size:32;not null;default:available" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}
