package model

import "time"

const (
	NotificationTypeListingStatus = "listing_status"
	NotificationTypeListingSaved  = "listing_saved"
)

type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"column:user_id;index;not null"`
	Type        string    `gorm:"column:type;size:64;not null"`
	Title       string    `gorm:"column:title;size:255"`
	Body        string    `gorm:"column:body;type:text"`
	SubjectType string    `gorm:"column:subject_type;size:32"`
	SubjectID   *uint64   `gorm:"column:subject_id;index"`
	Read        bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
