package model

import "time"

type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   uint64    `gorm:"column:sender_id;index;not null" json:"senderId"`
	ReceiverID uint64    `gorm:"column:receiver_id;index;not null" json:"receiverId"`
	ListingID  uint64    `gorm:"column:listing_id;index;not null" json:"listingId"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Read       bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

// Key returns the conversation this message belongs to.
func (m Message) Key() ConversationKey {
	return NewConversationKey(m.ListingID, m.SenderID, m.ReceiverID)
}

// Counterpart returns the participant other than uid.
func (m Message) Counterpart(uid uint64) uint64 {
	if m.SenderID == uid {
		return m.ReceiverID
	}
	return m.SenderID
}
