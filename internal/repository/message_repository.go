package repository

import (
	"context"

	"github.com/landseek/backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindConversation(ctx context.Context, key model.ConversationKey) ([]model.Message, error)
	HasConversation(ctx context.Context, key model.ConversationKey) (bool, error)
	FindByParticipant(ctx context.Context, uid uint64) ([]model.Message, error)
	FindByListing(ctx context.Context, listingID uint64) ([]model.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID, listingID uint64) error
	MarkAllRead(ctx context.Context, receiverID uint64) error
	CountUnread(ctx context.Context, receiverID uint64) (int64, error)
	CountUnreadByListing(ctx context.Context, receiverID uint64) (map[uint64]int64, error)
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// conversationScope matches messages of either direction between the key's
// participants within the key's listing.
func conversationScope(db *gorm.DB, key model.ConversationKey) *gorm.DB {
	return db.
		Where("listing_id = ?", key.ListingID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			key.UserA, key.UserB, key.UserB, key.UserA)
}

func (r *messageRepository) FindConversation(ctx context.Context, key model.ConversationKey) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := conversationScope(r.db.WithContext(ctx), key).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) HasConversation(ctx context.Context, key model.ConversationKey) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := conversationScope(r.db.WithContext(ctx).Model(&model.Message{}), key).
		Limit(1).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *messageRepository) FindByParticipant(ctx context.Context, uid uint64) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", uid, uid).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) FindByListing(ctx context.Context, listingID uint64) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID, listingID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND listing_id = ? AND is_read = ?",
			senderID, receiverID, listingID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) MarkAllRead(ctx context.Context, receiverID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *messageRepository) CountUnreadByListing(ctx context.Context, receiverID uint64) (map[uint64]int64, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rows []struct {
		ListingID uint64
		Cnt       int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("listing_id, COUNT(*) AS cnt").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Group("listing_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		counts[row.ListingID] = row.Cnt
	}
	return counts, nil
}
