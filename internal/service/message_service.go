package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
)

var ErrInvalidInput = errors.New("invalid input")

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, listingID uint64, body string) (*model.Message, error)
	Conversation(ctx context.Context, userA, userB, listingID uint64) ([]model.Message, error)
	MarkRead(ctx context.Context, senderID, receiverID, listingID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
	UnreadTotal(ctx context.Context, userID uint64) (int64, error)
	UnreadByListing(ctx context.Context, userID uint64) (map[uint64]int64, error)
}

type messageService struct {
	msgRepo repository.MessageRepository
	relay   Relay
}

func NewMessageService(msgRepo repository.MessageRepository, relay Relay) MessageService {
	if relay == nil {
		relay = NopRelay{}
	}
	return &messageService{msgRepo: msgRepo, relay: relay}
}

// Send is the only write path for new conversation content. Validation
// happens before any write; a rejected send leaves the store untouched.
// After a successful insert the message is pushed to the receiver's live
// connection, if any.
func (s *messageService) Send(ctx context.Context, senderID, receiverID, listingID uint64, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if senderID == 0 {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidInput)
	}
	if receiverID == 0 {
		return nil, fmt.Errorf("%w: receiver is required", ErrInvalidInput)
	}
	if listingID == 0 {
		return nil, fmt.Errorf("%w: listing is required", ErrInvalidInput)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Body:       body,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.relay.DeliverMessage(msg)
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, userA, userB, listingID uint64) ([]model.Message, error) {
	key := model.NewConversationKey(listingID, userA, userB)
	return s.msgRepo.FindConversation(ctx, key)
}

// MarkRead flips every unread message sent by senderID to receiverID within
// the listing. Reapplying has no further effect.
func (s *messageService) MarkRead(ctx context.Context, senderID, receiverID, listingID uint64) error {
	return s.msgRepo.MarkRead(ctx, senderID, receiverID, listingID)
}

func (s *messageService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.msgRepo.MarkAllRead(ctx, userID)
}

func (s *messageService) UnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	return s.msgRepo.CountUnread(ctx, userID)
}

func (s *messageService) UnreadByListing(ctx context.Context, userID uint64) (map[uint64]int64, error) {
	return s.msgRepo.CountUnreadByListing(ctx, userID)
}
