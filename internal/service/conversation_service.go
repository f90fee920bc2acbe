package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
	"gorm.io/gorm"
)

// StarterMessageBody opens a thread on first contact with a listing.
const StarterMessageBody = "Hello, I'm interested in this listing."

const fallbackDisplayName = "User"

// ConversationSummary is one row of a user's inbox: a (listing, counterpart)
// pair with its freshest message time and unread badge.
type ConversationSummary struct {
	ListingID       uint64    `json:"listingId"`
	ListingTitle    string    `json:"listingTitle"`
	CounterpartID   uint64    `json:"counterpartId"`
	CounterpartName string    `json:"counterpartName"`
	LastMessageAt   time.Time `json:"lastMessageAt"`
	UnreadCount     int64     `json:"unreadCount"`
}

// ThreadEntry is one row of a per-listing thread list.
type ThreadEntry struct {
	UserID        uint64    `json:"userId"`
	DisplayName   string    `json:"displayName"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
}

type ConversationService interface {
	ListForUser(ctx context.Context, userID uint64) ([]ConversationSummary, error)
	OwnerThreads(ctx context.Context, listingID, requesterID uint64) ([]ThreadEntry, error)
	InquirerThread(ctx context.Context, listingID, requesterID uint64) (*ThreadEntry, error)
	EnsureStarted(ctx context.Context, userID, counterpartID, listingID uint64) error
	CounterpartName(ctx context.Context, userID, listingID uint64) (string, error)
}

type conversationService struct {
	msgRepo     repository.MessageRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	messages    MessageService
}

func NewConversationService(msgRepo repository.MessageRepository, listingRepo repository.ListingRepository, userRepo repository.UserRepository, messages MessageService) ConversationService {
	return &conversationService{
		msgRepo:     msgRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		messages:    messages,
	}
}

// ListForUser enumerates every distinct (listing, counterpart) combination
// touching the user, ordered by listing id then most-recent-message
// descending. Grouping happens here on ConversationKey rather than in SQL.
func (s *conversationService) ListForUser(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	msgs, err := s.msgRepo.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[model.ConversationKey]*ConversationSummary)
	for _, m := range msgs {
		key := m.Key()
		sum, ok := byKey[key]
		if !ok {
			sum = &ConversationSummary{
				ListingID:     m.ListingID,
				CounterpartID: m.Counterpart(userID),
			}
			byKey[key] = sum
		}
		// messages arrive in ascending creation order
		sum.LastMessageAt = m.CreatedAt
		if m.ReceiverID == userID && !m.Read {
			sum.UnreadCount++
		}
	}

	out := make([]ConversationSummary, 0, len(byKey))
	for _, sum := range byKey {
		sum.ListingTitle = s.listingTitle(ctx, sum.ListingID)
		sum.CounterpartName = s.displayName(ctx, sum.CounterpartID)
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ListingID != out[j].ListingID {
			return out[i].ListingID < out[j].ListingID
		}
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

// OwnerThreads is the listing owner's view: one entry per distinct inquirer,
// most recent first. Requester must own the listing.
func (s *conversationService) OwnerThreads(ctx context.Context, listingID, requesterID uint64) ([]ThreadEntry, error) {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	msgs, err := s.msgRepo.FindByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint64]*ThreadEntry)
	for _, m := range msgs {
		other := m.Counterpart(requesterID)
		if other == requesterID {
			continue
		}
		entry, ok := byUser[other]
		if !ok {
			entry = &ThreadEntry{UserID: other}
			byUser[other] = entry
		}
		entry.LastMessageAt = m.CreatedAt
		if m.ReceiverID == requesterID && !m.Read {
			entry.UnreadCount++
		}
	}

	out := make([]ThreadEntry, 0, len(byUser))
	for _, entry := range byUser {
		entry.DisplayName = s.displayName(ctx, entry.UserID)
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

// InquirerThread is the non-owner's view: a single entry for the listing
// owner, present even before any message has been exchanged.
func (s *conversationService) InquirerThread(ctx context.Context, listingID, requesterID uint64) (*ThreadEntry, error) {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == requesterID {
		return nil, ErrForbidden
	}

	key := model.NewConversationKey(listingID, requesterID, listing.OwnerID)
	msgs, err := s.msgRepo.FindConversation(ctx, key)
	if err != nil {
		return nil, err
	}
	entry := &ThreadEntry{
		UserID:      listing.OwnerID,
		DisplayName: s.displayName(ctx, listing.OwnerID),
	}
	for _, m := range msgs {
		entry.LastMessageAt = m.CreatedAt
		if m.ReceiverID == requesterID && !m.Read {
			entry.UnreadCount++
		}
	}
	return entry, nil
}

// EnsureStarted synthesizes the starter message for a new (listing, pair)
// thread. The existence check and the insert are not one transaction; two
// truly concurrent first contacts can both insert a greeting. The original
// system tolerates that duplicate and so does this one.
func (s *conversationService) EnsureStarted(ctx context.Context, userID, counterpartID, listingID uint64) error {
	if userID == 0 || counterpartID == 0 || listingID == 0 {
		return fmt.Errorf("%w: user, counterpart and listing are required", ErrInvalidInput)
	}
	if userID == counterpartID {
		return fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidInput)
	}
	key := model.NewConversationKey(listingID, userID, counterpartID)
	exists, err := s.msgRepo.HasConversation(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = s.messages.Send(ctx, userID, counterpartID, listingID, StarterMessageBody)
	return err
}

// CounterpartName resolves the display name of the other side of a thread.
// For the listing owner the counterpart is ambiguous (one per inquirer), so
// owners get an empty name and should use OwnerThreads instead.
func (s *conversationService) CounterpartName(ctx context.Context, userID, listingID uint64) (string, error) {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.OwnerID == userID {
		return "", nil
	}
	return s.displayName(ctx, listing.OwnerID), nil
}

func (s *conversationService) findListing(ctx context.Context, listingID uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *conversationService) listingTitle(ctx context.Context, listingID uint64) string {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return "Untitled listing"
	}
	return listing.Title
}

func (s *conversationService) displayName(ctx context.Context, userID uint64) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fallbackDisplayName
	}
	return user.DisplayName
}
