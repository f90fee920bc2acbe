package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
	"gorm.io/gorm"
)

type WatchService interface {
	Save(ctx context.Context, userID, listingID uint64) error
	Unsave(ctx context.Context, userID, listingID uint64) error
	ListForUser(ctx context.Context, userID uint64) ([]model.Listing, error)
}

type watchService struct {
	watchRepo     repository.WatchRepository
	listingRepo   repository.ListingRepository
	notifications NotificationService
}

func NewWatchService(watchRepo repository.WatchRepository, listingRepo repository.ListingRepository, notifications NotificationService) WatchService {
	return &watchService{
		watchRepo:     watchRepo,
		listingRepo:   listingRepo,
		notifications: notifications,
	}
}

// Save records the watch and tells the owner someone saved their listing.
// Saving twice is a no-op and does not notify again.
func (s *watchService) Save(ctx context.Context, userID, listingID uint64) error {
	if userID == 0 || listingID == 0 {
		return fmt.Errorf("%w: user and listing are required", ErrInvalidInput)
	}
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	created, err := s.watchRepo.Add(ctx, userID, listingID)
	if err != nil {
		return err
	}
	if created && listing.OwnerID != userID {
		s.notifications.Notify(ctx, listing.OwnerID,
			model.NotificationTypeListingSaved,
			"Listing saved",
			fmt.Sprintf("A user has saved your listing: %s", listing.Title),
			"listing", &listing.ID)
	}
	return nil
}

func (s *watchService) Unsave(ctx context.Context, userID, listingID uint64) error {
	if userID == 0 || listingID == 0 {
		return fmt.Errorf("%w: user and listing are required", ErrInvalidInput)
	}
	return s.watchRepo.Remove(ctx, userID, listingID)
}

func (s *watchService) ListForUser(ctx context.Context, userID uint64) ([]model.Listing, error) {
	entries, err := s.watchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings := make([]model.Listing, 0, len(entries))
	for _, entry := range entries {
		listing, err := s.listingRepo.FindByID(ctx, entry.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, nil
}
