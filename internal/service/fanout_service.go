package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
	"gorm.io/gorm"
)

// FanoutService reacts to listing status transitions: it persists the new
// status, then notifies every user watching the listing.
type FanoutService interface {
	ListingStatusChanged(ctx context.Context, listingID, actorID uint64, status model.ListingStatus) (*model.Listing, error)
}

type fanoutService struct {
	listingRepo repository.ListingRepository
	watchRepo   repository.WatchRepository
	notifRepo   repository.NotificationRepository
	relay       Relay
	log         *slog.Logger
}

func NewFanoutService(listingRepo repository.ListingRepository, watchRepo repository.WatchRepository, notifRepo repository.NotificationRepository, relay Relay, log *slog.Logger) FanoutService {
	if relay == nil {
		relay = NopRelay{}
	}
	return &fanoutService{
		listingRepo: listingRepo,
		watchRepo:   watchRepo,
		notifRepo:   notifRepo,
		relay:       relay,
		log:         log,
	}
}

// ListingStatusChanged persists the transition and inserts one notification
// per watcher. Watcher inserts are independent: a failure for one watcher is
// logged and skipped, never aborting the rest of the batch. A terminal
// status additionally purges the listing's watch list, since there is
// nothing further to announce.
func (s *fanoutService) ListingStatusChanged(ctx context.Context, listingID, actorID uint64, status model.ListingStatus) (*model.Listing, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(status))
	}
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if err := s.listingRepo.UpdateStatus(ctx, listingID, status); err != nil {
		return nil, err
	}
	listing.Status = status

	watchers, err := s.watchRepo.ListWatchers(ctx, listingID)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf("The listing '%s' is now marked as %s.", listing.Title, status)
	for _, watcherID := range watchers {
		n := &model.Notification{
			UserID:      watcherID,
			Type:        model.NotificationTypeListingStatus,
			Title:       listing.Title,
			Body:        body,
			SubjectType: "listing",
			SubjectID:   &listing.ID,
		}
		if err := s.notifRepo.Create(ctx, n); err != nil {
			s.log.Warn("fanout: notification insert failed", "listing", listingID, "watcher", watcherID, "err", err)
			continue
		}
		s.relay.DeliverNotification(n)
	}

	if status.Terminal() {
		if err := s.watchRepo.PurgeListing(ctx, listingID); err != nil {
			return listing, err
		}
	}
	return listing, nil
}
