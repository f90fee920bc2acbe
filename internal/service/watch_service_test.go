package service

import (
	"context"
	"errors"
	"testing"

	"github.com/landseek/backend/internal/model"
)

func newWatchFixture() (*fakeListingRepo, *fakeWatchRepo, *fakeNotificationRepo, WatchService) {
	listingRepo := newFakeListingRepo()
	watchRepo := &fakeWatchRepo{}
	notifRepo := &fakeNotificationRepo{}
	notifications := NewNotificationService(notifRepo, nil, discardLogger())
	svc := NewWatchService(watchRepo, listingRepo, notifications)
	return listingRepo, watchRepo, notifRepo, svc
}

func TestSaveNotifiesOwnerOnce(t *testing.T) {
	listingRepo, _, notifRepo, svc := newWatchFixture()
	seedListing(t, listingRepo, 42, 1, "Cedar house")
	ctx := context.Background()

	if err := svc.Save(ctx, 9, 42); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// the second save is idempotent and stays silent
	if err := svc.Save(ctx, 9, 42); err != nil {
		t.Fatalf("repeat save failed: %v", err)
	}

	got := notifRepo.forUser(1)
	if len(got) != 1 {
		t.Fatalf("owner got %d notifications, want 1", len(got))
	}
	if got[0].Type != model.NotificationTypeListingSaved {
		t.Fatalf("wrong type %q", got[0].Type)
	}
}

func TestSaveOwnListingStaysSilent(t *testing.T) {
	listingRepo, watchRepo, notifRepo, svc := newWatchFixture()
	seedListing(t, listingRepo, 42, 1, "Cedar house")
	ctx := context.Background()

	if err := svc.Save(ctx, 1, 42); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(notifRepo.notifs) != 0 {
		t.Fatalf("owner notified about their own save: %+v", notifRepo.notifs)
	}
	if watchers, _ := watchRepo.ListWatchers(ctx, 42); len(watchers) != 1 {
		t.Fatalf("watch entry missing: %v", watchers)
	}
}

func TestSaveUnknownListing(t *testing.T) {
	_, _, _, svc := newWatchFixture()
	if err := svc.Save(context.Background(), 9, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestUnsaveAndList(t *testing.T) {
	listingRepo, _, _, svc := newWatchFixture()
	seedListing(t, listingRepo, 42, 1, "Cedar house")
	seedListing(t, listingRepo, 43, 1, "Pine cottage")
	ctx := context.Background()

	if err := svc.Save(ctx, 9, 42); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := svc.Save(ctx, 9, 43); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := svc.Unsave(ctx, 9, 42); err != nil {
		t.Fatalf("unsave failed: %v", err)
	}

	listings, err := svc.ListForUser(ctx, 9)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != 43 {
		t.Fatalf("got %+v, want only listing 43", listings)
	}
}
