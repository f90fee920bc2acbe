package service

import (
	"context"
	"sort"
	"time"

	"github.com/landseek/backend/internal/model"
	"gorm.io/gorm"
)

// In-memory stand-ins for the repository interfaces. Each Create advances a
// fake clock by one second so creation-time ordering is deterministic.

type fakeMessageRepo struct {
	msgs       []model.Message
	nextID     uint64
	clock      time.Time
	failCreate error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeMessageRepo) SetDB(*gorm.DB) {}

func (f *fakeMessageRepo) Create(_ context.Context, msg *model.Message) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	msg.ID = f.nextID
	msg.CreatedAt = f.clock
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeMessageRepo) FindConversation(_ context.Context, key model.ConversationKey) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.msgs {
		if m.Key() == key {
			out = append(out, m)
		}
	}
	sortMessages(out)
	return out, nil
}

func (f *fakeMessageRepo) HasConversation(_ context.Context, key model.ConversationKey) (bool, error) {
	for _, m := range f.msgs {
		if m.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageRepo) FindByParticipant(_ context.Context, uid uint64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.msgs {
		if m.SenderID == uid || m.ReceiverID == uid {
			out = append(out, m)
		}
	}
	sortMessages(out)
	return out, nil
}

func (f *fakeMessageRepo) FindByListing(_ context.Context, listingID uint64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.msgs {
		if m.ListingID == listingID {
			out = append(out, m)
		}
	}
	sortMessages(out)
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, senderID, receiverID, listingID uint64) error {
	for i := range f.msgs {
		m := &f.msgs[i]
		if m.SenderID == senderID && m.ReceiverID == receiverID && m.ListingID == listingID && !m.Read {
			m.Read = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) MarkAllRead(_ context.Context, receiverID uint64) error {
	for i := range f.msgs {
		if f.msgs[i].ReceiverID == receiverID {
			f.msgs[i].Read = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) CountUnread(_ context.Context, receiverID uint64) (int64, error) {
	var cnt int64
	for _, m := range f.msgs {
		if m.ReceiverID == receiverID && !m.Read {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeMessageRepo) CountUnreadByListing(_ context.Context, receiverID uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64)
	for _, m := range f.msgs {
		if m.ReceiverID == receiverID && !m.Read {
			counts[m.ListingID]++
		}
	}
	return counts, nil
}

func sortMessages(msgs []model.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
}

type fakeListingRepo struct {
	listings map[uint64]*model.Listing
	nextID   uint64
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uint64]*model.Listing)}
}

func (f *fakeListingRepo) SetDB(*gorm.DB) {}

func (f *fakeListingRepo) Create(_ context.Context, listing *model.Listing) error {
	f.nextID++
	if listing.ID == 0 {
		listing.ID = f.nextID
	}
	cp := *listing
	f.listings[listing.ID] = &cp
	return nil
}

func (f *fakeListingRepo) FindByID(_ context.Context, id uint64) (*model.Listing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *listing
	return &cp, nil
}

func (f *fakeListingRepo) List(_ context.Context, limit, offset int) ([]model.Listing, int64, error) {
	var out []model.Listing
	for _, l := range f.listings {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeListingRepo) ListByOwner(_ context.Context, ownerID uint64) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) UpdateStatus(_ context.Context, id uint64, status model.ListingStatus) error {
	listing, ok := f.listings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	listing.Status = status
	return nil
}

type fakeWatchRepo struct {
	entries []model.WatchEntry
	nextID  uint64
}

func (f *fakeWatchRepo) SetDB(*gorm.DB) {}

func (f *fakeWatchRepo) Add(_ context.Context, userID, listingID uint64) (bool, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.ListingID == listingID {
			return false, nil
		}
	}
	f.nextID++
	f.entries = append(f.entries, model.WatchEntry{ID: f.nextID, UserID: userID, ListingID: listingID})
	return true, nil
}

func (f *fakeWatchRepo) Remove(_ context.Context, userID, listingID uint64) error {
	out := f.entries[:0]
	for _, e := range f.entries {
		if e.UserID != userID || e.ListingID != listingID {
			out = append(out, e)
		}
	}
	f.entries = out
	return nil
}

func (f *fakeWatchRepo) ListWatchers(_ context.Context, listingID uint64) ([]uint64, error) {
	var ids []uint64
	for _, e := range f.entries {
		if e.ListingID == listingID {
			ids = append(ids, e.UserID)
		}
	}
	return ids, nil
}

func (f *fakeWatchRepo) ListByUser(_ context.Context, userID uint64) ([]model.WatchEntry, error) {
	var out []model.WatchEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeWatchRepo) PurgeListing(_ context.Context, listingID uint64) error {
	out := f.entries[:0]
	for _, e := range f.entries {
		if e.ListingID != listingID {
			out = append(out, e)
		}
	}
	f.entries = out
	return nil
}

type fakeNotificationRepo struct {
	notifs  []model.Notification
	nextID  uint64
	failFor map[uint64]error // per-recipient insert failures
}

func (f *fakeNotificationRepo) SetDB(*gorm.DB) {}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.notifs = append(f.notifs, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.notifs {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint64) error {
	for i := range f.notifs {
		if f.notifs[i].UserID == userID {
			f.notifs[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	var cnt int64
	for _, n := range f.notifs {
		if n.UserID == userID && !n.Read {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeNotificationRepo) forUser(userID uint64) []model.Notification {
	var out []model.Notification
	for _, n := range f.notifs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User)}
}

func (f *fakeUserRepo) SetDB(*gorm.DB) {}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.nextID++
	if user.ID == 0 {
		user.ID = f.nextID
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// captureRelay records everything pushed through it.
type captureRelay struct {
	messages      []model.Message
	notifications []model.Notification
}

func (r *captureRelay) DeliverMessage(msg *model.Message) {
	r.messages = append(r.messages, *msg)
}

func (r *captureRelay) DeliverNotification(n *model.Notification) {
	r.notifications = append(r.notifications, *n)
}
