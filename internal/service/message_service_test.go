package service

import (
	"context"
	"errors"
	"testing"
)

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name     string
		sender   uint64
		receiver uint64
		listing  uint64
		body     string
	}{
		{"empty body", 1, 2, 3, ""},
		{"whitespace body", 1, 2, 3, "   "},
		{"zero receiver", 1, 0, 3, "hi"},
		{"zero listing", 1, 2, 0, "hi"},
		{"zero sender", 0, 2, 3, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeMessageRepo()
			svc := NewMessageService(repo, nil)
			_, err := svc.Send(context.Background(), tt.sender, tt.receiver, tt.listing, tt.body)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err=%v, want ErrInvalidInput", err)
			}
			if len(repo.msgs) != 0 {
				t.Fatalf("rejected send must not write, got %d messages", len(repo.msgs))
			}
		})
	}
}

func TestSendPersistsThenRelays(t *testing.T) {
	repo := newFakeMessageRepo()
	relay := &captureRelay{}
	svc := NewMessageService(repo, relay)

	msg, err := svc.Send(context.Background(), 7, 3, 42, "Is this still available?")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.ID == 0 || msg.CreatedAt.IsZero() {
		t.Fatalf("message not persisted: %+v", msg)
	}
	if msg.Read {
		t.Fatal("new message must be unread")
	}
	if len(relay.messages) != 1 || relay.messages[0].ID != msg.ID {
		t.Fatalf("relay push missing, got %v", relay.messages)
	}
}

func TestSendRelayNotCalledOnPersistFailure(t *testing.T) {
	repo := newFakeMessageRepo()
	repo.failCreate = errors.New("disk on fire")
	relay := &captureRelay{}
	svc := NewMessageService(repo, relay)

	_, err := svc.Send(context.Background(), 1, 2, 3, "hi")
	if err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want persistence error, got %v", err)
	}
	if len(relay.messages) != 0 {
		t.Fatal("push must happen only after persist")
	}
}

func TestConversationOrdering(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo, nil)
	ctx := context.Background()

	// interleaved directions, plus noise in another listing
	mustSend(t, svc, 1, 2, 10, "a")
	mustSend(t, svc, 2, 1, 10, "b")
	mustSend(t, svc, 1, 2, 99, "other listing")
	mustSend(t, svc, 1, 2, 10, "c")

	msgs, err := svc.Conversation(ctx, 2, 1, 10)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("messages out of order at %d", i)
		}
	}
	if msgs[0].Body != "a" || msgs[1].Body != "b" || msgs[2].Body != "c" {
		t.Fatalf("unexpected bodies: %v %v %v", msgs[0].Body, msgs[1].Body, msgs[2].Body)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo, nil)
	ctx := context.Background()

	mustSend(t, svc, 7, 3, 42, "one")
	mustSend(t, svc, 7, 3, 42, "two")

	if err := svc.MarkRead(ctx, 7, 3, 42); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	first, _ := svc.UnreadTotal(ctx, 3)
	if err := svc.MarkRead(ctx, 7, 3, 42); err != nil {
		t.Fatalf("second mark read failed: %v", err)
	}
	second, _ := svc.UnreadTotal(ctx, 3)
	if first != 0 || second != 0 {
		t.Fatalf("unread after marks: first=%d second=%d, want 0", first, second)
	}
}

func TestUnreadAccounting(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo, nil)
	ctx := context.Background()

	mustSend(t, svc, 1, 9, 10, "a")
	mustSend(t, svc, 2, 9, 10, "b")
	mustSend(t, svc, 1, 9, 20, "c")
	mustSend(t, svc, 9, 1, 20, "outbound, not unread for 9")
	if err := svc.MarkRead(ctx, 2, 9, 10); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	total, err := svc.UnreadTotal(ctx, 9)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	byListing, err := svc.UnreadByListing(ctx, 9)
	if err != nil {
		t.Fatalf("by listing failed: %v", err)
	}
	var sum int64
	for _, cnt := range byListing {
		sum += cnt
	}
	if total != sum {
		t.Fatalf("total %d != sum of per-listing %d", total, sum)
	}
	if byListing[10] != 1 || byListing[20] != 1 {
		t.Fatalf("unexpected per-listing counts: %v", byListing)
	}
}

// The walkthrough from the messaging page: an inquiry lands unread, shows
// up in the receiver's per-listing badge, and opening the thread clears it.
func TestInquiryScenario(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo, nil)
	ctx := context.Background()

	msg, err := svc.Send(ctx, 7, 3, 42, "Is this still available?")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.Read {
		t.Fatal("fresh message must be unread")
	}

	byListing, _ := svc.UnreadByListing(ctx, 3)
	if byListing[42] != 1 {
		t.Fatalf("want {42: 1}, got %v", byListing)
	}

	if err := svc.MarkRead(ctx, 7, 3, 42); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	byListing, _ = svc.UnreadByListing(ctx, 3)
	if byListing[42] != 0 {
		t.Fatalf("want no unread for listing 42, got %v", byListing)
	}
}

func mustSend(t *testing.T, svc MessageService, sender, receiver, listing uint64, body string) {
	t.Helper()
	if _, err := svc.Send(context.Background(), sender, receiver, listing, body); err != nil {
		t.Fatalf("send(%d→%d, listing %d) failed: %v", sender, receiver, listing, err)
	}
}
