package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/landseek/backend/internal/model"
)

// Relay pushes freshly persisted messages and notifications to the
// recipient's live connection. It is fire-and-forget: no queue, no retry,
// no acknowledgment. The durable store stays the source of truth and
// offline recipients catch up by polling.
type Relay struct {
	registry *Registry
	log      *slog.Logger
}

func NewRelay(registry *Registry, log *slog.Logger) *Relay {
	return &Relay{registry: registry, log: log}
}

type messageEvent struct {
	Type       string `json:"type"`
	ID         uint64 `json:"id"`
	SenderID   uint64 `json:"senderId"`
	ReceiverID uint64 `json:"receiverId"`
	ListingID  uint64 `json:"listingId"`
	Body       string `json:"body"`
	Read       bool   `json:"read"`
	TS         int64  `json:"ts"`
}

type notificationEvent struct {
	Type        string  `json:"type"`
	ID          uint64  `json:"id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	SubjectType string  `json:"subjectType,omitempty"`
	SubjectID   *uint64 `json:"subjectId,omitempty"`
	TS          int64   `json:"ts"`
}

func (r *Relay) DeliverMessage(msg *model.Message) {
	payload, err := json.Marshal(messageEvent{
		Type:       "message",
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		ListingID:  msg.ListingID,
		Body:       msg.Body,
		Read:       msg.Read,
		TS:         msg.CreatedAt.Unix(),
	})
	if err != nil {
		return
	}
	r.push(msg.ReceiverID, payload)
}

func (r *Relay) DeliverNotification(n *model.Notification) {
	payload, err := json.Marshal(notificationEvent{
		Type:        "notification",
		ID:          n.ID,
		Kind:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		SubjectType: n.SubjectType,
		SubjectID:   n.SubjectID,
		TS:          n.CreatedAt.Unix(),
	})
	if err != nil {
		return
	}
	r.push(n.UserID, payload)
}

func (r *Relay) push(userID uint64, payload []byte) {
	conn, ok := r.registry.Lookup(userID)
	if !ok {
		// expected outcome, not a failure: the recipient polls instead
		return
	}
	if !conn.TrySend(payload) {
		r.log.Debug("relay: dropped push, client buffer full", "user", userID)
	}
}
