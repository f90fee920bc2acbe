package service

import "github.com/landseek/backend/internal/model"

// Relay is the best-effort push channel layered on top of the durable
// store. Implementations never block and never report failure; a recipient
// without a live connection simply misses the push and catches up by
// polling.
type Relay interface {
	DeliverMessage(msg *model.Message)
	DeliverNotification(n *model.Notification)
}

// NopRelay satisfies Relay for deployments and tests without a realtime
// transport.
type NopRelay struct{}

func (NopRelay) DeliverMessage(*model.Message)           {}
func (NopRelay) DeliverNotification(*model.Notification) {}
