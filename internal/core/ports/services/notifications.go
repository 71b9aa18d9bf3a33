package services

import (
	"context"

	"github.com/commercio/posting_engine/internal/core/domain"
)

// NotificationsGateway receives posting events for outbound messaging.
// Delivery is fire-and-forget: it runs after the owning transaction commits
// and its failure must never roll a posting back.
type NotificationsGateway interface {
	Notify(ctx context.Context, event domain.PostingEvent) error
}
