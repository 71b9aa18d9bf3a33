package notify

import (
	"context"

	"github.com/commercio/posting_engine/internal/core/domain"
	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
	"github.com/commercio/posting_engine/internal/platform/logging"
)

// SlogNotifier records posting events on the structured logger. It is the
// default gateway when no webhook is configured.
type SlogNotifier struct{}

var _ portssvc.NotificationsGateway = (*SlogNotifier)(nil)

func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

func (n *SlogNotifier) Notify(ctx context.Context, event domain.PostingEvent) error {
	logger := logging.FromContext(ctx)
	logger.Info("posting event",
		"kind", event.Kind,
		"documentID", event.DocumentID,
		"summary", event.Summary,
	)
	return nil
}
