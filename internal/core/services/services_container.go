package services

import (
	"time"

	"github.com/commercio/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
)

// NewServiceContainer wires every engine service against the shared
// repository provider.
func NewServiceContainer(repos repositories.RepositoryProvider, notifier portssvc.NotificationsGateway, clock portssvc.Clock, txTimeout time.Duration, acceptOnFullPurchasePayment bool) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Posting: NewPostingEngine(repos, notifier, clock, txTimeout, acceptOnFullPurchasePayment),
		Payment: NewPaymentAllocator(repos, notifier, clock, txTimeout, acceptOnFullPurchasePayment),
	}
}
