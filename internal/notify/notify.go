package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/villasync/internal/kafka"
)

// Sender pushes booking status changes to the mobile apps. Delivery itself
// is handled by the external push gateway; this stub stands in for it.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingSyncEvent) error {
	fmt.Printf("push %s for booking %s (status %s, v%d) triggered by %s\n",
		event.Type, event.BookingID, event.Status, event.SyncVersion, event.TriggeredBy)
	return nil
}
