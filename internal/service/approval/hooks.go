package approval

import (
	"context"
	"log"

	"github.com/Domenick1991/villasync/internal/domain"
)

// StaffAssignmentHook is the extension point for automatic cleaning and
// maintenance job creation on approval. Assignment generation currently
// runs in a separate background service watching the primary table, so the
// hook only logs; enable real generation here once that service is retired.
func StaffAssignmentHook() PostApprovalHook {
	return func(ctx context.Context, booking *domain.Booking) error {
		log.Printf("booking %s: staff assignment delegated to background service", booking.ID)
		return nil
	}
}

// CalendarEventHook is the extension point for calendar event creation on
// approval. The calendar integration listens for approved bookings on its
// own, so the hook only logs for now.
func CalendarEventHook() PostApprovalHook {
	return func(ctx context.Context, booking *domain.Booking) error {
		log.Printf("booking %s: calendar event creation delegated to calendar listener", booking.ID)
		return nil
	}
}
