package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingApproval BookingStatus = "pending_approval"
	BookingStatusApproved        BookingStatus = "approved"
	BookingStatusRejected        BookingStatus = "rejected"
)

// BookingTable names the physical tables a booking document may live in.
// The same logical booking can exist in more than one of them at once,
// correlated by DuplicateCheckHash.
type BookingTable string

const (
	TablePendingBookings BookingTable = "pending_bookings"
	TableBookings        BookingTable = "bookings"
	TableLiveBookings    BookingTable = "live_bookings"
)

type Booking struct {
	ID                 string
	GuestName          string
	PropertyID         string
	PropertyName       string // display only, never used for matching
	CheckInDate        time.Time
	CheckOutDate       time.Time
	Status             BookingStatus
	SyncVersion        int64
	DuplicateCheckHash string
	ApprovedAt         *time.Time
	ApprovedBy         string
	RejectedAt         *time.Time
	RejectedBy         string
	RejectionReason    string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ApprovalAction is an immutable audit record, one per approval decision.
type ApprovalAction struct {
	ID        string
	BookingID string
	Action    string
	AdminID   string
	AdminName string
	Notes     string
	Reason    string
	Timestamp time.Time
}

// SyncEvent is an append-only notification record for downstream platforms.
// Synced is false at creation; only downstream consumers flip it.
type SyncEvent struct {
	ID          string
	Type        string
	EntityID    string
	EntityType  string
	TriggeredBy string
	Platform    string
	Changes     map[string]interface{}
	Synced      bool
	Timestamp   time.Time
}

const (
	SyncEventBookingApproved = "booking_approved"
	SyncEventBookingRejected = "booking_rejected"
)
