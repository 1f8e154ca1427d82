package approval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/Domenick1991/villasync/internal/kafka"
	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/google/uuid"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

var ErrInvalidInput = errors.New("invalid approval input")

type ApprovalInput struct {
	BookingID string `json:"bookingId"`
	Action    string `json:"action"`
	AdminID   string `json:"adminId"`
	AdminName string `json:"adminName"`
	Notes     string `json:"notes"`
	Reason    string `json:"reason"`
}

type ApprovalResult struct {
	Success    bool     `json:"success"`
	BookingID  string   `json:"bookingId"`
	NewStatus  string   `json:"newStatus"`
	ApprovedBy string   `json:"approvedBy"`
	Message    string   `json:"message"`
	Warnings   []string `json:"warnings,omitempty"`
}

type ApprovalUseCase interface {
	ApproveOrReject(ctx context.Context, input ApprovalInput) (*ApprovalResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PostApprovalHook runs after a successful approve transition. Hooks are
// best effort: a failing hook is logged and never blocks the transition or
// the remaining hooks.
type PostApprovalHook func(ctx context.Context, booking *domain.Booking) error

type ApprovalService struct {
	bookings           repository.BookingRepository
	producer           Producer
	syncTopic          string
	notificationsTopic string
	optimisticLock     bool
	lockRetries        int
	hooks              []PostApprovalHook
}

type ApprovalServiceOption func(*ApprovalService)

func WithNotificationsTopic(topic string) ApprovalServiceOption {
	return func(s *ApprovalService) {
		s.notificationsTopic = topic
	}
}

// WithOptimisticLock turns the status write into a compare-and-increment on
// sync_version, retried a bounded number of times on conflict. Off by
// default: the stock behavior is last-write-wins.
func WithOptimisticLock(retries int) ApprovalServiceOption {
	return func(s *ApprovalService) {
		s.optimisticLock = true
		s.lockRetries = retries
	}
}

func WithPostApprovalHook(hook PostApprovalHook) ApprovalServiceOption {
	return func(s *ApprovalService) {
		s.hooks = append(s.hooks, hook)
	}
}

func NewApprovalService(
	bookings repository.BookingRepository,
	producer Producer,
	syncTopic string,
	opts ...ApprovalServiceOption,
) *ApprovalService {
	service := &ApprovalService{
		bookings:  bookings,
		producer:  producer,
		syncTopic: syncTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func validate(input ApprovalInput) error {
	if input.BookingID == "" {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if input.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidInput)
	}
	if input.AdminID == "" {
		return fmt.Errorf("%w: adminId is required", ErrInvalidInput)
	}
	if input.Action != ActionApprove && input.Action != ActionReject {
		return fmt.Errorf("%w: action must be %q or %q", ErrInvalidInput, ActionApprove, ActionReject)
	}
	return nil
}

// ApproveOrReject locates the booking across the three tables, applies the
// status transition where the record actually lives, fans the update out to
// hash-correlated duplicates, and appends one audit record and one sync
// event. Only the primary update is authoritative; every later step is best
// effort and reported through the result's warnings.
func (s *ApprovalService) ApproveOrReject(ctx context.Context, input ApprovalInput) (*ApprovalResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	booking, table, err := s.bookings.FindAny(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := repository.DecisionUpdate{Notes: input.Notes}
	if input.Action == ActionApprove {
		update.Status = domain.BookingStatusApproved
		update.ApprovedAt = &now
		update.ApprovedBy = input.AdminID
	} else {
		update.Status = domain.BookingStatusRejected
		update.RejectedAt = &now
		update.RejectedBy = input.AdminID
		update.RejectionReason = input.Reason
	}

	updated, err := s.applyPrimary(ctx, booking, table, input.BookingID, update)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if updated.DuplicateCheckHash != "" {
		count, errs := s.bookings.PropagateByHash(ctx, table, updated.DuplicateCheckHash, update)
		for _, perr := range errs {
			log.Printf("booking %s: %v", updated.ID, perr)
			warnings = append(warnings, perr.Error())
		}
		if count > 0 {
			log.Printf("booking %s: propagated %s to %d duplicate record(s)", updated.ID, update.Status, count)
		}
	}

	action := &domain.ApprovalAction{
		ID:        uuid.NewString(),
		BookingID: updated.ID,
		Action:    input.Action,
		AdminID:   input.AdminID,
		AdminName: input.AdminName,
		Notes:     input.Notes,
		Reason:    input.Reason,
		Timestamp: now,
	}
	if err := s.bookings.InsertApprovalAction(ctx, action); err != nil {
		log.Printf("booking %s: record approval action: %v", updated.ID, err)
		warnings = append(warnings, fmt.Sprintf("approval action not recorded: %v", err))
	}

	warnings = append(warnings, s.emitSyncEvent(ctx, updated, input, now)...)

	if input.Action == ActionApprove {
		for _, hook := range s.hooks {
			if err := hook(ctx, updated); err != nil {
				log.Printf("booking %s: post-approval hook: %v", updated.ID, err)
				warnings = append(warnings, fmt.Sprintf("post-approval hook failed: %v", err))
			}
		}
	}

	return &ApprovalResult{
		Success:    true,
		BookingID:  updated.ID,
		NewStatus:  string(updated.Status),
		ApprovedBy: input.AdminID,
		Message:    fmt.Sprintf("booking %s %s by %s", updated.ID, updated.Status, input.AdminID),
		Warnings:   warnings,
	}, nil
}

func (s *ApprovalService) applyPrimary(ctx context.Context, booking *domain.Booking, table domain.BookingTable, id string, update repository.DecisionUpdate) (*domain.Booking, error) {
	if !s.optimisticLock {
		return s.bookings.ApplyDecision(ctx, table, id, update)
	}

	for attempt := 0; ; attempt++ {
		expected := booking.SyncVersion
		update.ExpectedSyncVersion = &expected
		updated, err := s.bookings.ApplyDecision(ctx, table, id, update)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) || attempt >= s.lockRetries {
			return nil, err
		}
		booking, table, err = s.bookings.FindAny(ctx, id)
		if err != nil {
			return nil, err
		}
	}
}

func (s *ApprovalService) emitSyncEvent(ctx context.Context, booking *domain.Booking, input ApprovalInput, now time.Time) []string {
	eventType := domain.SyncEventBookingApproved
	if input.Action == ActionReject {
		eventType = domain.SyncEventBookingRejected
	}

	changes := map[string]interface{}{
		"status":      string(booking.Status),
		"syncVersion": booking.SyncVersion,
	}
	if input.Reason != "" {
		changes["rejectionReason"] = input.Reason
	}

	var warnings []string
	event := &domain.SyncEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		EntityID:    booking.ID,
		EntityType:  "booking",
		TriggeredBy: input.AdminID,
		Platform:    "all",
		Changes:     changes,
		Synced:      false,
		Timestamp:   now,
	}
	if err := s.bookings.InsertSyncEvent(ctx, event); err != nil {
		log.Printf("booking %s: record sync event: %v", booking.ID, err)
		warnings = append(warnings, fmt.Sprintf("sync event not recorded: %v", err))
	}

	if s.producer != nil && s.syncTopic != "" {
		payload := kafka.BookingSyncEvent{
			Type:        eventType,
			BookingID:   booking.ID,
			EntityType:  "booking",
			TriggeredBy: input.AdminID,
			Status:      string(booking.Status),
			SyncVersion: booking.SyncVersion,
			Platform:    event.Platform,
			Changes:     changes,
			Timestamp:   now,
		}
		if err := s.producer.Publish(ctx, s.syncTopic, booking.ID, payload); err != nil {
			log.Printf("booking %s: publish sync event: %v", booking.ID, err)
			warnings = append(warnings, fmt.Sprintf("sync event not published: %v", err))
		}
		if s.notificationsTopic != "" {
			if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, payload); err != nil {
				log.Printf("booking %s: publish notification: %v", booking.ID, err)
				warnings = append(warnings, fmt.Sprintf("notification not published: %v", err))
			}
		}
	}
	return warnings
}

var _ ApprovalUseCase = (*ApprovalService)(nil)
