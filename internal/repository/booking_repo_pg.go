package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrVersionConflict = errors.New("sync version conflict")
)

// probeOrder is the fixed search order for locating a booking across the
// three physical tables.
var probeOrder = []domain.BookingTable{
	domain.TablePendingBookings,
	domain.TableBookings,
	domain.TableLiveBookings,
}

// DecisionUpdate carries the fields written by an approve/reject transition.
// ExpectedSyncVersion, when set, turns the write into a compare-and-increment.
type DecisionUpdate struct {
	Status              domain.BookingStatus
	ApprovedAt          *time.Time
	ApprovedBy          string
	RejectedAt          *time.Time
	RejectedBy          string
	RejectionReason     string
	Notes               string
	ExpectedSyncVersion *int64
}

type BookingRepository interface {
	FindAny(ctx context.Context, id string) (*domain.Booking, domain.BookingTable, error)
	ApplyDecision(ctx context.Context, table domain.BookingTable, id string, update DecisionUpdate) (*domain.Booking, error)
	PropagateByHash(ctx context.Context, exclude domain.BookingTable, hash string, update DecisionUpdate) (int64, []error)
	InsertApprovalAction(ctx context.Context, action *domain.ApprovalAction) error
	InsertSyncEvent(ctx context.Context, event *domain.SyncEvent) error
	ListUnsyncedEvents(ctx context.Context, limit int) ([]domain.SyncEvent, error)
	MarkEventSynced(ctx context.Context, id string) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, guest_name, property_id, property_name, check_in_date, check_out_date, status, sync_version, duplicate_check_hash, approved_at, approved_by, rejected_at, rejected_by, rejection_reason, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.GuestName, &b.PropertyID, &b.PropertyName, &b.CheckInDate, &b.CheckOutDate,
		&b.Status, &b.SyncVersion, &b.DuplicateCheckHash, &b.ApprovedAt, &b.ApprovedBy,
		&b.RejectedAt, &b.RejectedBy, &b.RejectionReason, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) FindAny(ctx context.Context, id string) (*domain.Booking, domain.BookingTable, error) {
	for _, table := range probeOrder {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, bookingColumns, table)
		b, err := scanBooking(r.db.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, "", err
		}
		return b, table, nil
	}
	return nil, "", ErrBookingNotFound
}

func (r *PGBookingRepository) ApplyDecision(ctx context.Context, table domain.BookingTable, id string, update DecisionUpdate) (*domain.Booking, error) {
	query := fmt.Sprintf(`UPDATE %s SET status=$1, updated_at=now(), sync_version=sync_version+1,
		approved_at=COALESCE($2, approved_at), approved_by=CASE WHEN $3 <> '' THEN $3 ELSE approved_by END,
		rejected_at=COALESCE($4, rejected_at), rejected_by=CASE WHEN $5 <> '' THEN $5 ELSE rejected_by END,
		rejection_reason=CASE WHEN $6 <> '' THEN $6 ELSE rejection_reason END,
		notes=CASE WHEN $7 <> '' THEN $7 ELSE notes END
		WHERE id=$8`, table)
	args := []interface{}{update.Status, update.ApprovedAt, update.ApprovedBy, update.RejectedAt, update.RejectedBy, update.RejectionReason, update.Notes, id}
	if update.ExpectedSyncVersion != nil {
		query += ` AND sync_version=$9`
		args = append(args, *update.ExpectedSyncVersion)
	}
	query += ` RETURNING ` + bookingColumns

	b, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if update.ExpectedSyncVersion != nil {
				return nil, ErrVersionConflict
			}
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// PropagateByHash applies the same decision to rows in the other two tables
// that share the booking's duplicate-check hash. Best effort: per-table
// failures are returned for logging, never rolled back.
func (r *PGBookingRepository) PropagateByHash(ctx context.Context, exclude domain.BookingTable, hash string, update DecisionUpdate) (int64, []error) {
	var updated int64
	var errs []error
	for _, table := range probeOrder {
		if table == exclude {
			continue
		}
		query := fmt.Sprintf(`UPDATE %s SET status=$1, updated_at=now(), sync_version=sync_version+1,
			approved_at=COALESCE($2, approved_at), approved_by=CASE WHEN $3 <> '' THEN $3 ELSE approved_by END,
			rejected_at=COALESCE($4, rejected_at), rejected_by=CASE WHEN $5 <> '' THEN $5 ELSE rejected_by END,
			rejection_reason=CASE WHEN $6 <> '' THEN $6 ELSE rejection_reason END,
			notes=CASE WHEN $7 <> '' THEN $7 ELSE notes END
			WHERE duplicate_check_hash=$8`, table)
		cmd, err := r.db.Exec(ctx, query, update.Status, update.ApprovedAt, update.ApprovedBy, update.RejectedAt, update.RejectedBy, update.RejectionReason, update.Notes, hash)
		if err != nil {
			errs = append(errs, fmt.Errorf("propagate to %s: %w", table, err))
			continue
		}
		updated += cmd.RowsAffected()
	}
	return updated, errs
}

func (r *PGBookingRepository) InsertApprovalAction(ctx context.Context, action *domain.ApprovalAction) error {
	_, err := r.db.Exec(ctx, `INSERT INTO booking_approvals (id, booking_id, action, admin_id, admin_name, notes, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		action.ID, action.BookingID, action.Action, action.AdminID, action.AdminName, action.Notes, action.Reason, action.Timestamp)
	return err
}

func (r *PGBookingRepository) InsertSyncEvent(ctx context.Context, event *domain.SyncEvent) error {
	changes, err := json.Marshal(event.Changes)
	if err != nil {
		return fmt.Errorf("marshal sync event changes: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO sync_events (id, type, entity_id, entity_type, triggered_by, platform, changes, synced, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Type, event.EntityID, event.EntityType, event.TriggeredBy, event.Platform, changes, event.Synced, event.Timestamp)
	return err
}

func (r *PGBookingRepository) ListUnsyncedEvents(ctx context.Context, limit int) ([]domain.SyncEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, entity_id, entity_type, triggered_by, platform, changes, synced, timestamp
		FROM sync_events WHERE synced=false ORDER BY timestamp LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.SyncEvent
	for rows.Next() {
		var e domain.SyncEvent
		var changes []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.EntityID, &e.EntityType, &e.TriggeredBy, &e.Platform, &changes, &e.Synced, &e.Timestamp); err != nil {
			return nil, err
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, err
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGBookingRepository) MarkEventSynced(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sync_events SET synced=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("sync event not found")
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
