package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	List(ctx context.Context) ([]domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	FindByPMSListingID(ctx context.Context, listingID string) (*domain.Property, error)
	FindByAirbnbListingID(ctx context.Context, listingID string) (*domain.Property, error)
	FindByBookingComListingID(ctx context.Context, listingID string) (*domain.Property, error)
	FindByVrboListingID(ctx context.Context, listingID string) (*domain.Property, error)
}

type PGPropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) PropertyRepository {
	return &PGPropertyRepository{db: db}
}

const propertyColumns = `id, name, address, latitude, longitude, google_maps_link, pms_listing_id, airbnb_listing_id, booking_com_listing_id, vrbo_listing_id, created_at, updated_at`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	if err := row.Scan(&p.ID, &p.Name, &p.Location.Address, &p.Location.Coordinates.Latitude, &p.Location.Coordinates.Longitude,
		&p.Location.GoogleMapsLink, &p.PMSIntegration.PMSListingID, &p.PMSIntegration.AirbnbListingID,
		&p.PMSIntegration.BookingComListingID, &p.PMSIntegration.VrboListingID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.Query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Location.Address, &p.Location.Coordinates.Latitude, &p.Location.Coordinates.Longitude,
			&p.Location.GoogleMapsLink, &p.PMSIntegration.PMSListingID, &p.PMSIntegration.AirbnbListingID,
			&p.PMSIntegration.BookingComListingID, &p.PMSIntegration.VrboListingID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *PGPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	return scanProperty(r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id))
}

func (r *PGPropertyRepository) findByListingColumn(ctx context.Context, column, listingID string) (*domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s=$1 LIMIT 1`, propertyColumns, column)
	return scanProperty(r.db.QueryRow(ctx, query, listingID))
}

func (r *PGPropertyRepository) FindByPMSListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	return r.findByListingColumn(ctx, "pms_listing_id", listingID)
}

func (r *PGPropertyRepository) FindByAirbnbListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	return r.findByListingColumn(ctx, "airbnb_listing_id", listingID)
}

func (r *PGPropertyRepository) FindByBookingComListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	return r.findByListingColumn(ctx, "booking_com_listing_id", listingID)
}

func (r *PGPropertyRepository) FindByVrboListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	return r.findByListingColumn(ctx, "vrbo_listing_id", listingID)
}

var _ PropertyRepository = (*PGPropertyRepository)(nil)
