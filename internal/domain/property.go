package domain

import "time"

// PMSIntegration holds the external listing identifiers attached to a
// property, one per channel. Any of them may be empty.
type PMSIntegration struct {
	PMSListingID        string
	AirbnbListingID     string
	BookingComListingID string
	VrboListingID       string
}

type Coordinates struct {
	Latitude  *float64
	Longitude *float64
}

type Location struct {
	Address        string
	Coordinates    Coordinates
	GoogleMapsLink string
}

type Property struct {
	ID             string
	Name           string
	Location       Location
	PMSIntegration PMSIntegration
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
