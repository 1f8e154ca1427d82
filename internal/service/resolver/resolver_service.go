package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/Domenick1991/villasync/internal/repository"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const (
	MatchMethodPMSListingID        = "pmsListingId"
	MatchMethodAirbnbListingID     = "airbnbListingId"
	MatchMethodBookingComListingID = "bookingComListingId"
	MatchMethodVrboListingID       = "vrboListingId"
	MatchMethodPropertyExternalID  = "propertyExternalId"
	MatchMethodNone                = "none"
)

// MatchInput carries the external identifiers from an inbound PMS/OTA
// booking payload. PropertyName is display-only and never consulted.
type MatchInput struct {
	PMSListingID        string `json:"pmsListingId"`
	AirbnbListingID     string `json:"airbnbListingId"`
	BookingComListingID string `json:"bookingComListingId"`
	VrboListingID       string `json:"vrboListingId"`
	PropertyExternalID  string `json:"propertyExternalId"`
	PropertyName        string `json:"propertyName"`
}

type MatchResult struct {
	Success        bool             `json:"success"`
	PropertyID     string           `json:"propertyId,omitempty"`
	Property       *domain.Property `json:"property,omitempty"`
	MatchMethod    string           `json:"matchMethod"`
	Confidence     string           `json:"confidence"`
	RequiresReview bool             `json:"requiresReview"`
	Warnings       []string         `json:"warnings,omitempty"`
	Errors         []string         `json:"errors,omitempty"`
}

type ResolverUseCase interface {
	MatchProperty(ctx context.Context, input MatchInput) MatchResult
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	ValidatePropertyForJobCreation(property *domain.Property) []string
	GenerateGoogleMapsLink(property *domain.Property) string
}

type Cache interface {
	GetProperties(ctx context.Context) ([]domain.Property, error)
	SetProperties(ctx context.Context, properties []domain.Property) error
}

type ResolverService struct {
	properties repository.PropertyRepository
	cache      Cache
}

func NewResolverService(properties repository.PropertyRepository, cache Cache) *ResolverService {
	return &ResolverService{properties: properties, cache: cache}
}

type matchStep struct {
	method     string
	listingID  string
	confidence string
	lookup     func(ctx context.Context, id string) (*domain.Property, error)
	warning    string
}

// MatchProperty resolves a property by exact-match lookups in strict
// priority order; first hit wins. A lookup failure at one level is recorded
// and resolution continues down the chain. No match is an expected outcome
// returned as a requires-review result, never as an error. Fuzzy matching
// on the display name is deliberately not done: a wrong-property match
// misroutes staff and financial attribution.
func (s *ResolverService) MatchProperty(ctx context.Context, input MatchInput) MatchResult {
	steps := []matchStep{
		{
			method:     MatchMethodPMSListingID,
			listingID:  input.PMSListingID,
			confidence: ConfidenceHigh,
			lookup:     s.properties.FindByPMSListingID,
		},
		{
			method:     MatchMethodAirbnbListingID,
			listingID:  input.AirbnbListingID,
			confidence: ConfidenceMedium,
			lookup:     s.properties.FindByAirbnbListingID,
			warning:    "matched via airbnbListingId; backfill a pmsListingId for a high-confidence match",
		},
		{
			method:     MatchMethodBookingComListingID,
			listingID:  input.BookingComListingID,
			confidence: ConfidenceMedium,
			lookup:     s.properties.FindByBookingComListingID,
			warning:    "matched via bookingComListingId; backfill a pmsListingId for a high-confidence match",
		},
		{
			method:     MatchMethodVrboListingID,
			listingID:  input.VrboListingID,
			confidence: ConfidenceMedium,
			lookup:     s.properties.FindByVrboListingID,
			warning:    "matched via vrboListingId; backfill a pmsListingId for a high-confidence match",
		},
		{
			method:     MatchMethodPropertyExternalID,
			listingID:  input.PropertyExternalID,
			confidence: ConfidenceMedium,
			lookup:     s.properties.GetByID,
			warning:    "matched via manual propertyExternalId override",
		},
	}

	var warnings, errs []string
	for _, step := range steps {
		if step.listingID == "" {
			continue
		}
		property, err := step.lookup(ctx, step.listingID)
		if err != nil {
			if errors.Is(err, repository.ErrPropertyNotFound) {
				warnings = append(warnings, fmt.Sprintf("no property with %s %q", step.method, step.listingID))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s lookup failed: %v", step.method, err))
			continue
		}

		if step.warning != "" {
			warnings = append(warnings, step.warning)
		}
		return MatchResult{
			Success:     true,
			PropertyID:  property.ID,
			Property:    property,
			MatchMethod: step.method,
			Confidence:  step.confidence,
			Warnings:    warnings,
			Errors:      errs,
		}
	}

	warnings = append(warnings, fmt.Sprintf("no identifier matched a property; unmatched property name: %q", input.PropertyName))
	return MatchResult{
		Success:        false,
		MatchMethod:    MatchMethodNone,
		Confidence:     ConfidenceLow,
		RequiresReview: true,
		Warnings:       warnings,
		Errors:         errs,
	}
}

func (s *ResolverService) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return s.properties.GetByID(ctx, id)
}

func (s *ResolverService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProperties(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetProperties(ctx, properties)
	}
	return properties, nil
}

// ValidatePropertyForJobCreation returns the names of fields a staff job
// needs that the property is missing. Callers decide what to do with
// partial data.
func (s *ResolverService) ValidatePropertyForJobCreation(property *domain.Property) []string {
	missing := make([]string, 0)
	if property == nil {
		return []string{"name", "location.address", "location.coordinates.latitude", "location.coordinates.longitude"}
	}
	if property.Name == "" {
		missing = append(missing, "name")
	}
	if property.Location.Address == "" {
		missing = append(missing, "location.address")
	}
	if property.Location.Coordinates.Latitude == nil {
		missing = append(missing, "location.coordinates.latitude")
	}
	if property.Location.Coordinates.Longitude == nil {
		missing = append(missing, "location.coordinates.longitude")
	}
	return missing
}

// GenerateGoogleMapsLink prefers exact coordinates, falls back to an
// address search, and returns "" when neither is available.
func (s *ResolverService) GenerateGoogleMapsLink(property *domain.Property) string {
	if property == nil {
		return ""
	}
	coords := property.Location.Coordinates
	if coords.Latitude != nil && coords.Longitude != nil {
		return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", *coords.Latitude, *coords.Longitude)
	}
	if property.Location.Address != "" {
		return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(property.Location.Address)
	}
	return ""
}

var _ ResolverUseCase = (*ResolverService)(nil)
