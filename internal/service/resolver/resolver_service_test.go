package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/villasync/internal/domain"
	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByPMSListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByAirbnbListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByBookingComListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByVrboListingID(ctx context.Context, listingID string) (*domain.Property, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockCache) SetProperties(ctx context.Context, properties []domain.Property) error {
	args := m.Called(ctx, properties)
	return args.Error(0)
}

func villaOne() *domain.Property {
	lat, lng := 8.292, 98.296
	return &domain.Property{
		ID:   "prop-1",
		Name: "Villa Mango",
		Location: domain.Location{
			Address:     "99 Beach Road, Phang Nga",
			Coordinates: domain.Coordinates{Latitude: &lat, Longitude: &lng},
		},
		PMSIntegration: domain.PMSIntegration{
			PMSListingID:    "PMS-100",
			AirbnbListingID: "A123",
		},
	}
}

func TestResolverService_MatchProperty_PMSListingID(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("FindByPMSListingID", ctx, "PMS-100").Return(villaOne(), nil).Once()

	// deliberately wrong display name, it must never be consulted
	result := service.MatchProperty(ctx, MatchInput{
		PMSListingID: "PMS-100",
		PropertyName: "Completely Wrong Name",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "prop-1", result.PropertyID)
	assert.Equal(t, MatchMethodPMSListingID, result.MatchMethod)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.False(t, result.RequiresReview)
	assert.Empty(t, result.Warnings)

	mockRepo.AssertExpectations(t)
}

func TestResolverService_MatchProperty_PriorityOrder(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("FindByPMSListingID", ctx, "PMS-100").Return(villaOne(), nil).Once()

	// both identifiers would match; pmsListingId must win without the
	// airbnb lookup ever running
	result := service.MatchProperty(ctx, MatchInput{
		PMSListingID:    "PMS-100",
		AirbnbListingID: "A123",
	})

	assert.True(t, result.Success)
	assert.Equal(t, MatchMethodPMSListingID, result.MatchMethod)
	assert.Equal(t, ConfidenceHigh, result.Confidence)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "FindByAirbnbListingID")
}

func TestResolverService_MatchProperty_OTAChannels(t *testing.T) {
	testCases := []struct {
		name       string
		input      MatchInput
		lookupCall string
		listingID  string
		method     string
	}{
		{
			name:       "airbnb",
			input:      MatchInput{AirbnbListingID: "A123", PropertyName: "Completely Wrong Name"},
			lookupCall: "FindByAirbnbListingID",
			listingID:  "A123",
			method:     MatchMethodAirbnbListingID,
		},
		{
			name:       "booking.com",
			input:      MatchInput{BookingComListingID: "BC55"},
			lookupCall: "FindByBookingComListingID",
			listingID:  "BC55",
			method:     MatchMethodBookingComListingID,
		},
		{
			name:       "vrbo",
			input:      MatchInput{VrboListingID: "V9"},
			lookupCall: "FindByVrboListingID",
			listingID:  "V9",
			method:     MatchMethodVrboListingID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockPropertyRepository{}
			service := NewResolverService(mockRepo, nil)

			ctx := context.Background()
			mockRepo.On(tc.lookupCall, ctx, tc.listingID).Return(villaOne(), nil).Once()

			result := service.MatchProperty(ctx, tc.input)

			assert.True(t, result.Success)
			assert.Equal(t, "prop-1", result.PropertyID)
			assert.Equal(t, tc.method, result.MatchMethod)
			assert.Equal(t, ConfidenceMedium, result.Confidence)
			assert.NotEmpty(t, result.Warnings)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestResolverService_MatchProperty_ExternalIDOverride(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, "prop-1").Return(villaOne(), nil).Once()

	result := service.MatchProperty(ctx, MatchInput{PropertyExternalID: "prop-1"})

	assert.True(t, result.Success)
	assert.Equal(t, MatchMethodPropertyExternalID, result.MatchMethod)
	assert.Equal(t, ConfidenceMedium, result.Confidence)

	mockRepo.AssertExpectations(t)
}

func TestResolverService_MatchProperty_NoIdentifiers(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	result := service.MatchProperty(context.Background(), MatchInput{PropertyName: "Villa Nowhere"})

	assert.False(t, result.Success)
	assert.Equal(t, MatchMethodNone, result.MatchMethod)
	assert.Equal(t, ConfidenceLow, result.Confidence)
	assert.True(t, result.RequiresReview)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "Villa Nowhere")

	mockRepo.AssertNotCalled(t, "FindByPMSListingID")
}

func TestResolverService_MatchProperty_FallsThroughUnmatchedLevel(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("FindByPMSListingID", ctx, "PMS-404").Return(nil, repository.ErrPropertyNotFound).Once()
	mockRepo.On("FindByAirbnbListingID", ctx, "A123").Return(villaOne(), nil).Once()

	result := service.MatchProperty(ctx, MatchInput{
		PMSListingID:    "PMS-404",
		AirbnbListingID: "A123",
	})

	assert.True(t, result.Success)
	assert.Equal(t, MatchMethodAirbnbListingID, result.MatchMethod)
	assert.Equal(t, ConfidenceMedium, result.Confidence)
	assert.Contains(t, result.Warnings[0], "PMS-404")

	mockRepo.AssertExpectations(t)
}

func TestResolverService_MatchProperty_StoreErrorDegrades(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("FindByPMSListingID", ctx, "PMS-100").Return(nil, errors.New("connection reset")).Once()
	mockRepo.On("FindByAirbnbListingID", ctx, "A123").Return(villaOne(), nil).Once()

	result := service.MatchProperty(ctx, MatchInput{
		PMSListingID:    "PMS-100",
		AirbnbListingID: "A123",
	})

	assert.True(t, result.Success)
	assert.Equal(t, MatchMethodAirbnbListingID, result.MatchMethod)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "pmsListingId lookup failed")

	mockRepo.AssertExpectations(t)
}

func TestResolverService_MatchProperty_NothingResolves(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	service := NewResolverService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("FindByPMSListingID", ctx, "PMS-404").Return(nil, repository.ErrPropertyNotFound).Once()
	mockRepo.On("FindByVrboListingID", ctx, "V-404").Return(nil, repository.ErrPropertyNotFound).Once()

	result := service.MatchProperty(ctx, MatchInput{
		PMSListingID:  "PMS-404",
		VrboListingID: "V-404",
		PropertyName:  "Villa Mango",
	})

	assert.False(t, result.Success)
	assert.True(t, result.RequiresReview)
	assert.Equal(t, MatchMethodNone, result.MatchMethod)
	assert.Len(t, result.Warnings, 3)

	mockRepo.AssertExpectations(t)
}

func TestResolverService_ValidatePropertyForJobCreation(t *testing.T) {
	service := NewResolverService(nil, nil)

	t.Run("complete property", func(t *testing.T) {
		assert.Empty(t, service.ValidatePropertyForJobCreation(villaOne()))
	})

	t.Run("missing fields", func(t *testing.T) {
		lat := 8.292
		property := &domain.Property{
			Location: domain.Location{Coordinates: domain.Coordinates{Latitude: &lat}},
		}
		missing := service.ValidatePropertyForJobCreation(property)
		assert.Equal(t, []string{"name", "location.address", "location.coordinates.longitude"}, missing)
	})

	t.Run("nil property", func(t *testing.T) {
		assert.Len(t, service.ValidatePropertyForJobCreation(nil), 4)
	})
}

func TestResolverService_GenerateGoogleMapsLink(t *testing.T) {
	service := NewResolverService(nil, nil)

	t.Run("coordinates preferred", func(t *testing.T) {
		link := service.GenerateGoogleMapsLink(villaOne())
		assert.Contains(t, link, "https://www.google.com/maps?q=")
		assert.Contains(t, link, "8.292")
	})

	t.Run("address fallback", func(t *testing.T) {
		property := &domain.Property{Location: domain.Location{Address: "99 Beach Road"}}
		link := service.GenerateGoogleMapsLink(property)
		assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=99+Beach+Road", link)
	})

	t.Run("nothing available", func(t *testing.T) {
		assert.Equal(t, "", service.GenerateGoogleMapsLink(&domain.Property{}))
	})
}

func TestResolverService_ListProperties_CacheMiss(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	mockCache := &MockCache{}
	service := NewResolverService(mockRepo, mockCache)

	ctx := context.Background()
	properties := []domain.Property{*villaOne()}

	mockCache.On("GetProperties", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx).Return(properties, nil).Once()
	mockCache.On("SetProperties", ctx, properties).Return(nil).Once()

	got, err := service.ListProperties(ctx)

	assert.NoError(t, err)
	assert.Equal(t, properties, got)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestResolverService_ListProperties_CacheHit(t *testing.T) {
	mockRepo := &MockPropertyRepository{}
	mockCache := &MockCache{}
	service := NewResolverService(mockRepo, mockCache)

	ctx := context.Background()
	properties := []domain.Property{*villaOne()}

	mockCache.On("GetProperties", ctx).Return(properties, nil).Once()

	got, err := service.ListProperties(ctx)

	assert.NoError(t, err)
	assert.Equal(t, properties, got)

	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "List")
}
