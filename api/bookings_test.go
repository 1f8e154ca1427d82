package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/Domenick1991/villasync/internal/service/approval"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockApprovalUseCase is a mock implementation of approval.ApprovalUseCase
type MockApprovalUseCase struct {
	mock.Mock
}

func (m *MockApprovalUseCase) ApproveOrReject(ctx context.Context, input approval.ApprovalInput) (*approval.ApprovalResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.ApprovalResult), args.Error(1)
}

func decisionRequest(t *testing.T, input approval.ApprovalInput) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/bookings/decision", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestBookingHandler_decide(t *testing.T) {
	mockService := &MockApprovalUseCase{}
	handler := NewBookingHandler(mockService)

	input := approval.ApprovalInput{BookingID: "b1", Action: "approve", AdminID: "admin1"}
	w, c := decisionRequest(t, input)

	mockService.On("ApproveOrReject", c.Request.Context(), input).Return(&approval.ApprovalResult{
		Success:    true,
		BookingID:  "b1",
		NewStatus:  "approved",
		ApprovedBy: "admin1",
		Message:    "booking b1 approved by admin1",
	}, nil)

	handler.decide(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response approval.ApprovalResult
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "approved", response.NewStatus)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_decide_invalidInput(t *testing.T) {
	mockService := &MockApprovalUseCase{}
	handler := NewBookingHandler(mockService)

	input := approval.ApprovalInput{BookingID: "b1", Action: "archive", AdminID: "admin1"}
	w, c := decisionRequest(t, input)

	mockService.On("ApproveOrReject", c.Request.Context(), input).Return(nil, approval.ErrInvalidInput)

	handler.decide(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_decide_notFound(t *testing.T) {
	mockService := &MockApprovalUseCase{}
	handler := NewBookingHandler(mockService)

	input := approval.ApprovalInput{BookingID: "ghost", Action: "approve", AdminID: "admin1"}
	w, c := decisionRequest(t, input)

	mockService.On("ApproveOrReject", c.Request.Context(), input).Return(nil, repository.ErrBookingNotFound)

	handler.decide(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
