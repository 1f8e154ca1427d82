package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/Domenick1991/villasync/internal/service/approval"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service approval.ApprovalUseCase
}

func NewBookingHandler(service approval.ApprovalUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/decision", h.decide)
}

func (h *BookingHandler) decide(c *gin.Context) {
	var input approval.ApprovalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ApproveOrReject(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, approval.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
