package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/villasync/internal/repository"
	"github.com/Domenick1991/villasync/internal/service/resolver"
	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	service resolver.ResolverUseCase
}

type jobReadinessResponse struct {
	PropertyID     string   `json:"propertyId"`
	Ready          bool     `json:"ready"`
	MissingFields  []string `json:"missingFields"`
	GoogleMapsLink string   `json:"googleMapsLink,omitempty"`
}

func NewPropertyHandler(service resolver.ResolverUseCase) *PropertyHandler {
	return &PropertyHandler{service: service}
}

func (h *PropertyHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/resolve", h.resolve)
	router.GET("/:id/job-readiness", h.jobReadiness)
}

func (h *PropertyHandler) list(c *gin.Context) {
	properties, err := h.service.ListProperties(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// resolve always answers 200 with a structured match result; a no-match is
// an expected requires-review outcome, not an HTTP error.
func (h *PropertyHandler) resolve(c *gin.Context) {
	var input resolver.MatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.MatchProperty(c.Request.Context(), input)
	c.JSON(http.StatusOK, result)
}

func (h *PropertyHandler) jobReadiness(c *gin.Context) {
	property, err := h.service.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	missing := h.service.ValidatePropertyForJobCreation(property)
	c.JSON(http.StatusOK, jobReadinessResponse{
		PropertyID:     property.ID,
		Ready:          len(missing) == 0,
		MissingFields:  missing,
		GoogleMapsLink: h.service.GenerateGoogleMapsLink(property),
	})
}
