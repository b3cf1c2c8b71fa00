package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DayAvailability handles GET /availability?providerId=&serviceId=&date=YYYY-MM-DD.
func (h *BookingHandler) DayAvailability(c *gin.Context) {
	providerID := c.Query("providerId")
	serviceID := c.Query("serviceId")
	dateStr := c.Query("date")
	if providerID == "" || serviceID == "" || dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "providerId, serviceId and date are required"})
		return
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	free, err := h.Engine.DayAvailability(c.Request.Context(), c.Param("tenantID"), providerID, serviceID, day)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":       dateStr,
		"providerId": providerID,
		"serviceId":  serviceID,
		"slots":      free,
	})
}
