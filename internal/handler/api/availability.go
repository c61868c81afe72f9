package api

import (
	"errors"
	"net/http"
	"time"

	resdto "bookline/internal/handler/dto/response"
	"bookline/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
	}
}

// @Summary List available slots
// @Description List bookable start times for a service on a date. The listing is advisory; booking re-validates.
// @Tags availability
// @Produce json
// @Param companyID path string true "Company ID"
// @Param serviceID path string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /companies/{companyID}/services/{serviceID}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid company ID format",
		})
		return
	}

	serviceID, err := uuid.Parse(c.Param("serviceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid service ID format",
		})
		return
	}

	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
		})
		return
	}

	daySlots, err := h.availabilityQueries.ListAvailableSlots(c.Request.Context(), companyID, serviceID, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Company not found",
			})
		case errors.Is(err, queries.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromDaySlots(daySlots))
}
