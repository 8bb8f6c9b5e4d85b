package api

import (
	"net/http"

	resdto "exoterior-booking/internal/handler/dto/response"
	"exoterior-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	availability queries.AvailabilityQueries
	catalog      queries.CatalogQueries
}

func NewCalendarHandler(availability queries.AvailabilityQueries, catalog queries.CatalogQueries) *CalendarHandler {
	return &CalendarHandler{
		availability: availability,
		catalog:      catalog,
	}
}

// @Summary Booking calendar
// @Description Bookable date range and the daily slot labels
// @Tags calendar
// @Produce json
// @Success 200 {object} resdto.CalendarResponse
// @Router /api/calendar [get]
func (h *CalendarHandler) Calendar(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromCalendarView(h.availability.Calendar(c.Request.Context())))
}

// @Summary Service catalog
// @Description Main services with their sub-services and estimate ranges in EGP
// @Tags calendar
// @Produce json
// @Success 200 {object} resdto.ServicesResponse
// @Router /api/services [get]
func (h *CalendarHandler) Services(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromServiceViews(h.catalog.Services(c.Request.Context())))
}
