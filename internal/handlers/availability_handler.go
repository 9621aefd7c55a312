package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	ucBooking "github.com/agendly/booking-engine/internal/usecase/booking"
)

type AvailabilityHandler struct {
	repo              schedule.Repository
	getAvailabilityUC *ucBooking.GetAvailability
}

func NewAvailabilityHandler(
	repo schedule.Repository,
	getAvailabilityUC *ucBooking.GetAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		repo:              repo,
		getAvailabilityUC: getAvailabilityUC,
	}
}

// GET /api/public/:slug/services/:serviceID/availability?from=&to=
func (h *AvailabilityHandler) List(c *gin.Context) {
	org, err := h.repo.GetOrganizationBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "organization_not_found", "organization not found")
		return
	}

	serviceID, err := strconv.ParseUint(c.Param("serviceID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "invalid service id")
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if to == "" {
		to = from
	}

	slots, err := h.getAvailabilityUC.Execute(c.Request.Context(), ucBooking.AvailabilityInput{
		OrgID:     org.ID,
		ServiceID: uint(serviceID),
		FromDate:  from,
		ToDate:    to,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
