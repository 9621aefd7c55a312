package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	ucBooking "github.com/agendly/booking-engine/internal/usecase/booking"
)

type BookingHandler struct {
	repo            schedule.Repository
	commitBookingUC *ucBooking.CommitBooking
}

func NewBookingHandler(
	repo schedule.Repository,
	commitBookingUC *ucBooking.CommitBooking,
) *BookingHandler {
	return &BookingHandler{
		repo:            repo,
		commitBookingUC: commitBookingUC,
	}
}

type createBookingRequest struct {
	ServiceID uint  `json:"service_id" binding:"required"`
	MemberID  *uint `json:"member_id"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	Notes string `json:"notes"`
}

// POST /api/public/:slug/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	org, err := h.repo.GetOrganizationBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "organization_not_found", "organization not found")
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	created, err := h.commitBookingUC.Execute(c.Request.Context(), ucBooking.CommitBookingInput{
		OrgID:       org.ID,
		ServiceID:   req.ServiceID,
		MemberID:    req.MemberID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             created.ID,
		"reference_code": created.ReferenceCode,
		"start_time":     created.StartTime,
		"end_time":       created.EndTime,
		"status":         created.Status,
	})
}
