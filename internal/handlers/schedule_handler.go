package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/middleware"
	ucBooking "github.com/agendly/booking-engine/internal/usecase/booking"
)

type ScheduleHandler struct {
	saveWeeklyUC *ucBooking.SaveServiceWeekly
}

func NewScheduleHandler(saveWeeklyUC *ucBooking.SaveServiceWeekly) *ScheduleHandler {
	return &ScheduleHandler{saveWeeklyUC: saveWeeklyUC}
}

type saveWeeklyRequest struct {
	Rows []ucBooking.WeeklyRowInput `json:"rows"`
}

// PUT /api/me/services/:serviceID/weekly-availability
func (h *ScheduleHandler) SaveServiceWeekly(c *gin.Context) {
	orgID := c.GetUint(middleware.ContextOrgID)

	serviceID, err := strconv.ParseUint(c.Param("serviceID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "invalid service id")
		return
	}

	var req saveWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	err = h.saveWeeklyUC.Execute(c.Request.Context(), ucBooking.SaveServiceWeeklyInput{
		OrgID:     orgID,
		ServiceID: uint(serviceID),
		Rows:      req.Rows,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
