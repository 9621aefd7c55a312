package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/middleware"
	ucBooking "github.com/agendly/booking-engine/internal/usecase/booking"
)

type OverrideHandler struct {
	createOverrideUC *ucBooking.CreateOverride
	deleteOverrideUC *ucBooking.DeleteOverride
}

func NewOverrideHandler(
	createOverrideUC *ucBooking.CreateOverride,
	deleteOverrideUC *ucBooking.DeleteOverride,
) *OverrideHandler {
	return &OverrideHandler{
		createOverrideUC: createOverrideUC,
		deleteOverrideUC: deleteOverrideUC,
	}
}

type createOverrideRequest struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`

	IsBlocking bool   `json:"is_blocking"`
	ScopeKind  string `json:"scope_kind" binding:"required"`
	ScopeID    *uint  `json:"scope_id"`

	Notes string `json:"notes"`
}

// POST /api/me/overrides
func (h *OverrideHandler) Create(c *gin.Context) {
	orgID := c.GetUint(middleware.ContextOrgID)

	var req createOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	ov, err := h.createOverrideUC.Execute(c.Request.Context(), ucBooking.CreateOverrideInput{
		OrgID:      orgID,
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		IsBlocking: req.IsBlocking,
		ScopeKind:  req.ScopeKind,
		ScopeID:    req.ScopeID,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, ov)
}

// DELETE /api/me/overrides/:id?mode=reset
func (h *OverrideHandler) Delete(c *gin.Context) {
	orgID := c.GetUint(middleware.ContextOrgID)

	overrideID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_override_id", "invalid override id")
		return
	}

	err = h.deleteOverrideUC.Execute(c.Request.Context(), ucBooking.DeleteOverrideInput{
		OrgID:      orgID,
		OverrideID: uint(overrideID),
		Reset:      c.Query("mode") == "reset",
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
