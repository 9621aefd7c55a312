package booking

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

type CreateOverrideInput struct {
	OrgID uint

	Date  string
	Start string
	End   string

	// IsBlocking fecha o intervalo; caso contrário o override abre
	// horário fora da agenda semanal.
	IsBlocking bool

	ScopeKind string // org | member | service
	ScopeID   *uint

	Notes string
}

type CreateOverride struct {
	repo schedule.Repository
}

func NewCreateOverride(repo schedule.Repository) *CreateOverride {
	return &CreateOverride{repo: repo}
}

func (uc *CreateOverride) Execute(
	ctx context.Context,
	in CreateOverrideInput,
) (*models.Booking, error) {

	org, err := uc.repo.GetOrganizationByID(ctx, in.OrgID)
	if err != nil {
		return nil, httperr.ErrBusiness("organization_not_found")
	}

	switch in.ScopeKind {
	case models.ScopeOrg, models.ScopeMember, models.ScopeService:
	default:
		return nil, httperr.ErrBusiness("invalid_scope")
	}
	if in.ScopeKind != models.ScopeOrg && in.ScopeID == nil {
		return nil, httperr.ErrBusiness("invalid_scope")
	}

	loc := timezone.Location(org.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Start, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.End, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// Overrides de um dia só; atravessar meia-noite é entrada inválida.
	if !end.After(start) {
		return nil, httperr.ErrBusiness("cross_midnight_override")
	}

	_, dayEnd := schedule.DayBounds(start, loc)
	if end.After(dayEnd) {
		return nil, httperr.ErrBusiness("cross_midnight_override")
	}

	ov := &models.Booking{
		OrgID:      org.ID,
		StartTime:  start,
		EndTime:    end,
		IsBlocking: in.IsBlocking,
		ScopeKind:  in.ScopeKind,
		ScopeID:    in.ScopeID,
		Notes:      in.Notes,
	}
	if err := uc.repo.CreateBooking(ctx, ov); err != nil {
		return nil, err
	}
	return ov, nil
}
