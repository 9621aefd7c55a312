package booking

import (
	"context"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

type DeleteOverrideInput struct {
	OrgID      uint
	OverrideID uint

	// Reset: intenção de restaurar a agenda semanal pura do dia. Recusado
	// quando removeria a única razão de uma reserva real ser válida.
	Reset bool
}

type DeleteOverride struct {
	repo schedule.Repository
}

func NewDeleteOverride(repo schedule.Repository) *DeleteOverride {
	return &DeleteOverride{repo: repo}
}

func (uc *DeleteOverride) Execute(
	ctx context.Context,
	in DeleteOverrideInput,
) error {

	org, err := uc.repo.GetOrganizationByID(ctx, in.OrgID)
	if err != nil {
		return httperr.ErrBusiness("organization_not_found")
	}

	ov, err := uc.repo.GetOverride(ctx, org.ID, in.OverrideID)
	if err != nil {
		return httperr.ErrBusiness("override_not_found")
	}

	if in.Reset {
		protected, err := uc.hasBookingInScope(ctx, org, ov)
		if err != nil {
			return err
		}
		if protected {
			return httperr.ErrBusiness(httperr.CodeResetProtected)
		}
	}

	return uc.repo.DeleteOverride(ctx, ov.ID)
}

// hasBookingInScope: existe reserva real no dia do override dentro do
// escopo dele?
func (uc *DeleteOverride) hasBookingInScope(
	ctx context.Context,
	org *models.Organization,
	ov *models.Booking,
) (bool, error) {

	loc := timezone.Location(org.Timezone)
	dayStart, dayEnd := schedule.DayBounds(ov.StartTime, loc)

	switch ov.ScopeKind {
	case models.ScopeService:
		if ov.ScopeID == nil {
			return false, nil
		}
		bookings, err := uc.repo.ListServiceBookings(ctx, *ov.ScopeID, dayStart, dayEnd)
		if err != nil {
			return false, err
		}
		return len(bookings) > 0, nil

	case models.ScopeMember:
		if ov.ScopeID == nil {
			return false, nil
		}
		bookings, err := uc.repo.ListMemberBookings(ctx, *ov.ScopeID, dayStart, dayEnd)
		if err != nil {
			return false, err
		}
		return len(bookings) > 0, nil

	default:
		count, err := uc.repo.CountOrgBookings(ctx, org.ID, dayStart, dayEnd)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	}
}
