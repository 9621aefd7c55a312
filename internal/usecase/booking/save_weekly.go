package booking

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type WeeklyRowInput struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Active  bool   `json:"active"`
}

type SaveServiceWeeklyInput struct {
	OrgID     uint
	ServiceID uint
	Rows      []WeeklyRowInput
}

// ======================================================
// USE CASE
// ======================================================

// SaveServiceWeekly grava a agenda semanal de um serviço. Antes de aplicar:
// valida a partição entre serviços solo do mesmo membro, valida contenção
// na disponibilidade do membro e congela a política vigente de toda data
// no horizonte que já tem reserva real.
type SaveServiceWeekly struct {
	repo     schedule.Repository
	resolver *schedule.Resolver
}

func NewSaveServiceWeekly(repo schedule.Repository) *SaveServiceWeekly {
	return &SaveServiceWeekly{
		repo:     repo,
		resolver: schedule.NewResolver(repo),
	}
}

func (uc *SaveServiceWeekly) Execute(
	ctx context.Context,
	in SaveServiceWeeklyInput,
) error {

	// --------------------------------------------------
	// 1. Organização + gate de plano
	// --------------------------------------------------
	org, err := uc.repo.GetOrganizationByID(ctx, in.OrgID)
	if err != nil {
		return httperr.ErrBusiness("organization_not_found")
	}
	if !org.CanEditWeeklyAvailability() {
		return httperr.ErrBusiness("weekly_edit_not_allowed")
	}

	svc, err := uc.repo.GetService(ctx, org.ID, in.ServiceID)
	if err != nil {
		return httperr.ErrBusiness("service_not_found")
	}

	// --------------------------------------------------
	// 2. Validação das linhas propostas
	// --------------------------------------------------
	proposed := make([]models.ServiceWeeklyAvailability, 0, len(in.Rows))
	for _, row := range in.Rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			return httperr.ErrBusiness("invalid_weekday")
		}
		s, err := schedule.ParseHM(row.Start)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_range")
		}
		e, err := schedule.ParseHM(row.End)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_range")
		}
		// Janelas atravessando meia-noite não são suportadas.
		if e <= s {
			return httperr.ErrBusiness("invalid_time_range")
		}
		proposed = append(proposed, models.ServiceWeeklyAvailability{
			ServiceID: svc.ID,
			Weekday:   row.Weekday,
			StartTime: row.Start,
			EndTime:   row.End,
			Active:    row.Active,
		})
	}

	// --------------------------------------------------
	// 3. Partição entre serviços solo do mesmo membro
	// --------------------------------------------------
	members, err := uc.repo.ListAssignedMembers(ctx, svc.ID)
	if err != nil {
		return err
	}

	if solo := schedule.SoloMember(members); solo != nil {
		var memberWeekly []models.MemberWeeklyAvailability
		for weekday := 0; weekday < 7; weekday++ {
			rows, err := uc.repo.ListMemberWeekly(ctx, solo.ID, weekday)
			if err != nil {
				return err
			}
			memberWeekly = append(memberWeekly, rows...)
		}

		soloServices, err := uc.repo.ListSoloSiblings(ctx, org.ID, solo.ID, svc.ID)
		if err != nil {
			return err
		}

		siblings := make([]schedule.SiblingWeekly, 0, len(soloServices))
		for i := range soloServices {
			rows, err := uc.repo.ListServiceWeekly(ctx, soloServices[i].ID)
			if err != nil {
				return err
			}
			siblings = append(siblings, schedule.SiblingWeekly{
				Service: soloServices[i],
				Rows:    rows,
			})
		}

		if err := schedule.EnforcePartition(svc, proposed, memberWeekly, siblings); err != nil {
			return err
		}
	}

	// --------------------------------------------------
	// 4. Freeze de toda data já reservada no horizonte,
	//    ANTES de aplicar a edição
	// --------------------------------------------------
	if err := uc.freezeBookedDates(ctx, org, svc); err != nil {
		return err
	}

	// --------------------------------------------------
	// 5. Aplicação atômica das novas linhas
	// --------------------------------------------------
	return uc.repo.ReplaceServiceWeekly(ctx, svc.ID, proposed)
}

// freezeBookedDates captura a política vigente (janelas resolvidas +
// configurações do serviço) de cada data do horizonte com reserva real.
// Create-once: datas já congeladas ficam como estão.
func (uc *SaveServiceWeekly) freezeBookedDates(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
) error {

	loc := timezone.Location(org.Timezone)
	now := timezone.NowIn(org.Timezone)
	horizonEnd := now.AddDate(0, 0, svc.MaxBookingHorizonDays)

	bookings, err := uc.repo.ListServiceBookings(ctx, svc.ID, now, horizonEnd)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i := range bookings {
		day, _ := schedule.DayBounds(bookings[i].StartTime, loc)
		key := day.Format(schedule.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := uc.ensureFreeze(ctx, org, svc, day); err != nil {
			return err
		}
	}
	return nil
}

func (uc *SaveServiceWeekly) ensureFreeze(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	day time.Time,
) error {

	windows, frozen, err := uc.resolver.ResolveDay(ctx, org, svc, day)
	if err != nil {
		return err
	}
	if frozen != nil {
		// Snapshot já existe; o primeiro venceu.
		return nil
	}

	fs := models.FrozenSettings{
		DurationMin:                svc.DurationMin,
		BufferBeforeMin:            svc.BufferBeforeMin,
		BufferAfterMin:             svc.BufferAfterMin,
		TimeIncrementMin:           svc.TimeIncrementMin,
		UseFixedIncrement:          svc.UseFixedIncrement,
		AllowEndsAfterAvailability: svc.AllowEndsAfterAvailability,
		AllowSquishedBookings:      svc.AllowSquishedBookings,
	}
	for _, w := range windows {
		fs.WeeklyWindows = append(fs.WeeklyWindows, models.FrozenWindow{
			Start: schedule.FormatHM(w.StartMin),
			End:   schedule.FormatHM(w.EndMin),
		})
	}

	settings, err := fs.Encode()
	if err != nil {
		return err
	}

	return uc.repo.InsertFreezeIfAbsent(ctx, &models.ServiceSettingFreeze{
		ServiceID: svc.ID,
		Date:      day.Format(schedule.DateLayout),
		Settings:  settings,
	})
}
