package booking

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

type AvailabilityInput struct {
	OrgID     uint
	ServiceID uint

	FromDate string
	ToDate   string
}

type TimeSlot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetAvailability struct {
	repo     schedule.Repository
	resolver *schedule.Resolver
}

func NewGetAvailability(repo schedule.Repository) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		resolver: schedule.NewResolver(repo),
	}
}

// Execute enumera os slots reserváveis do intervalo de datas, em ordem
// crescente. Sem cache: reexecutar sem escrita intermediária devolve a
// mesma sequência.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]TimeSlot, error) {

	org, err := uc.repo.GetOrganizationByID(ctx, in.OrgID)
	if err != nil {
		return nil, httperr.ErrBusiness("organization_not_found")
	}

	svc, err := uc.repo.GetService(ctx, org.ID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !svc.Active {
		return []TimeSlot{}, nil
	}

	loc := timezone.Location(org.Timezone)

	from, err := time.ParseInLocation(schedule.DateLayout, in.FromDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	to, err := time.ParseInLocation(schedule.DateLayout, in.ToDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(org.Timezone)
	earliest := now.Add(time.Duration(svc.MinNoticeHours) * time.Hour)
	latest := now.AddDate(0, 0, svc.MaxBookingHorizonDays)

	slots := []TimeSlot{}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dayStart, dayEnd := schedule.DayBounds(d, loc)

		if !dayEnd.After(earliest) {
			continue
		}
		if dayStart.After(latest) {
			break
		}

		daySlots, err := uc.slotsForDay(ctx, org, svc, dayStart, dayEnd, earliest, latest, loc)
		if err != nil {
			return nil, err
		}
		slots = append(slots, daySlots...)
	}

	return slots, nil
}

func (uc *GetAvailability) slotsForDay(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	dayStart time.Time,
	dayEnd time.Time,
	earliest time.Time,
	latest time.Time,
	loc *time.Location,
) ([]TimeSlot, error) {

	windows, frozen, err := uc.resolver.ResolveDay(ctx, org, svc, dayStart)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	// Datas congeladas usam a política da época, não a atual.
	eff := schedule.ApplyFrozen(svc, frozen)

	busy, resources, err := uc.dayLoad(ctx, org, eff, dayStart, dayEnd, loc)
	if err != nil {
		return nil, err
	}

	in := schedule.SlotInput{
		Windows:           windows,
		DurationMin:       eff.DurationMin,
		BufferBeforeMin:   eff.BufferBeforeMin,
		BufferAfterMin:    eff.BufferAfterMin,
		IncrementMin:      eff.TimeIncrementMin,
		UseFixedIncrement: eff.UseFixedIncrement,
		AllowSquished:     eff.AllowSquishedBookings,
		AllowEndsAfter:    eff.AllowEndsAfterAvailability,
		EarliestMin:       0,
		LatestMin:         schedule.MinutesPerDay,
		Busy:              busy,
		Resources:         resources,
	}

	// Corte de antecedência mínima e horizonte máximo no próprio dia.
	if earliest.After(dayStart) {
		e := earliest.In(loc)
		in.EarliestMin = e.Hour()*60 + e.Minute()
	}
	if latest.Before(dayEnd) {
		l := latest.In(loc)
		in.LatestMin = l.Hour()*60 + l.Minute()
	}

	var out []TimeSlot
	for _, s := range schedule.GenerateSlots(in) {
		out = append(out, TimeSlot{
			Date:  dayStart.Format(schedule.DateLayout),
			Start: schedule.FormatHM(s.StartMin),
			End:   schedule.FormatHM(s.EndMin),
		})
	}
	return out, nil
}

// dayLoad materializa a ocupação do dia: reservas do serviço, reservas do
// membro solo em outros serviços, overrides bloqueantes do escopo e a
// carga dos recursos finitos.
func (uc *GetAvailability) dayLoad(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	dayStart time.Time,
	dayEnd time.Time,
	loc *time.Location,
) ([]schedule.Window, []schedule.ResourceLoad, error) {

	var busy []schedule.Window

	svcBookings, err := uc.repo.ListServiceBookings(ctx, svc.ID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}
	for i := range svcBookings {
		b := &svcBookings[i]
		busy = append(busy, schedule.ProjectInterval(b.StartTime, b.EndTime, dayStart, dayEnd, loc))
	}

	members, err := uc.repo.ListAssignedMembers(ctx, svc.ID)
	if err != nil {
		return nil, nil, err
	}
	solo := schedule.SoloMember(members)

	if solo != nil {
		memberBookings, err := uc.repo.ListMemberBookings(ctx, solo.ID, dayStart, dayEnd)
		if err != nil {
			return nil, nil, err
		}
		for i := range memberBookings {
			b := &memberBookings[i]
			if b.ServiceID != nil && *b.ServiceID == svc.ID {
				continue
			}
			busy = append(busy, schedule.ProjectInterval(b.StartTime, b.EndTime, dayStart, dayEnd, loc))
		}
	}

	// Overrides bloqueantes já saíram das janelas, mas precisam entrar na
	// ocupação para o teste com expansão de buffer.
	overrides, err := uc.repo.ListOverridesForRange(ctx, org.ID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}
	for i := range overrides {
		ov := &overrides[i]
		if !ov.IsBlocking || !schedule.OverrideApplies(ov, svc, solo) {
			continue
		}
		busy = append(busy, schedule.ProjectInterval(ov.StartTime, ov.EndTime, dayStart, dayEnd, loc))
	}

	var loads []schedule.ResourceLoad
	resources, err := uc.repo.ListResourcesForService(ctx, svc.ID)
	if err != nil {
		return nil, nil, err
	}
	for i := range resources {
		res := &resources[i]
		if res.MaxServices <= 0 {
			continue
		}
		resBookings, err := uc.repo.ListResourceBookings(ctx, res.ID, dayStart, dayEnd)
		if err != nil {
			return nil, nil, err
		}
		load := schedule.ResourceLoad{Capacity: res.MaxServices}
		for j := range resBookings {
			b := &resBookings[j]
			load.Busy = append(load.Busy, schedule.ProjectInterval(b.StartTime, b.EndTime, dayStart, dayEnd, loc))
		}
		loads = append(loads, load)
	}

	return busy, loads, nil
}
