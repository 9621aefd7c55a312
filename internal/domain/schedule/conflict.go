package schedule

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/models"
)

// Detector responde se um intervalo candidato, expandido pelos buffers do
// serviço, cruza alguma reserva real ou override bloqueante no mesmo
// escopo. Intervalos são meio-abertos: encostar não conflita.
type Detector struct {
	repo Repository
}

func NewDetector(repo Repository) *Detector {
	return &Detector{repo: repo}
}

// ExpandByBuffers aplica buffer_before/buffer_after ao candidato.
func ExpandByBuffers(svc *models.Service, start, end time.Time) (time.Time, time.Time) {
	ps := start.Add(-time.Duration(svc.BufferBeforeMin) * time.Minute)
	pe := end.Add(time.Duration(svc.BufferAfterMin) * time.Minute)
	return ps, pe
}

func intervalsCross(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func (d *Detector) HasOverlap(
	ctx context.Context,
	org *models.Organization,
	svc *models.Service,
	start time.Time,
	end time.Time,
) (bool, error) {

	ps, pe := ExpandByBuffers(svc, start, end)

	// 1. Reservas do próprio serviço.
	svcBookings, err := d.repo.ListServiceBookings(ctx, svc.ID, ps, pe)
	if err != nil {
		return false, err
	}
	if len(svcBookings) > 0 {
		return true, nil
	}

	members, err := d.repo.ListAssignedMembers(ctx, svc.ID)
	if err != nil {
		return false, err
	}
	solo := SoloMember(members)

	// 2. Reservas do membro em outros serviços (só quando solo).
	if solo != nil {
		memberBookings, err := d.repo.ListMemberBookings(ctx, solo.ID, ps, pe)
		if err != nil {
			return false, err
		}
		for i := range memberBookings {
			if memberBookings[i].ServiceID != nil && *memberBookings[i].ServiceID == svc.ID {
				continue // já coberto no passo 1
			}
			return true, nil
		}
	}

	// 3. Overrides bloqueantes no escopo.
	overrides, err := d.repo.ListOverridesForRange(ctx, org.ID, ps, pe)
	if err != nil {
		return false, err
	}
	for i := range overrides {
		ov := &overrides[i]
		if !ov.IsBlocking {
			continue
		}
		if !OverrideApplies(ov, svc, solo) {
			continue
		}
		if intervalsCross(ps, pe, ov.StartTime, ov.EndTime) {
			return true, nil
		}
	}

	// 4. Recursos finitos compartilhados entre serviços.
	resources, err := d.repo.ListResourcesForService(ctx, svc.ID)
	if err != nil {
		return false, err
	}
	for i := range resources {
		res := &resources[i]
		if res.MaxServices <= 0 {
			continue
		}
		count, err := d.repo.CountResourceBookings(ctx, res.ID, ps, pe)
		if err != nil {
			return false, err
		}
		if count >= int64(res.MaxServices) {
			return true, nil
		}
	}

	return false, nil
}
