package schedule

import (
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
)

// Signature identifica o "formato" de um serviço. Serviços solo do mesmo
// membro só podem sobrepor agenda semanal quando o formato é idêntico.
type Signature struct {
	DurationMin     int
	BufferBeforeMin int
	BufferAfterMin  int
	IncrementMin    int
}

func SignatureOf(svc *models.Service) Signature {
	return Signature{
		DurationMin:     svc.DurationMin,
		BufferBeforeMin: svc.BufferBeforeMin,
		BufferAfterMin:  svc.BufferAfterMin,
		IncrementMin:    svc.EffectiveIncrement(),
	}
}

// SiblingWeekly: um serviço solo irmão (mesmo membro) e suas linhas
// semanais ativas.
type SiblingWeekly struct {
	Service models.Service
	Rows    []models.ServiceWeeklyAvailability
}

// EnforcePartition valida as linhas semanais propostas de um serviço solo
// antes do save:
//
//   - cada linha deve caber inteira na disponibilidade semanal do membro
//     no mesmo weekday;
//   - linhas não podem sobrepor as de outro serviço solo do mesmo membro
//     com signature distinta.
//
// Falha com constraint_violation; nada é gravado.
func EnforcePartition(
	svc *models.Service,
	proposed []models.ServiceWeeklyAvailability,
	memberWeekly []models.MemberWeeklyAvailability,
	siblings []SiblingWeekly,
) error {

	memberByDay := make(map[int][]Window)
	for _, row := range memberWeekly {
		if !row.Active {
			continue
		}
		if w, err := windowFromTimes(row.StartTime, row.EndTime); err == nil {
			memberByDay[row.Weekday] = append(memberByDay[row.Weekday], w)
		}
	}
	for day, ws := range memberByDay {
		memberByDay[day] = MergeWindows(ws)
	}

	proposedByDay := make(map[int][]Window)
	for _, row := range proposed {
		if !row.Active {
			continue
		}
		w, err := windowFromTimes(row.StartTime, row.EndTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_time_range")
		}
		if w.Empty() {
			return httperr.ErrBusiness("invalid_time_range")
		}

		// Contenção dura: fora da disponibilidade do membro é rejeitado
		// já na edição, não só na resolução.
		if !windowContained(w, memberByDay[row.Weekday]) {
			return httperr.ErrBusiness(httperr.CodeConstraintViolation)
		}
		proposedByDay[row.Weekday] = append(proposedByDay[row.Weekday], w)
	}

	sig := SignatureOf(svc)
	for i := range siblings {
		sib := &siblings[i]
		if SignatureOf(&sib.Service) == sig {
			// Mesmo formato: sobreposição permitida, o detector de
			// conflito ainda impede double-booking do membro.
			continue
		}
		for _, row := range sib.Rows {
			if !row.Active {
				continue
			}
			w, err := windowFromTimes(row.StartTime, row.EndTime)
			if err != nil {
				continue
			}
			for _, p := range proposedByDay[row.Weekday] {
				if p.Overlaps(w) {
					return httperr.ErrBusiness(httperr.CodeConstraintViolation)
				}
			}
		}
	}

	return nil
}

func windowContained(w Window, within []Window) bool {
	for _, m := range within {
		if m.Contains(w) {
			return true
		}
	}
	return false
}
