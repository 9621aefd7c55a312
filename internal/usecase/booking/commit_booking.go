package booking

import (
	"context"
	"encoding/base32"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/events"
	"github.com/agendly/booking-engine/internal/httperr"
	"github.com/agendly/booking-engine/internal/models"
	"github.com/agendly/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CommitBookingInput struct {
	OrgID     uint
	ServiceID uint
	MemberID  *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CommitBooking é o caminho de commit: re-valida o slot contra o estado
// atual dentro de uma transação serializada por (org, serviço), de modo
// que só uma de duas tentativas concorrentes pelo mesmo horário vence.
type CommitBooking struct {
	repo   schedule.Repository
	events *events.Dispatcher
}

func NewCommitBooking(
	repo schedule.Repository,
	dispatcher *events.Dispatcher,
) *CommitBooking {
	return &CommitBooking{
		repo:   repo,
		events: dispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CommitBooking) Execute(
	ctx context.Context,
	in CommitBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Organização e serviço
	// --------------------------------------------------
	org, err := uc.repo.GetOrganizationByID(ctx, in.OrgID)
	if err != nil {
		return nil, httperr.ErrBusiness("organization_not_found")
	}

	svc, err := uc.repo.GetService(ctx, org.ID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !svc.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// --------------------------------------------------
	// 2. Data/hora no timezone da organização
	// --------------------------------------------------
	loc := timezone.Location(org.Timezone)
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	dayStart, dayEnd := schedule.DayBounds(start, loc)

	// --------------------------------------------------
	// 3. Membro atribuído
	// --------------------------------------------------
	memberID, err := uc.resolveMember(ctx, svc, in.MemberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Transação: lock, política do dia relida sob o
	//    lock, re-validação de conflito, criação
	// --------------------------------------------------
	var created *models.Booking

	txErr := uc.repo.Transaction(ctx, func(txRepo schedule.Repository) error {
		if err := txRepo.AcquireCommitLock(ctx, org.ID, svc.ID); err != nil {
			return err
		}

		// Janelas e freeze resolvidos dentro da transação: uma edição
		// de agenda que commitou antes do lock já é visível aqui, então
		// a reserva nunca nasce fora da política vigente.
		resolver := schedule.NewResolver(txRepo)
		windows, frozen, err := resolver.ResolveDay(ctx, org, svc, dayStart)
		if err != nil {
			return err
		}
		eff := schedule.ApplyFrozen(svc, frozen)

		end := start.Add(time.Duration(eff.DurationMin) * time.Minute)

		// Antecedência mínima e horizonte máximo.
		now := timezone.NowIn(org.Timezone)
		if start.Before(now.Add(time.Duration(svc.MinNoticeHours) * time.Hour)) {
			return httperr.ErrBusiness(httperr.CodeOutOfPolicy)
		}
		if start.After(now.AddDate(0, 0, svc.MaxBookingHorizonDays)) {
			return httperr.ErrBusiness(httperr.CodeOutOfPolicy)
		}

		// Contenção na janela resolvida. Terminar depois da meia-noite
		// só com a regra de transbordo ligada; sem ela o recorte ao dia
		// esconderia o excesso.
		if end.After(dayEnd) && !eff.AllowEndsAfterAvailability {
			return httperr.ErrBusiness(httperr.CodeOutOfPolicy)
		}
		candidate := schedule.ProjectInterval(start, end, dayStart, dayEnd, loc)
		if !fitsAnyWindow(candidate, windows, eff.AllowEndsAfterAvailability) {
			return httperr.ErrBusiness(httperr.CodeOutOfPolicy)
		}

		detector := schedule.NewDetector(txRepo)
		overlap, err := detector.HasOverlap(ctx, org, eff, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}

		code, err := newReferenceCode(ctx, txRepo)
		if err != nil {
			return err
		}

		serviceID := svc.ID
		b := &models.Booking{
			OrgID:         org.ID,
			ServiceID:     &serviceID,
			MemberID:      memberID,
			StartTime:     start,
			EndTime:       end,
			ClientName:    in.ClientName,
			ClientPhone:   in.ClientPhone,
			ClientEmail:   in.ClientEmail,
			ReferenceCode: code,
			Status:        "confirmed",
			Notes:         in.Notes,
		}
		if err := txRepo.CreateBooking(ctx, b); err != nil {
			return err
		}

		created = b
		return nil
	})

	if txErr != nil {
		if _, ok := httperr.BusinessCode(txErr); ok {
			return nil, txErr
		}
		// Falha de storage: a transação garante que nada parcial ficou.
		log.Println("commit booking storage error:", txErr)
		return nil, httperr.ErrBusiness(httperr.CodeStorageUnavailable)
	}

	// --------------------------------------------------
	// 5. Evento para o subsistema de notificações
	// --------------------------------------------------
	uc.events.Dispatch(events.BookingCommitted{
		BookingID:     created.ID,
		ReferenceCode: created.ReferenceCode,
		OrgID:         org.ID,
		ServiceID:     svc.ID,
		MemberID:      created.MemberID,
		StartTime:     created.StartTime,
		EndTime:       created.EndTime,
	})

	return created, nil
}

// fitsAnyWindow: começa dentro da janela e termina dentro, ou pode
// transbordar o fim quando allow_ends_after_availability permite.
func fitsAnyWindow(c schedule.Window, windows []schedule.Window, allowEndsAfter bool) bool {
	for _, w := range windows {
		if c.StartMin < w.StartMin {
			continue
		}
		if c.EndMin <= w.EndMin {
			return true
		}
		if allowEndsAfter && c.StartMin < w.EndMin {
			return true
		}
	}
	return false
}

func (uc *CommitBooking) resolveMember(
	ctx context.Context,
	svc *models.Service,
	requested *uint,
) (*uint, error) {

	members, err := uc.repo.ListAssignedMembers(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	if requested != nil {
		for i := range members {
			if members[i].ID == *requested {
				return requested, nil
			}
		}
		return nil, httperr.ErrBusiness("member_not_assigned")
	}

	if solo := schedule.SoloMember(members); solo != nil {
		id := solo.ID
		return &id, nil
	}
	return nil, nil
}

// newReferenceCode gera o código público (8 chars, A-Z2-7) com retry de
// colisão contra o índice único.
func newReferenceCode(ctx context.Context, repo schedule.Repository) (string, error) {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)

	for attempt := 0; attempt < 3; attempt++ {
		u := uuid.New()
		code := enc.EncodeToString(u[:5])

		exists, err := repo.ReferenceCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeStorageUnavailable)
}
