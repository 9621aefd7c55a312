package schedule

import (
	"context"
	"time"

	"github.com/agendly/booking-engine/internal/models"
)

type Repository interface {
	// -------- Organization / Service / Member --------
	GetOrganizationByID(
		ctx context.Context,
		id uint,
	) (*models.Organization, error)

	GetOrganizationBySlug(
		ctx context.Context,
		slug string,
	) (*models.Organization, error)

	GetService(
		ctx context.Context,
		orgID uint,
		serviceID uint,
	) (*models.Service, error)

	ListAssignedMembers(
		ctx context.Context,
		serviceID uint,
	) ([]models.Member, error)

	// -------- Weekly availability --------
	ListOrgWeekly(
		ctx context.Context,
		orgID uint,
		weekday int,
	) ([]models.WeeklyAvailability, error)

	ListMemberWeekly(
		ctx context.Context,
		memberID uint,
		weekday int,
	) ([]models.MemberWeeklyAvailability, error)

	// ListServiceWeekly retorna apenas linhas ativas, todos os weekdays.
	ListServiceWeekly(
		ctx context.Context,
		serviceID uint,
	) ([]models.ServiceWeeklyAvailability, error)

	ReplaceServiceWeekly(
		ctx context.Context,
		serviceID uint,
		rows []models.ServiceWeeklyAvailability,
	) error

	// ListSoloSiblings: outros serviços da org atribuídos exclusivamente
	// ao mesmo membro.
	ListSoloSiblings(
		ctx context.Context,
		orgID uint,
		memberID uint,
		excludeServiceID uint,
	) ([]models.Service, error)

	// -------- Bookings / overrides --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListServiceBookings(
		ctx context.Context,
		serviceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	ListMemberBookings(
		ctx context.Context,
		memberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// CountOrgBookings conta reservas reais da organização no intervalo,
	// qualquer serviço.
	CountOrgBookings(
		ctx context.Context,
		orgID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	ListOverridesForRange(
		ctx context.Context,
		orgID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	GetOverride(
		ctx context.Context,
		orgID uint,
		overrideID uint,
	) (*models.Booking, error)

	DeleteOverride(
		ctx context.Context,
		overrideID uint,
	) error

	ReferenceCodeExists(
		ctx context.Context,
		code string,
	) (bool, error)

	// -------- Resources --------
	ListResourcesForService(
		ctx context.Context,
		serviceID uint,
	) ([]models.Resource, error)

	// CountResourceBookings conta reservas reais de qualquer serviço
	// ligado ao recurso que cruzam o intervalo.
	CountResourceBookings(
		ctx context.Context,
		resourceID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	ListResourceBookings(
		ctx context.Context,
		resourceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Freeze (create-once) --------
	// GetFreeze devolve nil (sem erro) quando não há snapshot.
	GetFreeze(
		ctx context.Context,
		serviceID uint,
		date string,
	) (*models.ServiceSettingFreeze, error)

	InsertFreezeIfAbsent(
		ctx context.Context,
		fz *models.ServiceSettingFreeze,
	) error

	// -------- Commit --------
	Transaction(
		ctx context.Context,
		fn func(Repository) error,
	) error

	// AcquireCommitLock serializa tentativas de commit por
	// (org, serviço) enquanto a transação durar.
	AcquireCommitLock(
		ctx context.Context,
		orgID uint,
		serviceID uint,
	) error
}
