package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/models"
)

type ScheduleGormRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Organization / Service / Member
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrganizationByID(
	ctx context.Context,
	id uint,
) (*models.Organization, error) {

	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *ScheduleGormRepository) GetOrganizationBySlug(
	ctx context.Context,
	slug string,
) (*models.Organization, error) {

	var org models.Organization
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	orgID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", serviceID, orgID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *ScheduleGormRepository) ListAssignedMembers(
	ctx context.Context,
	serviceID uint,
) ([]models.Member, error) {

	var members []models.Member
	if err := r.db.WithContext(ctx).
		Joins("JOIN service_members sm ON sm.member_id = members.id").
		Where("sm.service_id = ? AND members.active = ?", serviceID, true).
		Order("members.id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// --------------------------------------------------
// Weekly availability
// --------------------------------------------------

func (r *ScheduleGormRepository) ListOrgWeekly(
	ctx context.Context,
	orgID uint,
	weekday int,
) ([]models.WeeklyAvailability, error) {

	var rows []models.WeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND weekday = ? AND active = ?", orgID, weekday, true).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleGormRepository) ListMemberWeekly(
	ctx context.Context,
	memberID uint,
	weekday int,
) ([]models.MemberWeeklyAvailability, error) {

	var rows []models.MemberWeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND weekday = ? AND active = ?", memberID, weekday, true).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleGormRepository) ListServiceWeekly(
	ctx context.Context,
	serviceID uint,
) ([]models.ServiceWeeklyAvailability, error) {

	var rows []models.ServiceWeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("service_id = ? AND active = ?", serviceID, true).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleGormRepository) ReplaceServiceWeekly(
	ctx context.Context,
	serviceID uint,
	rows []models.ServiceWeeklyAvailability,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_id = ?", serviceID).
			Delete(&models.ServiceWeeklyAvailability{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].ServiceID = serviceID
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *ScheduleGormRepository) ListSoloSiblings(
	ctx context.Context,
	orgID uint,
	memberID uint,
	excludeServiceID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Joins("JOIN service_members sm ON sm.service_id = services.id").
		Where("services.org_id = ? AND services.id <> ?", orgID, excludeServiceID).
		Group("services.id").
		Having("COUNT(sm.member_id) = 1 AND MAX(sm.member_id) = ?", memberID).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Bookings / overrides
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// locking: dentro de transação de commit as leituras de conflito seguram
// os rows; fora, leitura livre (disponibilidade tolera snapshot).
func (r *ScheduleGormRepository) bookingQuery(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *ScheduleGormRepository) ListServiceBookings(
	ctx context.Context,
	serviceID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.bookingQuery(ctx).
		Where(
			"service_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			serviceID, end, start,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *ScheduleGormRepository) ListMemberBookings(
	ctx context.Context,
	memberID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.bookingQuery(ctx).
		Where(
			"member_id = ? AND service_id IS NOT NULL AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			memberID, end, start,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *ScheduleGormRepository) CountOrgBookings(
	ctx context.Context,
	orgID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"org_id = ? AND service_id IS NOT NULL AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			orgID, end, start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ScheduleGormRepository) ListOverridesForRange(
	ctx context.Context,
	orgID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var overrides []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"org_id = ? AND service_id IS NULL AND start_time < ? AND end_time > ?",
			orgID, end, start,
		).
		Order("start_time ASC").
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *ScheduleGormRepository) GetOverride(
	ctx context.Context,
	orgID uint,
	overrideID uint,
) (*models.Booking, error) {

	var ov models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND service_id IS NULL", overrideID, orgID).
		First(&ov).Error; err != nil {
		return nil, err
	}
	return &ov, nil
}

func (r *ScheduleGormRepository) DeleteOverride(
	ctx context.Context,
	overrideID uint,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND service_id IS NULL", overrideID).
		Delete(&models.Booking{}).Error
}

func (r *ScheduleGormRepository) ReferenceCodeExists(
	ctx context.Context,
	code string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("reference_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Resources
// --------------------------------------------------

func (r *ScheduleGormRepository) ListResourcesForService(
	ctx context.Context,
	serviceID uint,
) ([]models.Resource, error) {

	var resources []models.Resource
	if err := r.db.WithContext(ctx).
		Joins("JOIN resource_services rs ON rs.resource_id = resources.id").
		Where("rs.service_id = ?", serviceID).
		Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *ScheduleGormRepository) CountResourceBookings(
	ctx context.Context,
	resourceID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.bookingQuery(ctx).
		Where(
			"service_id IN (SELECT service_id FROM resource_services WHERE resource_id = ?)",
			resourceID,
		).
		Where(
			"status <> 'cancelled' AND start_time < ? AND end_time > ?",
			end, start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ScheduleGormRepository) ListResourceBookings(
	ctx context.Context,
	resourceID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"service_id IN (SELECT service_id FROM resource_services WHERE resource_id = ?)",
			resourceID,
		).
		Where(
			"status <> 'cancelled' AND start_time < ? AND end_time > ?",
			end, start,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Freeze (create-once)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetFreeze(
	ctx context.Context,
	serviceID uint,
	date string,
) (*models.ServiceSettingFreeze, error) {

	var fz models.ServiceSettingFreeze
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND date = ?", serviceID, date).
		First(&fz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fz, nil
}

// InsertFreezeIfAbsent: o primeiro snapshot vence, inserções seguintes
// para a mesma chave são no-ops (imutabilidade sem lock explícito).
func (r *ScheduleGormRepository) InsertFreezeIfAbsent(
	ctx context.Context,
	fz *models.ServiceSettingFreeze,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "service_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(fz).Error
}

// --------------------------------------------------
// Commit
// --------------------------------------------------

func (r *ScheduleGormRepository) Transaction(
	ctx context.Context,
	fn func(schedule.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx, inTx: true})
	})
}

// AcquireCommitLock serializa o caminho de commit por (org, serviço)
// via advisory lock transacional do Postgres.
func (r *ScheduleGormRepository) AcquireCommitLock(
	ctx context.Context,
	orgID uint,
	serviceID uint,
) error {

	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(orgID), int32(serviceID)).
		Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
