package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/agendly/booking-engine/internal/domain/schedule"
	"github.com/agendly/booking-engine/internal/models"
)

// stubRepo implementa schedule.Repository em memória para os testes dos
// casos de uso. Transaction executa direto sobre o próprio stub.
type stubRepo struct {
	org *models.Organization

	services      map[uint]*models.Service
	membersBySvc  map[uint][]models.Member
	orgWeekly     []models.WeeklyAvailability
	memberWeekly  []models.MemberWeeklyAvailability
	serviceWeekly []models.ServiceWeeklyAvailability

	bookings  []models.Booking
	overrides []models.Booking

	freezes map[string]*models.ServiceSettingFreeze

	resourcesBySvc   map[uint][]models.Resource
	resourceBookings map[uint][]models.Booking

	nextID uint
}

func newStubRepo(org *models.Organization) *stubRepo {
	return &stubRepo{
		org:              org,
		services:         make(map[uint]*models.Service),
		membersBySvc:     make(map[uint][]models.Member),
		freezes:          make(map[string]*models.ServiceSettingFreeze),
		resourcesBySvc:   make(map[uint][]models.Resource),
		resourceBookings: make(map[uint][]models.Booking),
	}
}

func stubFreezeKey(serviceID uint, date string) string {
	return fmt.Sprintf("%d|%s", serviceID, date)
}

func stubCross(b *models.Booking, start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

func (s *stubRepo) GetOrganizationByID(_ context.Context, id uint) (*models.Organization, error) {
	if s.org != nil && s.org.ID == id {
		return s.org, nil
	}
	return nil, fmt.Errorf("organization %d not found", id)
}

func (s *stubRepo) GetOrganizationBySlug(_ context.Context, slug string) (*models.Organization, error) {
	if s.org != nil && s.org.Slug == slug {
		return s.org, nil
	}
	return nil, fmt.Errorf("organization %q not found", slug)
}

func (s *stubRepo) GetService(_ context.Context, orgID, serviceID uint) (*models.Service, error) {
	if svc, ok := s.services[serviceID]; ok && svc.OrgID == orgID {
		return svc, nil
	}
	return nil, fmt.Errorf("service %d not found", serviceID)
}

func (s *stubRepo) ListAssignedMembers(_ context.Context, serviceID uint) ([]models.Member, error) {
	return s.membersBySvc[serviceID], nil
}

func (s *stubRepo) ListOrgWeekly(_ context.Context, orgID uint, weekday int) ([]models.WeeklyAvailability, error) {
	var rows []models.WeeklyAvailability
	for _, row := range s.orgWeekly {
		if row.OrgID == orgID && row.Weekday == weekday && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *stubRepo) ListMemberWeekly(_ context.Context, memberID uint, weekday int) ([]models.MemberWeeklyAvailability, error) {
	var rows []models.MemberWeeklyAvailability
	for _, row := range s.memberWeekly {
		if row.MemberID == memberID && row.Weekday == weekday && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *stubRepo) ListServiceWeekly(_ context.Context, serviceID uint) ([]models.ServiceWeeklyAvailability, error) {
	var rows []models.ServiceWeeklyAvailability
	for _, row := range s.serviceWeekly {
		if row.ServiceID == serviceID && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *stubRepo) ReplaceServiceWeekly(_ context.Context, serviceID uint, rows []models.ServiceWeeklyAvailability) error {
	var kept []models.ServiceWeeklyAvailability
	for _, row := range s.serviceWeekly {
		if row.ServiceID != serviceID {
			kept = append(kept, row)
		}
	}
	for i := range rows {
		rows[i].ServiceID = serviceID
	}
	s.serviceWeekly = append(kept, rows...)
	return nil
}

func (s *stubRepo) ListSoloSiblings(_ context.Context, orgID, memberID, excludeServiceID uint) ([]models.Service, error) {
	var out []models.Service
	for id, svc := range s.services {
		if svc.OrgID != orgID || id == excludeServiceID {
			continue
		}
		members := s.membersBySvc[id]
		if len(members) == 1 && members[0].ID == memberID {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (s *stubRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	s.nextID++
	b.ID = s.nextID
	if b.IsOverride() {
		s.overrides = append(s.overrides, *b)
	} else {
		s.bookings = append(s.bookings, *b)
	}
	return nil
}

func (s *stubRepo) ListServiceBookings(_ context.Context, serviceID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.ServiceID != nil && *b.ServiceID == serviceID && b.Status != "cancelled" && stubCross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListMemberBookings(_ context.Context, memberID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.MemberID != nil && *b.MemberID == memberID && b.Status != "cancelled" && stubCross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) CountOrgBookings(_ context.Context, orgID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range s.bookings {
		if b.OrgID == orgID && b.Status != "cancelled" && stubCross(&b, start, end) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) ListOverridesForRange(_ context.Context, orgID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, ov := range s.overrides {
		if ov.OrgID == orgID && stubCross(&ov, start, end) {
			out = append(out, ov)
		}
	}
	return out, nil
}

func (s *stubRepo) GetOverride(_ context.Context, orgID, overrideID uint) (*models.Booking, error) {
	for i := range s.overrides {
		if s.overrides[i].OrgID == orgID && s.overrides[i].ID == overrideID {
			return &s.overrides[i], nil
		}
	}
	return nil, fmt.Errorf("override %d not found", overrideID)
}

func (s *stubRepo) DeleteOverride(_ context.Context, overrideID uint) error {
	var kept []models.Booking
	for _, ov := range s.overrides {
		if ov.ID != overrideID {
			kept = append(kept, ov)
		}
	}
	s.overrides = kept
	return nil
}

func (s *stubRepo) ReferenceCodeExists(_ context.Context, code string) (bool, error) {
	for _, b := range s.bookings {
		if b.ReferenceCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) ListResourcesForService(_ context.Context, serviceID uint) ([]models.Resource, error) {
	return s.resourcesBySvc[serviceID], nil
}

func (s *stubRepo) CountResourceBookings(_ context.Context, resourceID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range s.resourceBookings[resourceID] {
		if stubCross(&b, start, end) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) ListResourceBookings(_ context.Context, resourceID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.resourceBookings[resourceID] {
		if stubCross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) GetFreeze(_ context.Context, serviceID uint, date string) (*models.ServiceSettingFreeze, error) {
	return s.freezes[stubFreezeKey(serviceID, date)], nil
}

func (s *stubRepo) InsertFreezeIfAbsent(_ context.Context, fz *models.ServiceSettingFreeze) error {
	key := stubFreezeKey(fz.ServiceID, fz.Date)
	if _, ok := s.freezes[key]; ok {
		return nil
	}
	s.freezes[key] = fz
	return nil
}

func (s *stubRepo) Transaction(_ context.Context, fn func(schedule.Repository) error) error {
	return fn(s)
}

func (s *stubRepo) AcquireCommitLock(_ context.Context, _, _ uint) error {
	return nil
}

var _ schedule.Repository = (*stubRepo)(nil)
