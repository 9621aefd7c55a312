package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/agendly/booking-engine/internal/models"
)

// mockRepo implementa Repository em memória para os testes do resolver e
// do detector.
type mockRepo struct {
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
}

func newMockRepo(org *models.Organization) *mockRepo {
	return &mockRepo{
		org:              org,
		services:         make(map[uint]*models.Service),
		membersBySvc:     make(map[uint][]models.Member),
		freezes:          make(map[string]*models.ServiceSettingFreeze),
		resourcesBySvc:   make(map[uint][]models.Resource),
		resourceBookings: make(map[uint][]models.Booking),
	}
}

func freezeKey(serviceID uint, date string) string {
	return fmt.Sprintf("%d|%s", serviceID, date)
}

func cross(b *models.Booking, start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

func (m *mockRepo) GetOrganizationByID(_ context.Context, id uint) (*models.Organization, error) {
	if m.org != nil && m.org.ID == id {
		return m.org, nil
	}
	return nil, fmt.Errorf("organization %d not found", id)
}

func (m *mockRepo) GetOrganizationBySlug(_ context.Context, slug string) (*models.Organization, error) {
	if m.org != nil && m.org.Slug == slug {
		return m.org, nil
	}
	return nil, fmt.Errorf("organization %q not found", slug)
}

func (m *mockRepo) GetService(_ context.Context, orgID, serviceID uint) (*models.Service, error) {
	if svc, ok := m.services[serviceID]; ok && svc.OrgID == orgID {
		return svc, nil
	}
	return nil, fmt.Errorf("service %d not found", serviceID)
}

func (m *mockRepo) ListAssignedMembers(_ context.Context, serviceID uint) ([]models.Member, error) {
	return m.membersBySvc[serviceID], nil
}

func (m *mockRepo) ListOrgWeekly(_ context.Context, orgID uint, weekday int) ([]models.WeeklyAvailability, error) {
	var rows []models.WeeklyAvailability
	for _, row := range m.orgWeekly {
		if row.OrgID == orgID && row.Weekday == weekday && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *mockRepo) ListMemberWeekly(_ context.Context, memberID uint, weekday int) ([]models.MemberWeeklyAvailability, error) {
	var rows []models.MemberWeeklyAvailability
	for _, row := range m.memberWeekly {
		if row.MemberID == memberID && row.Weekday == weekday && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *mockRepo) ListServiceWeekly(_ context.Context, serviceID uint) ([]models.ServiceWeeklyAvailability, error) {
	var rows []models.ServiceWeeklyAvailability
	for _, row := range m.serviceWeekly {
		if row.ServiceID == serviceID && row.Active {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *mockRepo) ReplaceServiceWeekly(_ context.Context, serviceID uint, rows []models.ServiceWeeklyAvailability) error {
	var kept []models.ServiceWeeklyAvailability
	for _, row := range m.serviceWeekly {
		if row.ServiceID != serviceID {
			kept = append(kept, row)
		}
	}
	for i := range rows {
		rows[i].ServiceID = serviceID
	}
	m.serviceWeekly = append(kept, rows...)
	return nil
}

func (m *mockRepo) ListSoloSiblings(_ context.Context, orgID, memberID, excludeServiceID uint) ([]models.Service, error) {
	var out []models.Service
	for id, svc := range m.services {
		if svc.OrgID != orgID || id == excludeServiceID {
			continue
		}
		members := m.membersBySvc[id]
		if len(members) == 1 && members[0].ID == memberID {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	b.ID = uint(len(m.bookings) + len(m.overrides) + 1)
	if b.IsOverride() {
		m.overrides = append(m.overrides, *b)
	} else {
		m.bookings = append(m.bookings, *b)
	}
	return nil
}

func (m *mockRepo) ListServiceBookings(_ context.Context, serviceID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ServiceID != nil && *b.ServiceID == serviceID && b.Status != "cancelled" && cross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockRepo) ListMemberBookings(_ context.Context, memberID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.MemberID != nil && *b.MemberID == memberID && b.Status != "cancelled" && cross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockRepo) CountOrgBookings(_ context.Context, orgID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range m.bookings {
		if b.OrgID == orgID && b.Status != "cancelled" && cross(&b, start, end) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) ListOverridesForRange(_ context.Context, orgID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, ov := range m.overrides {
		if ov.OrgID == orgID && cross(&ov, start, end) {
			out = append(out, ov)
		}
	}
	return out, nil
}

func (m *mockRepo) GetOverride(_ context.Context, orgID, overrideID uint) (*models.Booking, error) {
	for i := range m.overrides {
		if m.overrides[i].OrgID == orgID && m.overrides[i].ID == overrideID {
			return &m.overrides[i], nil
		}
	}
	return nil, fmt.Errorf("override %d not found", overrideID)
}

func (m *mockRepo) DeleteOverride(_ context.Context, overrideID uint) error {
	var kept []models.Booking
	for _, ov := range m.overrides {
		if ov.ID != overrideID {
			kept = append(kept, ov)
		}
	}
	m.overrides = kept
	return nil
}

func (m *mockRepo) ReferenceCodeExists(_ context.Context, code string) (bool, error) {
	for _, b := range m.bookings {
		if b.ReferenceCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ListResourcesForService(_ context.Context, serviceID uint) ([]models.Resource, error) {
	return m.resourcesBySvc[serviceID], nil
}

func (m *mockRepo) CountResourceBookings(_ context.Context, resourceID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range m.resourceBookings[resourceID] {
		if cross(&b, start, end) {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) ListResourceBookings(_ context.Context, resourceID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.resourceBookings[resourceID] {
		if cross(&b, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockRepo) GetFreeze(_ context.Context, serviceID uint, date string) (*models.ServiceSettingFreeze, error) {
	return m.freezes[freezeKey(serviceID, date)], nil
}

func (m *mockRepo) InsertFreezeIfAbsent(_ context.Context, fz *models.ServiceSettingFreeze) error {
	key := freezeKey(fz.ServiceID, fz.Date)
	if _, ok := m.freezes[key]; ok {
		return nil
	}
	m.freezes[key] = fz
	return nil
}

func (m *mockRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *mockRepo) AcquireCommitLock(_ context.Context, _, _ uint) error {
	return nil
}

var _ Repository = (*mockRepo)(nil)
