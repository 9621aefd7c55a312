package models

import "time"

type Service struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	OrgID uint `gorm:"index" json:"org_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	DurationMin     int `json:"duration_min"`
	BufferBeforeMin int `json:"buffer_before_min"`
	BufferAfterMin  int `json:"buffer_after_min"`

	TimeIncrementMin  int  `json:"time_increment_min"`
	UseFixedIncrement bool `gorm:"default:false" json:"use_fixed_increment"`

	AllowSquishedBookings      bool `gorm:"default:false" json:"allow_squished_bookings"`
	AllowEndsAfterAvailability bool `gorm:"default:false" json:"allow_ends_after_availability"`

	MinNoticeHours        int `gorm:"default:0" json:"min_notice_hours"`
	MaxBookingHorizonDays int `gorm:"default:60" json:"max_booking_horizon_days"`

	Active bool `gorm:"default:true" json:"active"`

	Members []Member `gorm:"many2many:service_members;" json:"members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveIncrement: sem incremento fixo, o passo é a própria duração.
func (s *Service) EffectiveIncrement() int {
	if s.UseFixedIncrement && s.TimeIncrementMin > 0 {
		return s.TimeIncrementMin
	}
	return s.DurationMin
}
