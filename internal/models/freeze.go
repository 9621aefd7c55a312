package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ServiceSettingFreeze congela a política vigente de um (serviço, data)
// no momento em que uma reserva real já existia para aquela data.
// Create-once: edições de agenda posteriores nunca sobrescrevem.
type ServiceSettingFreeze struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint   `gorm:"uniqueIndex:idx_freeze_service_date" json:"service_id"`
	Date      string `gorm:"size:10;uniqueIndex:idx_freeze_service_date" json:"date"`

	Settings datatypes.JSON `json:"settings"`

	CreatedAt time.Time `json:"created_at"`
}

type FrozenWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FrozenSettings struct {
	DurationMin                int            `json:"duration"`
	BufferBeforeMin            int            `json:"buffer_before"`
	BufferAfterMin             int            `json:"buffer_after"`
	TimeIncrementMin           int            `json:"time_increment"`
	UseFixedIncrement          bool           `json:"use_fixed_increment"`
	AllowEndsAfterAvailability bool           `json:"allow_ends_after_availability"`
	AllowSquishedBookings      bool           `json:"allow_squished_bookings"`
	WeeklyWindows              []FrozenWindow `json:"weekly_windows"`
}

func (f *ServiceSettingFreeze) DecodeSettings() (*FrozenSettings, error) {
	var fs FrozenSettings
	if err := json.Unmarshal(f.Settings, &fs); err != nil {
		return nil, err
	}
	return &fs, nil
}

func (fs *FrozenSettings) Encode() (datatypes.JSON, error) {
	b, err := json.Marshal(fs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
