package models

import "time"

// ===============================
// Override scopes
// ===============================

const (
	ScopeOrg     = "org"
	ScopeMember  = "member"
	ScopeService = "service"
)

// Booking guarda tanto reservas reais quanto overrides por data.
// ServiceID == NULL ⇒ override: IsBlocking fecha o horário, caso contrário
// abre o horário fora da agenda semanal. ScopeKind/ScopeID só valem
// para overrides.
type Booking struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	OrgID uint `gorm:"index" json:"org_id"`

	ServiceID *uint `gorm:"index" json:"service_id"`
	MemberID  *uint `gorm:"index" json:"member_id"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	IsBlocking bool `gorm:"default:false" json:"is_blocking"`

	ScopeKind string `gorm:"size:10" json:"scope_kind"`
	ScopeID   *uint  `json:"scope_id"`

	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	ReferenceCode string `gorm:"size:12;uniqueIndex" json:"reference_code"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) IsOverride() bool {
	return b.ServiceID == nil
}
