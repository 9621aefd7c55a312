package models

import "time"

// ===============================
// Plan tiers
// ===============================

const (
	PlanBasic = "basic"
	PlanPro   = "pro"
	PlanTeam  = "team"
)

type Organization struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone string `gorm:"size:64;default:'UTC'" json:"timezone"`

	PlanTier           string `gorm:"size:10;default:'basic'" json:"plan_tier"`
	SubscriptionStatus string `gorm:"size:20;default:'active'" json:"subscription_status"`

	OwnerID uint `json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) IsTeamTier() bool {
	return o.PlanTier == PlanTeam
}

// CanEditWeeklyAvailability é o único ponto onde billing influencia o motor:
// plano básico não edita agenda semanal.
func (o *Organization) CanEditWeeklyAvailability() bool {
	if o.SubscriptionStatus != "active" && o.SubscriptionStatus != "trialing" {
		return false
	}
	return o.PlanTier == PlanPro || o.PlanTier == PlanTeam
}
