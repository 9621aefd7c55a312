package models

import "time"

// Resource é um recurso físico finito (sala, cadeira, equipamento)
// compartilhado entre serviços. MaxServices = 0 significa sem limite.
type Resource struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	OrgID uint `gorm:"index" json:"org_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	MaxServices int    `gorm:"default:0" json:"max_services"`

	Services []Service `gorm:"many2many:resource_services;" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
