package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses.
const (
	ProjectDiscovery = "discovery"
	ProjectActive    = "active"
	ProjectCompleted = "completed"
)

// Project is a client engagement with a total budget. The portal assumes at
// most one active project per client; nothing in the schema enforces that.
type Project struct {
	ProjectID   uuid.UUID      `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	ClientID    uuid.UUID      `gorm:"column:client_id;type:uuid;not null;index" json:"client_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	TotalBudget float64        `gorm:"column:total_budget;type:decimal(18,2);not null" json:"total_budget"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:'discovery'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}
