package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a budget line within a project (e.g. "Web Architecture").
type Service struct {
	ServiceID          uuid.UUID      `gorm:"column:service_id;type:uuid;primaryKey" json:"service_id"`
	ProjectID          uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Name               string         `gorm:"column:name;not null" json:"name"`
	BudgetAllocated    float64        `gorm:"column:budget_allocated;type:decimal(18,2);not null" json:"budget_allocated"`
	BudgetSpent        float64        `gorm:"column:budget_spent;type:decimal(18,2);default:0" json:"budget_spent"`
	ProgressPercentage int            `gorm:"column:progress_percentage;default:0" json:"progress_percentage"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Service) TableName() string {
	return "Services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ServiceID == uuid.Nil {
		s.ServiceID = uuid.New()
	}
	return nil
}
