package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worker statuses shown on the client dashboard.
const (
	WorkerCoding  = "coding"
	WorkerMeeting = "meeting"
	WorkerOnline  = "online"
	WorkerOffline = "offline"
)

// TeamStatus is the single live-status row per project.
type TeamStatus struct {
	StatusID      uuid.UUID      `gorm:"column:status_id;type:uuid;primaryKey" json:"status_id"`
	ProjectID     uuid.UUID      `gorm:"column:project_id;type:uuid;not null;uniqueIndex" json:"project_id"`
	WorkerName    string         `gorm:"column:worker_name;not null" json:"worker_name"`
	CurrentStatus string         `gorm:"column:current_status;type:varchar(20);not null;default:'offline'" json:"current_status"`
	CurrentTask   string         `gorm:"column:current_task" json:"current_task"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TeamStatus) TableName() string {
	return "TeamStatuses"
}

func (t *TeamStatus) BeforeCreate(tx *gorm.DB) error {
	if t.StatusID == uuid.Nil {
		t.StatusID = uuid.New()
	}
	return nil
}
