package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deliverable statuses.
const (
	DeliverablePendingReview    = "pending_review"
	DeliverableApproved         = "approved"
	DeliverableChangesRequested = "changes_requested"
)

// Deliverable is a client-facing artifact (e.g. a staged preview) awaiting
// approval or revision. Tags and VersionUpdates are JSON columns:
// tags is an array of strings, version_updates an array of {task, done}.
type Deliverable struct {
	DeliverableID  uuid.UUID      `gorm:"column:deliverable_id;type:uuid;primaryKey" json:"deliverable_id"`
	ProjectID      uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Tags           datatypes.JSON `gorm:"column:tags" json:"tags"`
	PreviewURL     string         `gorm:"column:preview_url" json:"preview_url"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:'pending_review'" json:"status"`
	ApprovedAt     *time.Time     `gorm:"column:approved_at" json:"approved_at"`
	VersionUpdates datatypes.JSON `gorm:"column:version_updates" json:"version_updates"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Deliverable) TableName() string {
	return "Deliverables"
}

func (d *Deliverable) BeforeCreate(tx *gorm.DB) error {
	if d.DeliverableID == uuid.Nil {
		d.DeliverableID = uuid.New()
	}
	return nil
}
