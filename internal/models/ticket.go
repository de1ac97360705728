package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket is a recorded change request tied to a specific deliverable.
type Ticket struct {
	TicketID      uuid.UUID      `gorm:"column:ticket_id;type:uuid;primaryKey" json:"ticket_id"`
	ProjectID     uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	DeliverableID uuid.UUID      `gorm:"column:deliverable_id;type:uuid;not null;index" json:"deliverable_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	Priority      string         `gorm:"column:priority;type:varchar(10);not null;default:'medium'" json:"priority"`
	AssigneeID    *uuid.UUID     `gorm:"column:assignee_id;type:uuid" json:"assignee_id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Ticket) TableName() string {
	return "Tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.TicketID == uuid.Nil {
		t.TicketID = uuid.New()
	}
	return nil
}
