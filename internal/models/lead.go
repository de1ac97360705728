package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a contact captured from the marketing site. Uniqueness of the email
// is enforced by an application-level existence check before insert, so a pair
// of concurrent submissions can still slip through — see leads.Service.
type Lead struct {
	LeadID    uuid.UUID      `gorm:"column:lead_id;type:uuid;primaryKey" json:"lead_id"`
	Email     string         `gorm:"column:email;not null;index" json:"email"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Language  string         `gorm:"column:language;type:varchar(10)" json:"language"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lead) TableName() string {
	return "Leads"
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.LeadID == uuid.Nil {
		l.LeadID = uuid.New()
	}
	return nil
}
