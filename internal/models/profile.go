package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a profile can hold.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Profile is a portal account. The user_id is issued by the identity service
// when the profile is provisioned through an invite; locally created profiles
// (e.g. seeded admins) fall back to a generated UUID.
type Profile struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FullName     string         `gorm:"column:full_name;not null" json:"full_name"`
	CompanyName  string         `gorm:"column:company_name" json:"company_name"`
	Role         string         `gorm:"column:role;not null;default:client" json:"role"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "Profiles"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	return nil
}
