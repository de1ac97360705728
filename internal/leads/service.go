package leads

import (
	"context"
	"errors"
	"strings"

	"atelier-backend/internal/emails"
	"atelier-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrLeadExists = errors.New("Lead already exists")

type Service struct {
	DB     *gorm.DB
	Mailer emails.Sender
}

// CreateLeadInput from the public contact form.
type CreateLeadInput struct {
	Name     string
	Email    string
	Language string
}

// CreateLead checks for an existing lead by email, inserts, and alerts the
// agency inbox. The check and the insert are separate statements, so two
// concurrent submissions with the same email can both pass the check and
// yield two rows — a known race, kept as documented behavior.
func (s *Service) CreateLead(ctx context.Context, in CreateLeadInput) (*models.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing models.Lead
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrLeadExists
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	lead := models.Lead{
		Email:    email,
		Name:     in.Name,
		Language: in.Language,
	}
	if err := s.DB.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendLeadAlert(ctx, lead.Name, lead.Email, lead.Language); err != nil {
			// The row is already persisted; surface the failure without undoing it.
			log.Error().Err(err).Str("email", lead.Email).Msg("lead alert email failed")
			return nil, err
		}
	}
	return &lead, nil
}

// ListLeads returns captured leads, newest first (admin view).
func (s *Service) ListLeads(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}
