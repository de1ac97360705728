package provisioning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"atelier-backend/internal/emails"
	"atelier-backend/internal/identity"
	"atelier-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Default budget split created for every new project. The three shares sum to
// 1.0 so the allocations always sum to the project's total budget.
var defaultServices = []struct {
	Name  string
	Share float64
}{
	{"Web Architecture", 0.60},
	{"SEO & Strategy", 0.20},
	{"Visual Identity", 0.20},
}

// Initial team-status row for a freshly provisioned project.
const (
	initialWorkerName = "Alex Moreau"
	initialWorkerTask = "Project kickoff & technical discovery"
)

// Service scaffolds a client workspace: identity invite, profile, project,
// default budget lines, team status.
type Service struct {
	DB            *gorm.DB
	Identity      identity.Inviter
	Mailer        emails.Sender
	Rdb           *redis.Client
	PortalBaseURL string
}

// ProvisionInput is the validated admin form. Handlers validate before
// constructing it; the service trusts the fields.
type ProvisionInput struct {
	Email       string
	ClientName  string
	CompanyName string
	ProjectName string
	Budget      float64
}

// ProvisionResult reports the created workspace.
type ProvisionResult struct {
	UserID    uuid.UUID       `json:"user_id"`
	ProjectID uuid.UUID       `json:"project_id"`
	Services  []models.Service `json:"services"`
	Message   string          `json:"message"`
}

// ProvisionClient runs the full workflow. The identity invite happens first
// and cannot be undone from here; every database write after it runs in one
// transaction, so a mid-sequence failure leaves at worst an invited identity
// with no workspace (reported in the returned error), never a half-built one.
func (s *Service) ProvisionClient(ctx context.Context, in ProvisionInput) (*ProvisionResult, error) {
	invited, err := s.Identity.InviteUserByEmail(ctx, in.Email, in.ClientName)
	if err != nil {
		return nil, err
	}

	userID, parseErr := uuid.Parse(invited.ID)
	if parseErr != nil {
		userID = uuid.New()
	}

	var result ProvisionResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		email := strings.ToLower(in.Email)

		var profile models.Profile
		err := tx.Where("email = ?", email).First(&profile).Error
		if err == gorm.ErrRecordNotFound {
			profile = models.Profile{
				UserID:      userID,
				Email:       email,
				FullName:    in.ClientName,
				CompanyName: in.CompanyName,
				Role:        models.RoleClient,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			profile.FullName = in.ClientName
			profile.CompanyName = in.CompanyName
			profile.Role = models.RoleClient
			if err := tx.Save(&profile).Error; err != nil {
				return err
			}
		}

		project := models.Project{
			ClientID:    profile.UserID,
			Name:        in.ProjectName,
			TotalBudget: in.Budget,
			Status:      models.ProjectActive,
		}
		if err := tx.Create(&project).Error; err != nil {
			return errors.New("Failed to create project")
		}

		services, err := createDefaultServices(tx, project.ProjectID, in.Budget)
		if err != nil {
			return err
		}

		if err := tx.Create(&models.TeamStatus{
			ProjectID:     project.ProjectID,
			WorkerName:    initialWorkerName,
			CurrentStatus: models.WorkerOnline,
			CurrentTask:   initialWorkerTask,
		}).Error; err != nil {
			return err
		}

		result = ProvisionResult{
			UserID:    profile.UserID,
			ProjectID: project.ProjectID,
			Services:  services,
			Message:   fmt.Sprintf("Workspace for %s is ready", in.CompanyName),
		}
		return nil
	})
	if err != nil {
		// The invite already went out; the identity exists without a workspace.
		return nil, fmt.Errorf("%s (the invitation to %s was already sent; re-run provisioning to finish the workspace)", err.Error(), in.Email)
	}

	s.invalidateViews(ctx, result.UserID)

	if s.Mailer != nil {
		portalLink := strings.TrimRight(s.PortalBaseURL, "/") + "/dashboard"
		if err := s.Mailer.SendPortalInvite(ctx, in.Email, in.ClientName, in.CompanyName, portalLink); err != nil {
			log.Error().Err(err).Str("email", in.Email).Msg("portal invite email failed")
		}
	}

	return &result, nil
}

// InviteOnly performs just the identity-service invite and returns the new
// user id (the thin /admin/invite endpoint).
func (s *Service) InviteOnly(ctx context.Context, email, clientName string) (string, error) {
	invited, err := s.Identity.InviteUserByEmail(ctx, email, clientName)
	if err != nil {
		return "", err
	}
	return invited.ID, nil
}

// createDefaultServices inserts the fixed 60/20/20 split. The last line takes
// the remainder so the cent-rounded allocations still sum exactly to budget.
func createDefaultServices(tx *gorm.DB, projectID uuid.UUID, budget float64) ([]models.Service, error) {
	out := make([]models.Service, 0, len(defaultServices))
	remaining := budget
	for i, def := range defaultServices {
		alloc := math.Round(budget*def.Share*100) / 100
		if i == len(defaultServices)-1 {
			alloc = math.Round(remaining*100) / 100
		}
		remaining -= alloc
		svc := models.Service{
			ProjectID:       projectID,
			Name:            def.Name,
			BudgetAllocated: alloc,
		}
		if err := tx.Create(&svc).Error; err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// invalidateViews drops the Redis-cached read models touched by provisioning.
func (s *Service) invalidateViews(ctx context.Context, userID uuid.UUID) {
	if s.Rdb == nil {
		return
	}
	_ = s.Rdb.Del(ctx, "dashboard:"+userID.String(), "admin:clients").Err()
}
