package deliverables

import (
	"context"
	"errors"
	"time"

	"atelier-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrDeliverableNotFound = errors.New("Deliverable not found")

type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Approve sets a deliverable to approved and stamps approved_at. Re-approving
// an already approved deliverable is not an error; the timestamp is re-set
// (current behavior the front end relies on).
func (s *Service) Approve(ctx context.Context, deliverableID uuid.UUID) (*models.Deliverable, error) {
	var d models.Deliverable
	if err := s.DB.WithContext(ctx).Where("deliverable_id = ?", deliverableID).First(&d).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDeliverableNotFound
		}
		return nil, err
	}

	now := time.Now()
	d.Status = models.DeliverableApproved
	d.ApprovedAt = &now
	if err := s.DB.WithContext(ctx).Save(&d).Error; err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, d.ProjectID)
	return &d, nil
}

// RequestChangesInput for the change-request ticket.
type RequestChangesInput struct {
	ProjectID     uuid.UUID
	DeliverableID uuid.UUID
	Title         string
	Description   string
}

// RequestChanges flips the deliverable to changes_requested and records a
// ticket, in one transaction: if the deliverable update does not land, no
// ticket exists either.
func (s *Service) RequestChanges(ctx context.Context, in RequestChangesInput) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Deliverable{}).
			Where("deliverable_id = ?", in.DeliverableID).
			Update("status", models.DeliverableChangesRequested)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDeliverableNotFound
		}

		t := models.Ticket{
			ProjectID:     in.ProjectID,
			DeliverableID: in.DeliverableID,
			Title:         in.Title,
			Description:   in.Description,
			Priority:      "medium",
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		ticket = &t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, in.ProjectID)
	return ticket, nil
}

// invalidateDashboard drops the cached dashboard of the project's client.
func (s *Service) invalidateDashboard(ctx context.Context, projectID uuid.UUID) {
	if s.Rdb == nil {
		return
	}
	var project models.Project
	if err := s.DB.WithContext(ctx).Select("client_id").Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return
	}
	_ = s.Rdb.Del(ctx, "dashboard:"+project.ClientID.String()).Err()
}
