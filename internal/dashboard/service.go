package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"atelier-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("Profile not found")

const cacheTTL = 30 * time.Second

// Data is the assembled dashboard view model. ActiveWorker and Deliverable
// are nil when the project has no team-status row or nothing pending review.
type Data struct {
	Profile      models.Profile     `json:"profile"`
	Project      models.Project     `json:"project"`
	Services     []models.Service   `json:"services"`
	ActiveWorker *models.TeamStatus `json:"active_worker"`
	Deliverable  *models.Deliverable `json:"deliverable"`
}

// Service assembles the client dashboard. Rdb is optional; when set, the
// assembled view is cached briefly and invalidated by the write workflows.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// GetDashboardData returns the view model for the given user, or (nil, nil)
// when the user has no active project (the onboarding state, not an error).
func (s *Service) GetDashboardData(ctx context.Context, userID uuid.UUID) (*Data, error) {
	if cached := s.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	// At most one active project is an application convention, not a schema
	// constraint. Take the most recent and log when the convention is broken.
	var projects []models.Project
	if err := s.DB.WithContext(ctx).
		Where("client_id = ? AND status = ?", userID, models.ProjectActive).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	if len(projects) > 1 {
		log.Warn().Str("client_id", userID.String()).Int("count", len(projects)).
			Msg("client has multiple active projects; using the most recent")
	}
	project := projects[0]

	data := &Data{Profile: profile, Project: project, Services: []models.Service{}}

	// The three reads have no ordering dependency; run them concurrently and
	// join. A missing row is an empty field, never an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Where("project_id = ?", project.ProjectID).
			Order("budget_allocated DESC").
			Find(&data.Services).Error
	})
	g.Go(func() error {
		var ts models.TeamStatus
		err := s.DB.WithContext(gctx).Where("project_id = ?", project.ProjectID).First(&ts).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data.ActiveWorker = &ts
		return nil
	})
	g.Go(func() error {
		var d models.Deliverable
		err := s.DB.WithContext(gctx).
			Where("project_id = ? AND status = ?", project.ProjectID, models.DeliverablePendingReview).
			Order("created_at DESC").
			First(&d).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data.Deliverable = &d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.toCache(ctx, userID, data)
	return data, nil
}

func cacheKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

func (s *Service) fromCache(ctx context.Context, userID uuid.UUID) *Data {
	if s.Rdb == nil {
		return nil
	}
	b, err := s.Rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var data Data
	if json.Unmarshal(b, &data) != nil {
		return nil
	}
	return &data
}

func (s *Service) toCache(ctx context.Context, userID uuid.UUID, data *Data) {
	if s.Rdb == nil {
		return
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	_ = s.Rdb.Set(ctx, cacheKey(userID), b, cacheTTL).Err()
}
