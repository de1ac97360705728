package dashboard

import (
	"context"
	"testing"

	"atelier-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDashboardTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Project{}, &models.Service{},
		&models.TeamStatus{}, &models.Deliverable{},
	))
	return &Service{DB: db}, db
}

func seedProfile(t *testing.T, db *gorm.DB) models.Profile {
	p := models.Profile{Email: "client@acme.com", FullName: "Jordan Acme", CompanyName: "Acme Corp", Role: models.RoleClient}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestGetDashboardData_ProfileNotFound(t *testing.T) {
	svc, _ := setupDashboardTest(t)

	_, err := svc.GetDashboardData(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

// No active project is the onboarding state: nil data, no error.
func TestGetDashboardData_NoActiveProject(t *testing.T) {
	svc, db := setupDashboardTest(t)
	profile := seedProfile(t, db)

	require.NoError(t, db.Create(&models.Project{
		ClientID: profile.UserID, Name: "Old Build", TotalBudget: 1000, Status: models.ProjectCompleted,
	}).Error)

	data, err := svc.GetDashboardData(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGetDashboardData_FullAggregate(t *testing.T) {
	svc, db := setupDashboardTest(t)
	profile := seedProfile(t, db)

	project := models.Project{ClientID: profile.UserID, Name: "Relaunch", TotalBudget: 100000, Status: models.ProjectActive}
	require.NoError(t, db.Create(&project).Error)

	for _, s := range []models.Service{
		{ProjectID: project.ProjectID, Name: "Web Architecture", BudgetAllocated: 60000},
		{ProjectID: project.ProjectID, Name: "SEO & Strategy", BudgetAllocated: 20000},
		{ProjectID: project.ProjectID, Name: "Visual Identity", BudgetAllocated: 20000},
	} {
		require.NoError(t, db.Create(&s).Error)
	}
	require.NoError(t, db.Create(&models.TeamStatus{
		ProjectID: project.ProjectID, WorkerName: "Alex Moreau", CurrentStatus: models.WorkerCoding, CurrentTask: "Homepage build",
	}).Error)
	require.NoError(t, db.Create(&models.Deliverable{
		ProjectID: project.ProjectID, Title: "Homepage v2", Status: models.DeliverablePendingReview,
	}).Error)
	// An approved deliverable must not surface on the dashboard.
	require.NoError(t, db.Create(&models.Deliverable{
		ProjectID: project.ProjectID, Title: "Logo", Status: models.DeliverableApproved,
	}).Error)

	data, err := svc.GetDashboardData(context.Background(), profile.UserID)
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, profile.UserID, data.Profile.UserID)
	assert.Equal(t, project.ProjectID, data.Project.ProjectID)
	assert.Len(t, data.Services, 3)
	require.NotNil(t, data.ActiveWorker)
	assert.Equal(t, models.WorkerCoding, data.ActiveWorker.CurrentStatus)
	require.NotNil(t, data.Deliverable)
	assert.Equal(t, "Homepage v2", data.Deliverable.Title)
}

// Missing optional rows yield empty fields, never errors.
func TestGetDashboardData_EmptyOptionalReads(t *testing.T) {
	svc, db := setupDashboardTest(t)
	profile := seedProfile(t, db)

	require.NoError(t, db.Create(&models.Project{
		ClientID: profile.UserID, Name: "Relaunch", TotalBudget: 100000, Status: models.ProjectActive,
	}).Error)

	data, err := svc.GetDashboardData(context.Background(), profile.UserID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Empty(t, data.Services)
	assert.Nil(t, data.ActiveWorker)
	assert.Nil(t, data.Deliverable)
}

// Multiple active projects break the one-active-project convention; the
// aggregator picks the most recent instead of failing.
func TestGetDashboardData_MultipleActiveProjects(t *testing.T) {
	svc, db := setupDashboardTest(t)
	profile := seedProfile(t, db)

	older := models.Project{ClientID: profile.UserID, Name: "First", TotalBudget: 1000, Status: models.ProjectActive}
	require.NoError(t, db.Create(&older).Error)
	newer := models.Project{ClientID: profile.UserID, Name: "Second", TotalBudget: 2000, Status: models.ProjectActive}
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Model(&newer).Update("created_at", gorm.Expr("datetime('now', '+1 hour')")).Error)

	data, err := svc.GetDashboardData(context.Background(), profile.UserID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "Second", data.Project.Name)
}
