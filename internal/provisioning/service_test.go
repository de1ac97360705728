package provisioning

import (
	"context"
	"errors"
	"math"
	"testing"

	"atelier-backend/internal/identity"
	"atelier-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeInviter struct {
	id    string
	err   error
	calls int
}

func (f *fakeInviter) InviteUserByEmail(ctx context.Context, email, fullName string) (*identity.InvitedUser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &identity.InvitedUser{ID: f.id, Email: email}, nil
}

func setupProvisioningTest(t *testing.T) (*Service, *gorm.DB, *fakeInviter) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Project{}, &models.Service{}, &models.TeamStatus{},
	))

	inviter := &fakeInviter{id: uuid.New().String()}
	svc := &Service{DB: db, Identity: inviter}
	return svc, db, inviter
}

func TestProvisionClient_CreatesFullWorkspace(t *testing.T) {
	svc, db, _ := setupProvisioningTest(t)

	result, err := svc.ProvisionClient(context.Background(), ProvisionInput{
		Email:       "client@acme.com",
		ClientName:  "Jordan Acme",
		CompanyName: "Acme Corp",
		ProjectName: "Acme Relaunch",
		Budget:      100000,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Acme Corp")

	var profile models.Profile
	require.NoError(t, db.Where("email = ?", "client@acme.com").First(&profile).Error)
	assert.Equal(t, models.RoleClient, profile.Role)
	assert.Equal(t, "Acme Corp", profile.CompanyName)

	var project models.Project
	require.NoError(t, db.Where("client_id = ?", profile.UserID).First(&project).Error)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.Equal(t, float64(100000), project.TotalBudget)

	var services []models.Service
	require.NoError(t, db.Where("project_id = ?", project.ProjectID).Order("budget_allocated DESC").Find(&services).Error)
	require.Len(t, services, 3)
	assert.Equal(t, "Web Architecture", services[0].Name)
	assert.InDelta(t, 60000, services[0].BudgetAllocated, 0.01)
	assert.InDelta(t, 20000, services[1].BudgetAllocated, 0.01)
	assert.InDelta(t, 20000, services[2].BudgetAllocated, 0.01)

	var ts models.TeamStatus
	require.NoError(t, db.Where("project_id = ?", project.ProjectID).First(&ts).Error)
	assert.Equal(t, models.WorkerOnline, ts.CurrentStatus)
	assert.NotEmpty(t, ts.WorkerName)
	assert.NotEmpty(t, ts.CurrentTask)
}

// Allocations must sum exactly to the budget even when the 60/20/20 split
// does not divide into whole cents.
func TestProvisionClient_AllocationSumsToBudget(t *testing.T) {
	for _, budget := range []float64{100000, 333.33, 0.05, 12345.67, 99999.99} {
		svc, db, _ := setupProvisioningTest(t)

		result, err := svc.ProvisionClient(context.Background(), ProvisionInput{
			Email:       "client@acme.com",
			ClientName:  "Jordan Acme",
			CompanyName: "Acme Corp",
			ProjectName: "Acme Relaunch",
			Budget:      budget,
		})
		require.NoError(t, err)

		var services []models.Service
		require.NoError(t, db.Where("project_id = ?", result.ProjectID).Find(&services).Error)
		require.Len(t, services, 3)

		sum := 0.0
		for _, s := range services {
			sum += s.BudgetAllocated
		}
		assert.InDelta(t, budget, sum, 0.005, "budget %v", budget)
		assert.InDelta(t, math.Round(budget*0.6*100)/100, services[0].BudgetAllocated, 0.01)
	}
}

func TestProvisionClient_InviteFailureWritesNothing(t *testing.T) {
	svc, db, inviter := setupProvisioningTest(t)
	inviter.err = errors.New("A user with this email address has already been registered")

	_, err := svc.ProvisionClient(context.Background(), ProvisionInput{
		Email:       "client@acme.com",
		ClientName:  "Jordan Acme",
		CompanyName: "Acme Corp",
		ProjectName: "Acme Relaunch",
		Budget:      50000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been registered")

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProvisionClient_ReprovisionUpdatesExistingProfile(t *testing.T) {
	svc, db, _ := setupProvisioningTest(t)

	existing := models.Profile{Email: "client@acme.com", FullName: "Old Name", Role: models.RoleClient}
	require.NoError(t, db.Create(&existing).Error)

	result, err := svc.ProvisionClient(context.Background(), ProvisionInput{
		Email:       "client@acme.com",
		ClientName:  "Jordan Acme",
		CompanyName: "Acme Corp",
		ProjectName: "Acme Relaunch",
		Budget:      50000,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, result.UserID)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", existing.UserID).First(&profile).Error)
	assert.Equal(t, "Jordan Acme", profile.FullName)
	assert.Equal(t, "Acme Corp", profile.CompanyName)
}

func TestInviteOnly(t *testing.T) {
	svc, _, inviter := setupProvisioningTest(t)

	userID, err := svc.InviteOnly(context.Background(), "client@acme.com", "Jordan Acme")
	require.NoError(t, err)
	assert.Equal(t, inviter.id, userID)
	assert.Equal(t, 1, inviter.calls)
}
