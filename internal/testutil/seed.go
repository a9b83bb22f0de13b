package testutil

import (
	"testing"
	"time"

	"anoa.com/freelancehub/internal/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SeedUser inserts an active account. Freelancers get an empty profile.
func SeedUser(t *testing.T, db *gorm.DB, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:        email,
		FullName:     email,
		Phone:        "44076356",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if role == entity.RoleFreelancer {
		u.FreelancerProfile = &entity.FreelancerProfile{JobTitle: "Developer"}
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedProject(t *testing.T, db *gorm.DB, owner *entity.User, title string) *entity.Project {
	t.Helper()
	p := &entity.Project{
		ClientID:    owner.ID,
		Title:       title,
		Description: "desc",
		BudgetMin:   100,
		BudgetMax:   200,
		Deadline:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedApplication(t *testing.T, db *gorm.DB, project *entity.Project, freelancer *entity.User, status entity.ApplicationStatus) *entity.Application {
	t.Helper()
	a := &entity.Application{
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		Message:      "hire me",
		Status:       status,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}
