package service

import (
	"context"
	"testing"

	"anoa.com/freelancehub/internal/entity"
	appRepo "anoa.com/freelancehub/internal/modules/application/repository"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	projectDto "anoa.com/freelancehub/internal/modules/project/dto"
	"anoa.com/freelancehub/internal/modules/project/repository"
	ratingRepo "anoa.com/freelancehub/internal/modules/rating/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/internal/testutil"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(
		repository.NewProjectRepository(db),
		appRepo.NewApplicationRepository(db),
		userRepo.NewUserRepository(db),
		ratingRepo.NewRatingRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)
	return svc, db
}

func validInput() projectDto.ProjectInput {
	return projectDto.ProjectInput{
		Title:          "Landing page <b>now</b>",
		Description:    "Build a landing page",
		BudgetMin:      100,
		BudgetMax:      300,
		Deadline:       "2027-02-01",
		RequiredSkills: []string{" go ", "sql", "go"},
	}
}

func TestCreateProject(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)

	resp, err := svc.Create(ctx, client.ID, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Landing page now", resp.Title)
	assert.Equal(t, "2027-02-01", resp.Deadline)
	assert.Equal(t, []string{"go", "sql"}, resp.RequiredSkills)
	require.NotNil(t, resp.Client)
	assert.Equal(t, client.ID, resp.Client.ID)

	var notifications []entity.Notification
	require.NoError(t, db.Where("user_id = ?", client.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationProjectPublished, notifications[0].Type)
}

func TestCreateProjectRejectsFreelancerAndBadInput(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	_, err := svc.Create(ctx, freelancer.ID, validInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	input := validInput()
	input.BudgetMax = 50
	_, err = svc.Create(ctx, client.ID, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	input = validInput()
	input.Deadline = "01/02/2027"
	_, err = svc.Create(ctx, client.ID, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	input = validInput()
	input.Title = "<script></script>"
	_, err = svc.Create(ctx, client.ID, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestListOpenExcludesFilledProjects(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	open := testutil.SeedProject(t, db, client, "Open")
	pending := testutil.SeedProject(t, db, client, "Pending")
	filled := testutil.SeedProject(t, db, client, "Filled")
	testutil.SeedApplication(t, db, pending, freelancer, entity.ApplicationPending)
	testutil.SeedApplication(t, db, filled, freelancer, entity.ApplicationAccepted)

	list, err := svc.ListOpen(ctx, commonDto.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Meta.TotalItems)

	ids := map[string]bool{}
	for _, p := range list.Data {
		ids[p.ID.String()] = true
	}
	assert.True(t, ids[open.ID.String()])
	assert.True(t, ids[pending.ID.String()])
	assert.False(t, ids[filled.ID.String()])
}

func TestUpdateRequiresOwner(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "owner@example.com", entity.RoleClient)
	other := testutil.SeedUser(t, db, "other@example.com", entity.RoleClient)
	project := testutil.SeedProject(t, db, owner, "Mine")

	_, err := svc.Update(ctx, other.ID, project.ID, validInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resp, err := svc.Update(ctx, owner.ID, project.ID, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Landing page now", resp.Title)
}

func TestCancelConflictsOnceFilled(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	filled := testutil.SeedProject(t, db, client, "Filled")
	testutil.SeedApplication(t, db, filled, freelancer, entity.ApplicationAccepted)

	err := svc.Cancel(ctx, client.ID, filled.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	open := testutil.SeedProject(t, db, client, "Open")
	testutil.SeedApplication(t, db, open, freelancer, entity.ApplicationPending)
	require.NoError(t, svc.Cancel(ctx, client.ID, open.ID))

	_, err = svc.Get(ctx, open.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&entity.Application{}).Where("project_id = ?", open.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestForceDeleteByOwnerOrAdmin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	stranger := testutil.SeedUser(t, db, "stranger@example.com", entity.RoleClient)
	admin := testutil.SeedUser(t, db, "admin@example.com", entity.RoleAdmin)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	project := testutil.SeedProject(t, db, client, "Filled")
	testutil.SeedApplication(t, db, project, freelancer, entity.ApplicationAccepted)

	err := svc.ForceDelete(ctx, stranger.ID, project.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.ForceDelete(ctx, admin.ID, project.ID))

	var count int64
	require.NoError(t, db.Model(&entity.Application{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = svc.ForceDelete(ctx, client.ID, project.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListForUser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)
	admin := testutil.SeedUser(t, db, "admin@example.com", entity.RoleAdmin)

	applied := testutil.SeedProject(t, db, client, "Applied")
	testutil.SeedProject(t, db, client, "Untouched")
	testutil.SeedApplication(t, db, applied, freelancer, entity.ApplicationPending)

	own, err := svc.ListForUser(ctx, client.ID, client.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	mine, err := svc.ListForUser(ctx, freelancer.ID, freelancer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, applied.ID, mine[0].ID)

	_, err = svc.ListForUser(ctx, freelancer.ID, client.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	viaAdmin, err := svc.ListForUser(ctx, admin.ID, client.ID)
	require.NoError(t, err)
	assert.Len(t, viaAdmin, 2)
}

func TestClientProjectsHideContactUntilAccepted(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	pendingDev := testutil.SeedUser(t, db, "pending@example.com", entity.RoleFreelancer)
	hiredDev := testutil.SeedUser(t, db, "hired@example.com", entity.RoleFreelancer)

	project := testutil.SeedProject(t, db, client, "Shop")
	testutil.SeedApplication(t, db, project, pendingDev, entity.ApplicationPending)
	testutil.SeedApplication(t, db, project, hiredDev, entity.ApplicationAccepted)
	require.NoError(t, db.Create(&entity.Rating{FreelancerID: hiredDev.ID, Score: 4.5}).Error)

	projects, err := svc.ClientProjects(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Len(t, projects[0].Applications, 2)

	for _, a := range projects[0].Applications {
		switch a.Freelancer.ID {
		case pendingDev.ID:
			assert.Empty(t, a.Freelancer.Email)
			assert.Nil(t, a.Freelancer.Rating)
		case hiredDev.ID:
			assert.Equal(t, "hired@example.com", a.Freelancer.Email)
			require.NotNil(t, a.Freelancer.Rating)
			assert.InDelta(t, 4.5, *a.Freelancer.Rating, 0.001)
		default:
			t.Fatalf("unexpected applicant %s", a.Freelancer.ID)
		}
	}

	_, err = svc.ClientProjects(ctx, hiredDev.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestAcceptedFreelancer(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	freelancer := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)
	project := testutil.SeedProject(t, db, client, "Shop")

	_, err := svc.AcceptedFreelancer(ctx, client.ID, project.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	testutil.SeedApplication(t, db, project, freelancer, entity.ApplicationAccepted)
	applicant, err := svc.AcceptedFreelancer(ctx, client.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, freelancer.ID, applicant.ID)
	assert.Equal(t, "Developer", applicant.JobTitle)
	assert.Equal(t, "dev@example.com", applicant.Email)

	_, err = svc.AcceptedFreelancer(ctx, freelancer.ID, project.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
