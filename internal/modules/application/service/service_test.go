package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"anoa.com/freelancehub/internal/entity"
	appDto "anoa.com/freelancehub/internal/modules/application/dto"
	"anoa.com/freelancehub/internal/modules/application/repository"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	projectRepo "anoa.com/freelancehub/internal/modules/project/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/internal/testutil"
	"anoa.com/freelancehub/pkg/apperror"
	"anoa.com/freelancehub/pkg/mailer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc  Service
	db   *gorm.DB
	mail *mailer.Memory

	client  *entity.User
	project *entity.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db, mail: mailer.NewMemory("no-reply@test.local")}
	f.svc = NewService(
		repository.NewApplicationRepository(db),
		projectRepo.NewProjectRepository(db),
		userRepo.NewUserRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
		f.mail,
	)
	f.client = testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	f.project = testutil.SeedProject(t, db, f.client, "Shop site")
	return f
}

func (f *fixture) notificationsOf(t *testing.T, userID uuid.UUID) []entity.Notification {
	t.Helper()
	var out []entity.Notification
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("created_at asc").Find(&out).Error)
	return out
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)

	resp, err := f.svc.Submit(ctx, dev.ID, f.project.ID, appDto.SubmitInput{Message: " I can <i>do</i> it "})
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationPending, resp.Status)
	assert.Equal(t, "I can do it", resp.Message)

	notes := f.notificationsOf(t, f.client.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationNewApplication, notes[0].Type)
	assert.Equal(t, entity.RelatedToApplication(resp.ID), notes[0].Related())

	_, err = f.svc.Submit(ctx, dev.ID, f.project.ID, appDto.SubmitInput{Message: "again"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)

	_, err := f.svc.Submit(ctx, f.client.ID, f.project.ID, appDto.SubmitInput{Message: "hi"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Submit(ctx, dev.ID, uuid.New(), appDto.SubmitInput{Message: "hi"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.Submit(ctx, dev.ID, f.project.ID, appDto.SubmitInput{Message: "  "})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAcceptNotifiesAndMailsBothParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)
	app := testutil.SeedApplication(t, f.db, f.project, dev, entity.ApplicationPending)

	resp, err := f.svc.Accept(ctx, f.client.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationAccepted, resp.Status)

	notes := f.notificationsOf(t, dev.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationApplicationAccepted, notes[0].Type)

	require.Equal(t, 2, f.mail.Count())
	recipients := map[string]bool{}
	for _, msg := range f.mail.Sent {
		recipients[msg.To[0]] = true
	}
	assert.True(t, recipients["client@example.com"])
	assert.True(t, recipients["dev@example.com"])

	again, err := f.svc.Accept(ctx, f.client.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationAccepted, again.Status)
	assert.Equal(t, 2, f.mail.Count())
	assert.Len(t, f.notificationsOf(t, dev.ID), 1)
}

func TestAcceptSecondApplicationConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := testutil.SeedApplication(t, f.db, f.project, testutil.SeedUser(t, f.db, "a@example.com", entity.RoleFreelancer), entity.ApplicationPending)
	second := testutil.SeedApplication(t, f.db, f.project, testutil.SeedUser(t, f.db, "b@example.com", entity.RoleFreelancer), entity.ApplicationPending)

	_, err := f.svc.Accept(ctx, f.client.ID, first.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, f.client.ID, second.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var stored entity.Application
	require.NoError(t, f.db.First(&stored, "id = ?", second.ID).Error)
	assert.Equal(t, entity.ApplicationPending, stored.Status)
}

func TestConcurrentAcceptsPickOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var apps []*entity.Application
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"} {
		dev := testutil.SeedUser(t, f.db, email, entity.RoleFreelancer)
		apps = append(apps, testutil.SeedApplication(t, f.db, f.project, dev, entity.ApplicationPending))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(apps))
	for i, app := range apps {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.Accept(ctx, f.client.ID, id)
		}(i, app.ID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, errors.Is(err, apperror.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, winners)

	var accepted int64
	require.NoError(t, f.db.Model(&entity.Application{}).
		Where("project_id = ? AND status = ?", f.project.ID, entity.ApplicationAccepted).
		Count(&accepted).Error)
	assert.EqualValues(t, 1, accepted)
}

func TestDecisionsRequireOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)
	other := testutil.SeedUser(t, f.db, "other@example.com", entity.RoleClient)
	app := testutil.SeedApplication(t, f.db, f.project, dev, entity.ApplicationPending)

	_, err := f.svc.Accept(ctx, other.ID, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Refuse(ctx, dev.ID, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Accept(ctx, f.client.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRefuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)
	hired := testutil.SeedUser(t, f.db, "hired@example.com", entity.RoleFreelancer)
	pending := testutil.SeedApplication(t, f.db, f.project, dev, entity.ApplicationPending)
	accepted := testutil.SeedApplication(t, f.db, f.project, hired, entity.ApplicationAccepted)

	resp, err := f.svc.Refuse(ctx, f.client.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationRefused, resp.Status)

	notes := f.notificationsOf(t, dev.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationApplicationRefused, notes[0].Type)

	_, err = f.svc.Refuse(ctx, f.client.ID, pending.ID)
	require.NoError(t, err)
	assert.Len(t, f.notificationsOf(t, dev.ID), 1)

	_, err = f.svc.Refuse(ctx, f.client.ID, accepted.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Zero(t, f.mail.Count())
}

func TestAcceptRefusedApplicationConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dev := testutil.SeedUser(t, f.db, "dev@example.com", entity.RoleFreelancer)
	app := testutil.SeedApplication(t, f.db, f.project, dev, entity.ApplicationPending)

	_, err := f.svc.Refuse(ctx, f.client.ID, app.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, f.client.ID, app.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var stored entity.Application
	require.NoError(t, f.db.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, entity.ApplicationRefused, stored.Status)
	assert.Zero(t, f.mail.Count())
	assert.Len(t, f.notificationsOf(t, dev.ID), 1)
}
