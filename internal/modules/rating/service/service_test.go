package service

import (
	"context"
	"testing"

	"anoa.com/freelancehub/internal/entity"
	appRepo "anoa.com/freelancehub/internal/modules/application/repository"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	ratingDto "anoa.com/freelancehub/internal/modules/rating/dto"
	"anoa.com/freelancehub/internal/modules/rating/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/internal/testutil"
	"anoa.com/freelancehub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr(f float64) *float64 { return &f }

func TestMerge(t *testing.T) {
	cases := []struct {
		name     string
		existing *float64
		score    int
		want     float64
		wantErr  bool
	}{
		{"first rating", nil, 4, 4, false},
		{"mean with stored", ptr(4), 5, 4.5, false},
		{"fractional stored", ptr(4.5), 1, 2.75, false},
		{"zero", nil, 0, 0, true},
		{"too high", ptr(3), 6, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Merge(tc.existing, tc.score)
			if tc.wantErr {
				assert.ErrorIs(t, err, apperror.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(
		repository.NewRatingRepository(db),
		userRepo.NewUserRepository(db),
		appRepo.NewApplicationRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)
	return svc, db
}

func TestRateFreelancerRequiresHire(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	dev := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)
	project := testutil.SeedProject(t, db, client, "Shop")
	testutil.SeedApplication(t, db, project, dev, entity.ApplicationPending)

	_, _, err := svc.RateFreelancer(ctx, client.ID, dev.ID, ratingDto.RateInput{Score: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, _, err = svc.RateFreelancer(ctx, dev.ID, dev.ID, ratingDto.RateInput{Score: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, _, err = svc.RateFreelancer(ctx, client.ID, uuid.New(), ratingDto.RateInput{Score: 5})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = svc.RateFreelancer(ctx, client.ID, client.ID, ratingDto.RateInput{Score: 5})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = svc.RateFreelancer(ctx, client.ID, dev.ID, ratingDto.RateInput{Score: 9})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRateFreelancerMergesScores(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	dev := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)
	project := testutil.SeedProject(t, db, client, "Shop")
	testutil.SeedApplication(t, db, project, dev, entity.ApplicationAccepted)

	empty, err := svc.GetRating(ctx, dev.ID)
	require.NoError(t, err)
	assert.Nil(t, empty.Score)

	first, created, err := svc.RateFreelancer(ctx, client.ID, dev.ID, ratingDto.RateInput{Score: 4})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.Score)
	assert.InDelta(t, 4, *first.Score, 1e-9)

	second, created, err := svc.RateFreelancer(ctx, client.ID, dev.ID, ratingDto.RateInput{Score: 5})
	require.NoError(t, err)
	assert.False(t, created)
	assert.InDelta(t, 4.5, *second.Score, 1e-9)

	stored, err := svc.GetRating(ctx, dev.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.InDelta(t, 4.5, *stored.Score, 1e-9)

	var count int64
	require.NoError(t, db.Model(&entity.Rating{}).Where("freelancer_id = ?", dev.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var notes []entity.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", dev.ID, entity.NotificationRatingReceived).Find(&notes).Error)
	assert.Len(t, notes, 2)
}
