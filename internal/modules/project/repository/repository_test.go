package repository

import (
	"context"
	"testing"

	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteIfUnfilled(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	client := testutil.SeedUser(t, db, "client@example.com", entity.RoleClient)
	dev := testutil.SeedUser(t, db, "dev@example.com", entity.RoleFreelancer)

	filled := testutil.SeedProject(t, db, client, "Filled")
	testutil.SeedApplication(t, db, filled, dev, entity.ApplicationAccepted)
	assert.ErrorIs(t, repo.DeleteIfUnfilled(ctx, filled.ID), ErrProjectFilled)

	_, err := repo.FindByID(ctx, filled.ID)
	require.NoError(t, err)

	open := testutil.SeedProject(t, db, client, "Open")
	testutil.SeedApplication(t, db, open, dev, entity.ApplicationRefused)
	require.NoError(t, repo.DeleteIfUnfilled(ctx, open.ID))

	var apps int64
	require.NoError(t, db.Model(&entity.Application{}).Where("project_id = ?", open.ID).Count(&apps).Error)
	assert.Zero(t, apps)

	assert.ErrorIs(t, repo.DeleteIfUnfilled(ctx, uuid.New()), gorm.ErrRecordNotFound)
}
