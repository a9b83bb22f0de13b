package repository

import (
	"context"
	"errors"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProjectFilled is returned by DeleteIfUnfilled when an application
// has already been accepted.
var ErrProjectFilled = errors.New("project has an accepted application")

const hasAccepted = "EXISTS (SELECT 1 FROM applications WHERE applications.project_id = projects.id AND applications.status = ?)"

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	FindOpen(ctx context.Context, limit, offset int) ([]*entity.Project, int64, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error)
	FindByClientIDWithApplications(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error)
	FindAppliedByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Project, error)
	DeleteIfUnfilled(ctx context.Context, id uuid.UUID) error
	ForceDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Omit("Client", "Applications").Create(project).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Omit("Client", "Applications").Save(project).Error
}

func (r *projectRepository) FindOpen(ctx context.Context, limit, offset int) ([]*entity.Project, int64, error) {
	open := r.db.WithContext(ctx).Model(&entity.Project{}).Where("NOT "+hasAccepted, entity.ApplicationAccepted)

	var total int64
	if err := open.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*entity.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("NOT "+hasAccepted, entity.ApplicationAccepted).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error) {
	var projects []*entity.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) FindByClientIDWithApplications(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error) {
	var projects []*entity.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at asc")
		}).
		Preload("Applications.Freelancer").
		Preload("Applications.Freelancer.FreelancerProfile").
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) FindAppliedByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Project, error) {
	applied := r.db.WithContext(ctx).Model(&entity.Application{}).Select("project_id").Where("freelancer_id = ?", freelancerID)

	var projects []*entity.Project
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id IN (?)", applied).
		Order("created_at desc").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// DeleteIfUnfilled holds the same project row lock as an accept, so the
// accepted check and the delete cannot interleave with one.
func (r *projectRepository) DeleteIfUnfilled(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project entity.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&project, "id = ?", id).Error; err != nil {
			return err
		}

		var filled int64
		if err := tx.Model(&entity.Application{}).
			Where("project_id = ? AND status = ?", id, entity.ApplicationAccepted).
			Count(&filled).Error; err != nil {
			return err
		}
		if filled > 0 {
			return ErrProjectFilled
		}
		return deleteProject(tx, id)
	})
}

func (r *projectRepository) ForceDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProject(tx, id)
	})
}

func deleteProject(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("project_id = ?", id).Delete(&entity.Application{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&entity.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Project{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
