package repository

import (
	"context"
	"errors"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyFilled is returned by Accept when another application of the
// same project is already accepted.
var ErrAlreadyFilled = errors.New("project already has an accepted application")

// ErrAlreadyAccepted is returned by Refuse for an accepted application.
var ErrAlreadyAccepted = errors.New("application already accepted")

// ErrAlreadyRefused is returned by Accept for a refused application.
var ErrAlreadyRefused = errors.New("application already refused")

type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.Application) error
	Exists(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	Accept(ctx context.Context, application *entity.Application) error
	Refuse(ctx context.Context, application *entity.Application) error
	FindAcceptedByProject(ctx context.Context, projectID uuid.UUID) (*entity.Application, error)
	ExistsAcceptedForClient(ctx context.Context, clientID, freelancerID uuid.UUID) (bool, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *entity.Application) error {
	return r.db.WithContext(ctx).Omit("Project", "Freelancer").Create(application).Error
}

func (r *applicationRepository) Exists(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Where("project_id = ? AND freelancer_id = ?", projectID, freelancerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var application entity.Application
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Client").
		Preload("Freelancer").
		Where("id = ?", id).
		First(&application).Error; err != nil {
		return nil, err
	}

	return &application, nil
}

// Accept moves a pending application to accepted unless another application
// of the project already is. The project row is locked for the duration so
// concurrent accepts on one project serialize.
func (r *applicationRepository) Accept(ctx context.Context, application *entity.Application) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project entity.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&project, "id = ?", application.ProjectID).Error; err != nil {
			return err
		}

		var current entity.Application
		if err := tx.Select("id", "status").First(&current, "id = ?", application.ID).Error; err != nil {
			return err
		}
		if current.Status == entity.ApplicationRefused {
			return ErrAlreadyRefused
		}

		res := tx.Model(&entity.Application{}).
			Where("id = ? AND status = ?", application.ID, entity.ApplicationPending).
			Where("NOT EXISTS (SELECT 1 FROM applications AS other WHERE other.project_id = ? AND other.status = ?)",
				application.ProjectID, entity.ApplicationAccepted).
			Update("status", entity.ApplicationAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFilled
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFilled
	}
	if err == nil {
		application.Status = entity.ApplicationAccepted
	}
	return err
}

func (r *applicationRepository) Refuse(ctx context.Context, application *entity.Application) error {
	res := r.db.WithContext(ctx).Model(&entity.Application{}).
		Where("id = ? AND status <> ?", application.ID, entity.ApplicationAccepted).
		Update("status", entity.ApplicationRefused)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyAccepted
	}
	application.Status = entity.ApplicationRefused
	return nil
}

func (r *applicationRepository) FindAcceptedByProject(ctx context.Context, projectID uuid.UUID) (*entity.Application, error) {
	var application entity.Application
	if err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Freelancer.FreelancerProfile").
		Where("project_id = ? AND status = ?", projectID, entity.ApplicationAccepted).
		First(&application).Error; err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationRepository) ExistsAcceptedForClient(ctx context.Context, clientID, freelancerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("projects.client_id = ? AND applications.freelancer_id = ? AND applications.status = ?",
			clientID, freelancerID, entity.ApplicationAccepted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
