package repository

import (
	"context"
	"time"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AfterCreateFunc runs inside the registration transaction once the rows
// exist. Returning an error rolls the registration back.
type AfterCreateFunc func(ctx context.Context, user *entity.User) error

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, afterCreate AfterCreateFunc) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, user *entity.User, role entity.Role) error
	FindAllExcludingRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
	CountByRole(ctx context.Context) (map[entity.Role]int64, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User, afterCreate AfterCreateFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := user.FreelancerProfile
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}

		if profile != nil {
			profile.UserID = user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}

		if afterCreate != nil {
			return afterCreate(ctx, user)
		}
		return nil
	})
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("FreelancerProfile").
		Where(query, args...).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "verification_token = ?", token)
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "reset_token = ?", token)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}

		if user.FreelancerProfile != nil {
			user.FreelancerProfile.UserID = user.ID
			if err := tx.Save(user.FreelancerProfile).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) UpdateRole(ctx context.Context, user *entity.User, role entity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.User{}).Where("id = ?", user.ID).Update("role", role).Error; err != nil {
			return err
		}
		user.Role = role

		if role == entity.RoleFreelancer && user.FreelancerProfile == nil {
			profile := &entity.FreelancerProfile{UserID: user.ID, Skills: entity.NormalizeSkills(nil)}
			if err := tx.FirstOrCreate(profile, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
			user.FreelancerProfile = profile
		}

		return nil
	})
}

func (r *userRepository) FindAllExcludingRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).
		Preload("FreelancerProfile").
		Where("role <> ?", role).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[entity.Role]int64, error) {
	var rows []struct {
		Role  entity.Role
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[entity.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// DeleteCascade removes the user together with everything it owns.
func (r *userRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedProjects := tx.Model(&entity.Project{}).Select("id").Where("client_id = ?", id)

		steps := []func() error{
			func() error { return tx.Where("user_id = ?", id).Delete(&entity.Notification{}).Error },
			func() error { return tx.Where("freelancer_id = ?", id).Delete(&entity.Application{}).Error },
			func() error { return tx.Where("project_id IN (?)", ownedProjects).Delete(&entity.Application{}).Error },
			func() error { return tx.Where("client_id = ?", id).Delete(&entity.Project{}).Error },
			func() error { return tx.Where("freelancer_id = ?", id).Delete(&entity.Rating{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&entity.FreelancerProfile{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entity.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("reset_token IS NOT NULL AND reset_expires_at <= ?", now).
		Updates(map[string]interface{}{"reset_token": nil, "reset_expires_at": nil})
	return res.RowsAffected, res.Error
}
