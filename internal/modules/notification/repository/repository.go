package repository

import (
	"context"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelatedInfo is what rendering needs from a notification's referent.
type RelatedInfo struct {
	ProjectTitle string
	Score        float64
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// ResolveRelated returns gorm.ErrRecordNotFound when the referent is gone.
	ResolveRelated(ctx context.Context, ref entity.RelatedRef) (*RelatedInfo, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Notification, error) {
	var n entity.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []entity.Notification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) ResolveRelated(ctx context.Context, ref entity.RelatedRef) (*RelatedInfo, error) {
	db := r.db.WithContext(ctx)

	switch ref.Type {
	case entity.RelatedProject:
		var p entity.Project
		if err := db.Select("id", "title").First(&p, "id = ?", ref.ID).Error; err != nil {
			return nil, err
		}
		return &RelatedInfo{ProjectTitle: p.Title}, nil

	case entity.RelatedApplication:
		var row struct{ Title string }
		res := db.Table("applications").
			Select("projects.title AS title").
			Joins("JOIN projects ON projects.id = applications.project_id").
			Where("applications.id = ?", ref.ID).
			Limit(1).
			Scan(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return &RelatedInfo{ProjectTitle: row.Title}, nil

	case entity.RelatedRating:
		var rating entity.Rating
		if err := db.Select("id", "score").First(&rating, "id = ?", ref.ID).Error; err != nil {
			return nil, err
		}
		return &RelatedInfo{Score: rating.Score}, nil
	}

	return nil, gorm.ErrRecordNotFound
}
