package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"anoa.com/freelancehub/internal/entity"
	notifDto "anoa.com/freelancehub/internal/modules/notification/dto"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Channel is the Redis channel carrying live notifications for a user.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	Emit(ctx context.Context, userID uuid.UUID, t entity.NotificationType, related entity.RelatedRef) (*notifDto.NotificationResponse, error)
	GetNotifications(ctx context.Context, userID uuid.UUID, q commonDto.PageQuery) (*notifDto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) Emit(ctx context.Context, userID uuid.UUID, t entity.NotificationType, related entity.RelatedRef) (*notifDto.NotificationResponse, error) {
	n := &entity.Notification{UserID: userID, Type: t}
	n.SetRelated(related)

	// 1. Save to DB
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create %s notification: %w", t, err)
	}

	resp, err := s.render(ctx, n)
	if err != nil {
		return nil, err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.redisClient.Publish(ctx, Channel(userID), payload).Err(); err != nil {
				log.Printf("failed to publish notification %s: %v", n.ID, err)
			}
		}
	}

	return resp, nil
}

func (s *notificationService) render(ctx context.Context, n *entity.Notification) (*notifDto.NotificationResponse, error) {
	var info *notifRepo.RelatedInfo
	if ref := n.Related(); !ref.IsNone() {
		resolved, err := s.repo.ResolveRelated(ctx, ref)
		switch {
		case err == nil:
			info = resolved
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	return &notifDto.NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		TypeDisplay: TypeDisplay(n.Type),
		Message:     Render(n.Type, info),
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}, nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, q commonDto.PageQuery) (*notifDto.NotificationListResponse, error) {
	offset := q.Normalize()
	notifications, total, err := s.repo.GetByUserID(ctx, userID, q.Limit, offset)
	if err != nil {
		return nil, err
	}

	data := make([]notifDto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp, err := s.render(ctx, &notifications[i])
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}

	return &notifDto.NotificationListResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(q, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return notFound(s.repo.MarkAsRead(ctx, id, userID))
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id, userID))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("notification not found: %w", apperror.ErrNotFound)
	}
	return err
}
