package dto

import (
	"time"

	"anoa.com/freelancehub/internal/entity"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID          uuid.UUID               `json:"id"`
	Type        entity.NotificationType `json:"type"`
	TypeDisplay string                  `json:"type_display"`
	Message     string                  `json:"message"`
	RelatedType entity.RelatedType      `json:"related_type,omitempty"`
	RelatedID   *uuid.UUID              `json:"related_id,omitempty"`
	IsRead      bool                    `json:"is_read"`
	CreatedAt   time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Data []NotificationResponse   `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
