package dto

import (
	"time"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
)

type SubmitInput struct {
	Message string `json:"message" binding:"required"`
}

type ApplicationResponse struct {
	ID           uuid.UUID                `json:"id"`
	ProjectID    uuid.UUID                `json:"project_id"`
	FreelancerID uuid.UUID                `json:"freelancer_id"`
	Message      string                   `json:"message"`
	Status       entity.ApplicationStatus `json:"status"`
	SubmittedAt  time.Time                `json:"submitted_at"`
}

func NewApplicationResponse(a *entity.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		FreelancerID: a.FreelancerID,
		Message:      a.Message,
		Status:       a.Status,
		SubmittedAt:  a.SubmittedAt,
	}
}
