package dto

import (
	"time"

	"anoa.com/freelancehub/internal/entity"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"github.com/google/uuid"
)

// UpdateProfileInput represents the input for updating the caller's profile.
// Nil fields are left unchanged. Freelancer fields are ignored for other roles.
type UpdateProfileInput struct {
	FullName       *string  `json:"full_name" form:"full_name" binding:"omitempty,min=1,max=100"`
	Phone          *string  `json:"phone" form:"phone" binding:"omitempty,phone"`
	Specialization *string  `json:"specialization" form:"specialization" binding:"omitempty,max=100"`
	JobTitle       *string  `json:"job_title" form:"job_title" binding:"omitempty,max=100"`
	Skills         []string `json:"skills" form:"skills"`
}

type ProfileFiles struct {
	Photo  *commonDto.UploadedFile
	Resume *commonDto.UploadedFile
}

// ProfileResponse is returned for the caller's own profile.
type ProfileResponse struct {
	User              *entity.User              `json:"user"`
	FreelancerProfile *entity.FreelancerProfile `json:"freelancer_profile,omitempty"`
}

// FreelancerPublicResponse is what clients see when looking at a freelancer.
type FreelancerPublicResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	Specialization string    `json:"specialization"`
	JobTitle       string    `json:"job_title"`
	Skills         []string  `json:"skills"`
	ResumeURL      *string   `json:"resume_url,omitempty"`
	Rating         *float64  `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}
