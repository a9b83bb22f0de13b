package dto

import (
	"time"

	"anoa.com/freelancehub/internal/entity"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type ProjectInput struct {
	Title          string   `json:"title" binding:"required,max=100"`
	Description    string   `json:"description" binding:"required"`
	BudgetMin      float64  `json:"budget_min" binding:"gte=0"`
	BudgetMax      float64  `json:"budget_max" binding:"gtefield=BudgetMin"`
	Deadline       string   `json:"deadline" binding:"required,datetime=2006-01-02"`
	RequiredSkills []string `json:"required_skills"`
}

type ClientSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	PhotoURL *string   `json:"photo_url,omitempty"`
}

type ProjectResponse struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	BudgetMin      float64        `json:"budget_min"`
	BudgetMax      float64        `json:"budget_max"`
	Deadline       string         `json:"deadline"`
	RequiredSkills []string       `json:"required_skills"`
	CreatedAt      time.Time      `json:"created_at"`
	Client         *ClientSummary `json:"client,omitempty"`
}

type ProjectListResponse struct {
	Data []ProjectResponse        `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

// Applicant is a freelancer as shown to the owner of a project. Contact
// details are only filled once the freelancer has been accepted.
type Applicant struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	Specialization string    `json:"specialization"`
	JobTitle       string    `json:"job_title"`
	Skills         []string  `json:"skills"`
	ResumeURL      *string   `json:"resume_url,omitempty"`
	Rating         *float64  `json:"rating"`
}

type ApplicationSummary struct {
	ID          uuid.UUID                `json:"id"`
	Status      entity.ApplicationStatus `json:"status"`
	Message     string                   `json:"message"`
	SubmittedAt time.Time                `json:"submitted_at"`
	Freelancer  Applicant                `json:"freelancer"`
}

type ClientProjectResponse struct {
	ProjectResponse
	Applications []ApplicationSummary `json:"applications"`
}
