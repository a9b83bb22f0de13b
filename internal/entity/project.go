package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *User                       `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Title          string                      `gorm:"size:100;not null" json:"title"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	BudgetMin      float64                     `gorm:"type:decimal(10,2);not null" json:"budget_min"`
	BudgetMax      float64                     `gorm:"type:decimal(10,2);not null" json:"budget_max"`
	Deadline       time.Time                   `gorm:"not null" json:"deadline"`
	RequiredSkills datatypes.JSONSlice[string] `json:"required_skills"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
	Applications   []Application               `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRefused  ApplicationStatus = "refused"
)

// Application is a freelancer's bid on a project. A freelancer applies to a
// given project at most once.
type Application struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_pair,priority:1" json:"project_id"`
	Project      *Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	FreelancerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_pair,priority:2;index" json:"freelancer_id"`
	Freelancer   *User             `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"freelancer,omitempty"`
	Message      string            `gorm:"type:text;not null" json:"message"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SubmittedAt  time.Time         `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}
