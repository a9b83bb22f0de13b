package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleFreelancer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Email                 string             `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FullName              string             `gorm:"size:100;not null" json:"full_name"`
	Phone                 string             `gorm:"size:20;not null" json:"phone"`
	PasswordHash          string             `gorm:"size:255;not null" json:"-"`
	Role                  Role               `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive              bool               `gorm:"not null;default:false" json:"is_active"`
	PhotoURL              *string            `gorm:"type:text" json:"photo_url,omitempty"`
	VerificationToken     *string            `gorm:"size:64;index" json:"-"`
	VerificationExpiresAt *time.Time         `json:"-"`
	ResetToken            *string            `gorm:"size:64;index" json:"-"`
	ResetExpiresAt        *time.Time         `json:"-"`
	CreatedAt             time.Time          `gorm:"autoCreateTime" json:"created_at"`
	FreelancerProfile     *FreelancerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"freelancer_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsFreelancer() bool {
	return u.Role == RoleFreelancer
}

// FreelancerProfile holds the fields only freelancers carry.
type FreelancerProfile struct {
	UserID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"user_id"`
	ResumeURL      *string                     `gorm:"type:text" json:"resume_url"`
	Specialization string                      `gorm:"size:100" json:"specialization"`
	JobTitle       string                      `gorm:"size:100" json:"job_title"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeSkills trims and de-duplicates skills, keeping first-seen order.
func NormalizeSkills(skills []string) datatypes.JSONSlice[string] {
	seen := make(map[string]bool, len(skills))
	out := make(datatypes.JSONSlice[string], 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
