package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is the single merged score of a freelancer.
type Rating struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"freelancer_id"`
	Freelancer   *User     `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"-"`
	Score        float64   `gorm:"type:decimal(3,2);not null" json:"score"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
