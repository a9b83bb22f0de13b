package dto

import (
	"time"

	"github.com/google/uuid"
)

type RateInput struct {
	Score int `json:"score"`
}

type RatingResponse struct {
	FreelancerID uuid.UUID  `json:"freelancer_id"`
	Score        *float64   `json:"score"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
