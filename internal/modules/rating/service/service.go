package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"anoa.com/freelancehub/internal/entity"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	ratingDto "anoa.com/freelancehub/internal/modules/rating/dto"
	"anoa.com/freelancehub/internal/modules/rating/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Merge folds a new score into the stored one. With no stored score the new
// score is taken as is, otherwise the result is the mean of the two.
func Merge(existing *float64, newScore int) (float64, error) {
	if newScore < MinScore || newScore > MaxScore {
		return 0, apperror.ErrInvalidRating
	}
	if existing == nil {
		return float64(newScore), nil
	}
	return (*existing + float64(newScore)) / 2, nil
}

// HireChecker reports whether a client has accepted an application from a freelancer.
type HireChecker interface {
	ExistsAcceptedForClient(ctx context.Context, clientID, freelancerID uuid.UUID) (bool, error)
}

type Service interface {
	RateFreelancer(ctx context.Context, callerID, freelancerID uuid.UUID, input ratingDto.RateInput) (*ratingDto.RatingResponse, bool, error)
	GetRating(ctx context.Context, freelancerID uuid.UUID) (*ratingDto.RatingResponse, error)
}

type service struct {
	repo          repository.RatingRepository
	users         userRepo.UserRepository
	hires         HireChecker
	notifications notifService.NotificationService
}

func NewService(repo repository.RatingRepository, users userRepo.UserRepository, hires HireChecker, notifications notifService.NotificationService) Service {
	return &service{
		repo:          repo,
		users:         users,
		hires:         hires,
		notifications: notifications,
	}
}

func (s *service) RateFreelancer(ctx context.Context, callerID, freelancerID uuid.UUID, input ratingDto.RateInput) (*ratingDto.RatingResponse, bool, error) {
	if _, err := Merge(nil, input.Score); err != nil {
		return nil, false, err
	}

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperror.ErrUnauthorized
		}
		return nil, false, err
	}
	if caller.Role != entity.RoleClient {
		return nil, false, apperror.New(http.StatusForbidden, "only clients can rate freelancers", apperror.ErrForbidden)
	}

	freelancer, err := s.users.FindByID(ctx, freelancerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("freelancer not found: %w", apperror.ErrNotFound)
		}
		return nil, false, err
	}
	if !freelancer.IsFreelancer() {
		return nil, false, fmt.Errorf("freelancer not found: %w", apperror.ErrNotFound)
	}

	hired, err := s.hires.ExistsAcceptedForClient(ctx, caller.ID, freelancer.ID)
	if err != nil {
		return nil, false, err
	}
	if !hired {
		return nil, false, apperror.New(http.StatusForbidden, "you can only rate freelancers you have worked with", apperror.ErrForbidden)
	}

	rating, created, err := s.repo.Upsert(ctx, freelancer.ID, func(existing *float64) (float64, error) {
		return Merge(existing, input.Score)
	})
	if err != nil {
		return nil, false, err
	}

	if _, err := s.notifications.Emit(ctx, freelancer.ID, entity.NotificationRatingReceived, entity.RelatedToRating(rating.ID)); err != nil {
		log.Printf("failed to notify rating of %s: %v", freelancer.ID, err)
	}

	return toResponse(rating), created, nil
}

func (s *service) GetRating(ctx context.Context, freelancerID uuid.UUID) (*ratingDto.RatingResponse, error) {
	rating, err := s.repo.FindByFreelancerID(ctx, freelancerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ratingDto.RatingResponse{FreelancerID: freelancerID}, nil
		}
		return nil, err
	}
	return toResponse(rating), nil
}

func toResponse(r *entity.Rating) *ratingDto.RatingResponse {
	score := r.Score
	updated := r.UpdatedAt
	return &ratingDto.RatingResponse{
		FreelancerID: r.FreelancerID,
		Score:        &score,
		UpdatedAt:    &updated,
	}
}
