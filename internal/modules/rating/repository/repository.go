package repository

import (
	"context"
	"errors"

	"anoa.com/freelancehub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MergeFunc computes the new score from the stored one, nil when none exists.
type MergeFunc func(existing *float64) (float64, error)

type RatingRepository interface {
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) (*entity.Rating, error)
	FindScores(ctx context.Context, freelancerIDs []uuid.UUID) (map[uuid.UUID]float64, error)
	// Upsert applies merge to the freelancer's rating under a row lock and
	// reports whether the row was created.
	Upsert(ctx context.Context, freelancerID uuid.UUID, merge MergeFunc) (*entity.Rating, bool, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) (*entity.Rating, error) {
	var rating entity.Rating
	if err := r.db.WithContext(ctx).Where("freelancer_id = ?", freelancerID).First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindScores(ctx context.Context, freelancerIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	scores := make(map[uuid.UUID]float64, len(freelancerIDs))
	if len(freelancerIDs) == 0 {
		return scores, nil
	}

	var ratings []entity.Rating
	if err := r.db.WithContext(ctx).
		Select("freelancer_id", "score").
		Where("freelancer_id IN ?", freelancerIDs).
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	for _, rating := range ratings {
		scores[rating.FreelancerID] = rating.Score
	}
	return scores, nil
}

func (r *ratingRepository) Upsert(ctx context.Context, freelancerID uuid.UUID, merge MergeFunc) (*entity.Rating, bool, error) {
	rating, created, err := r.upsert(ctx, freelancerID, merge)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to create the first rating; merge into the winner's row.
		return r.upsert(ctx, freelancerID, merge)
	}
	return rating, created, err
}

func (r *ratingRepository) upsert(ctx context.Context, freelancerID uuid.UUID, merge MergeFunc) (*entity.Rating, bool, error) {
	var (
		rating  entity.Rating
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("freelancer_id = ?", freelancerID).
			First(&rating).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			score, err := merge(nil)
			if err != nil {
				return err
			}
			rating = entity.Rating{FreelancerID: freelancerID, Score: score}
			created = true
			return tx.Omit("Freelancer").Create(&rating).Error
		case err != nil:
			return err
		}

		existing := rating.Score
		score, err := merge(&existing)
		if err != nil {
			return err
		}
		rating.Score = score
		return tx.Model(&rating).Update("score", score).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &rating, created, nil
}
