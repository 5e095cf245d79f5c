package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidReview is returned when a submission fails validation. Nothing
// is persisted in that case.
var ErrInvalidReview = errors.New("invalid review")

// CounterStore is the slice of the recipe store the ingestion path needs.
type CounterStore interface {
	IncrementReviewCounter(ctx context.Context, id string) error
}

// Submission is a new review as received from a client.
type Submission struct {
	RecipeID     string `validate:"required"`
	ReviewerName string
	Rating       int    `validate:"min=1,max=5"`
	Description  string `validate:"required"`
}

// Service ingests reviews: it validates a submission, persists it, then
// bumps the owning recipe's review counter.
type Service struct {
	reviews  Store
	recipes  CounterStore
	validate *validator.Validate
	log      *zap.Logger
}

// NewService creates a new review ingestion service.
func NewService(reviews Store, recipes CounterStore, log *zap.Logger) *Service {
	return &Service{
		reviews:  reviews,
		recipes:  recipes,
		validate: validator.New(),
		log:      log,
	}
}

// Ingest persists a validated review and increments the recipe's review
// counter. The counter bump is best-effort: the two writes are not
// transactional, and a counter failure never rolls back the review.
func (s *Service) Ingest(ctx context.Context, sub Submission) (*Review, error) {
	if err := s.validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	rv := &Review{
		RecipeID:     sub.RecipeID,
		ReviewerName: sub.ReviewerName,
		Rating:       sub.Rating,
		Description:  sub.Description,
	}
	if err := s.reviews.Add(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.recipes.IncrementReviewCounter(ctx, sub.RecipeID); err != nil {
		s.log.Warn("review saved but counter update failed",
			zap.String("recipe_id", sub.RecipeID),
			zap.Error(err))
	}

	return rv, nil
}
