package enhance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipeshare/internal/recipe"
)

// Completer sends a prompt to an external completion service and returns
// the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RecipeStore is the slice of the recipe store the pipeline needs.
type RecipeStore interface {
	GetByID(ctx context.Context, id string) (*recipe.Recipe, error)
	ApplyEnhancement(ctx context.Context, id, aiIngredients, aiInstructions string) (*recipe.Recipe, error)
}

// Service runs the rewrite pipeline: completion, parse, commit. Two
// concurrent rewrites of the same recipe race last-writer-wins on the AI
// fields and counter reset; acceptable for this content, not mitigated.
type Service struct {
	llm     Completer
	recipes RecipeStore
	log     *zap.Logger
}

// NewService creates a new rewrite service.
func NewService(llm Completer, recipes RecipeStore, log *zap.Logger) *Service {
	return &Service{llm: llm, recipes: recipes, log: log}
}

// Rewrite sends the feedback text to the completion service, parses the
// reply and commits the result onto the recipe, resetting its review
// counter. The commit is strictly the last step: no failure earlier in the
// pipeline leaves any recipe mutation behind.
func (s *Service) Rewrite(ctx context.Context, recipeID, feedback string) (*Enhancement, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if r == nil {
		return nil, recipe.ErrNotFound
	}

	raw, err := s.llm.Complete(ctx, feedback)
	if err != nil {
		return nil, err
	}

	enh, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.recipes.ApplyEnhancement(ctx, recipeID, enh.JoinedIngredients(), enh.JoinedInstructions()); err != nil {
		return nil, err
	}

	s.log.Info("recipe enhanced",
		zap.String("recipe_id", recipeID),
		zap.Int("ingredients", len(enh.Ingredients)),
		zap.Int("instructions", len(enh.Instructions)))

	return enh, nil
}
