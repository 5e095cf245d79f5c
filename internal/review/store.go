package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for review data operations.
type Store interface {
	Add(ctx context.Context, r *Review) error
	ListByRecipe(ctx context.Context, recipeID string) ([]*Review, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore on an existing connection.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	// Create reviews table if not exists. recipe_id is intentionally not a
	// foreign key: deleting a recipe leaves its reviews orphaned.
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		recipe_id TEXT NOT NULL,
		reviewer_name TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL,
		description TEXT NOT NULL,
		date_of_review TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create reviews table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Add persists a new review, assigning an id and timestamp if unset.
func (s *PostgresStore) Add(ctx context.Context, r *Review) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.DateOfReview.IsZero() {
		r.DateOfReview = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, recipe_id, reviewer_name, rating, description, date_of_review)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.RecipeID, r.ReviewerName, r.Rating, r.Description, r.DateOfReview,
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// ListByRecipe retrieves all reviews for a recipe, oldest first.
func (s *PostgresStore) ListByRecipe(ctx context.Context, recipeID string) ([]*Review, error) {
	var reviews []*Review
	err := s.db.SelectContext(ctx, &reviews,
		`SELECT * FROM reviews WHERE recipe_id = $1 ORDER BY date_of_review`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
