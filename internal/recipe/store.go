package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned by mutating operations when the referenced
// recipe does not exist.
var ErrNotFound = errors.New("recipe not found")

// Store defines the interface for recipe data operations.
type Store interface {
	Create(ctx context.Context, r *Recipe) error
	GetByID(ctx context.Context, id string) (*Recipe, error)
	List(ctx context.Context) ([]*Recipe, error)
	Update(ctx context.Context, id string, u Update) (*Recipe, error)
	Delete(ctx context.Context, id string) error
	IncrementReviewCounter(ctx context.Context, id string) error
	ApplyEnhancement(ctx context.Context, id, aiIngredients, aiInstructions string) (*Recipe, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create recipes table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		prep_time TEXT NOT NULL,
		cook_time TEXT NOT NULL,
		instructions TEXT NOT NULL,
		ingredients TEXT NOT NULL,
		picture_path TEXT NOT NULL DEFAULT '',
		ai_instructions TEXT,
		ai_ingredients TEXT,
		review_counter INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// DB exposes the underlying connection pool so the review store can share it.
func (s *PostgresStore) DB() *sqlx.DB {
	return s.db
}

// Create persists a new recipe, assigning an id if none is set.
func (s *PostgresStore) Create(ctx context.Context, r *Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, user_id, name, description, prep_time, cook_time, instructions, ingredients, picture_path, review_counter)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)`,
		r.ID, r.UserID, r.Name, r.Description, r.PrepTime, r.CookTime, r.Instructions, r.Ingredients, r.PicturePath,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	r.ReviewCounter = 0
	return nil
}

// GetByID retrieves a recipe by id. Returns (nil, nil) when no recipe exists.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r, `SELECT * FROM recipes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &r, nil
}

// List retrieves all recipes.
func (s *PostgresStore) List(ctx context.Context) ([]*Recipe, error) {
	var recipes []*Recipe
	if err := s.db.SelectContext(ctx, &recipes, `SELECT * FROM recipes ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Update replaces the user-authored fields of a recipe and returns the
// updated row. AI fields and the review counter are never written here.
func (s *PostgresStore) Update(ctx context.Context, id string, u Update) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r,
		`UPDATE recipes
		 SET name = $2, description = $3, prep_time = $4, cook_time = $5, instructions = $6, ingredients = $7, picture_path = $8
		 WHERE id = $1
		 RETURNING *`,
		id, u.Name, u.Description, u.PrepTime, u.CookTime, u.Instructions, u.Ingredients, u.PicturePath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return &r, nil
}

// Delete removes a recipe. Reviews referencing it are left in place.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementReviewCounter bumps the review counter by one. A missing recipe
// is not an error: the caller's review write must not be rolled back just
// because the counter could not be bumped.
func (s *PostgresStore) IncrementReviewCounter(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET review_counter = review_counter + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment review counter: %w", err)
	}
	return nil
}

// ApplyEnhancement writes both AI fields and zeroes the review counter in
// one statement. This is the only place the counter is ever reset.
func (s *PostgresStore) ApplyEnhancement(ctx context.Context, id, aiIngredients, aiInstructions string) (*Recipe, error) {
	var r Recipe
	err := s.db.GetContext(ctx, &r,
		`UPDATE recipes
		 SET ai_ingredients = $2, ai_instructions = $3, review_counter = 0
		 WHERE id = $1
		 RETURNING *`,
		id, aiIngredients, aiInstructions,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to apply enhancement: %w", err)
	}
	return &r, nil
}
