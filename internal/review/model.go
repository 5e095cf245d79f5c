package review

import "time"

// Review is a single user review of a recipe. Reviews are immutable once
// written; a review may outlive its recipe (orphans are not reconciled).
type Review struct {
	ID           string    `json:"_id" db:"id"`
	RecipeID     string    `json:"recipe_id" db:"recipe_id"`
	ReviewerName string    `json:"reviewer_name,omitempty" db:"reviewer_name"`
	Rating       int       `json:"rating" db:"rating"`
	Description  string    `json:"description" db:"description"`
	DateOfReview time.Time `json:"date_of_review" db:"date_of_review"`
}
