package recipe

// Recipe is a user-submitted recipe. Ingredients and Instructions are
// newline-delimited lists stored as single strings; AIIngredients and
// AIInstructions carry the enhanced version produced by the rewrite
// pipeline and are only ever written by it, always as a pair.
type Recipe struct {
	ID             string  `json:"_id" db:"id"`
	UserID         *string `json:"userId,omitempty" db:"user_id"`
	Name           string  `json:"name" db:"name"`
	Description    string  `json:"description,omitempty" db:"description"`
	PrepTime       string  `json:"prepTime" db:"prep_time"`
	CookTime       string  `json:"cookTime" db:"cook_time"`
	Instructions   string  `json:"instructions" db:"instructions"`
	Ingredients    string  `json:"ingredients" db:"ingredients"`
	PicturePath    string  `json:"r_picture,omitempty" db:"picture_path"`
	AIInstructions *string `json:"aiInstructions,omitempty" db:"ai_instructions"`
	AIIngredients  *string `json:"aiIngredients,omitempty" db:"ai_ingredients"`
	ReviewCounter  int     `json:"reviewCounter" db:"review_counter"`
}

// Update carries the user-editable fields of a recipe. The AI fields and
// the review counter are deliberately absent: direct edits never touch them.
type Update struct {
	Name         string
	Description  string
	PrepTime     string
	CookTime     string
	Instructions string
	Ingredients  string
	PicturePath  string
}
