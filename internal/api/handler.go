package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"recipeshare/internal/enhance"
	"recipeshare/internal/recipe"
	"recipeshare/internal/review"
)

// RecipeStore defines the interface for recipe data operations.
type RecipeStore interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	GetByID(ctx context.Context, id string) (*recipe.Recipe, error)
	List(ctx context.Context) ([]*recipe.Recipe, error)
	Update(ctx context.Context, id string, u recipe.Update) (*recipe.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// ReviewStore defines the interface for review reads.
type ReviewStore interface {
	ListByRecipe(ctx context.Context, recipeID string) ([]*review.Review, error)
}

// ReviewIngestor defines the interface for review ingestion.
type ReviewIngestor interface {
	Ingest(ctx context.Context, sub review.Submission) (*review.Review, error)
}

// Rewriter defines the interface for the AI rewrite pipeline.
type Rewriter interface {
	Rewrite(ctx context.Context, recipeID, feedback string) (*enhance.Enhancement, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Recipes   RecipeStore
	Reviews   ReviewStore
	Ingestor  ReviewIngestor
	Rewriter  Rewriter
	Log       *zap.Logger
	ImagesDir string
	DevMode   bool
}

// NewHandler creates a new Handler.
func NewHandler(recipes RecipeStore, reviews ReviewStore, ingestor ReviewIngestor, rewriter Rewriter, log *zap.Logger, imagesDir string, devMode bool) *Handler {
	return &Handler{
		Recipes:   recipes,
		Reviews:   reviews,
		Ingestor:  ingestor,
		Rewriter:  rewriter,
		Log:       log,
		ImagesDir: imagesDir,
		DevMode:   devMode,
	}
}

// Register wires all routes onto the router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/add_recipe", h.AddRecipe)
	rg.GET("/get_recipies", h.GetRecipes)
	rg.GET("/get_recipe/:id", h.GetRecipe)
	rg.PUT("/update_recipies/:id", h.UpdateRecipe)
	rg.DELETE("/delete_recipies/:id", h.DeleteRecipe)
	rg.GET("/get_reviews/:id", h.GetReviews)
	rg.POST("/add_review", h.AddReview)
	rg.POST("/ai_modify", h.AIModify)
}

// AddRecipe handles multipart recipe submissions with an optional picture.
func (h *Handler) AddRecipe(c *gin.Context) {
	r := recipe.Recipe{
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		PrepTime:     c.PostForm("prepTime"),
		CookTime:     c.PostForm("cookTime"),
		Instructions: c.PostForm("instructions"),
		Ingredients:  c.PostForm("ingredients"),
	}
	if r.Name == "" || r.PrepTime == "" || r.CookTime == "" || r.Instructions == "" || r.Ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, prepTime, cookTime, instructions and ingredients are required"})
		return
	}

	// The authenticated user id, when present, arrives as an opaque header.
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		r.UserID = &userID
	}

	if file, err := c.FormFile("r_picture"); err == nil {
		picturePath, err := h.savePicture(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		r.PicturePath = picturePath
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Recipes.Create(ctx, &r); err != nil {
		h.serverError(c, "failed to save recipe", err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// GetRecipes handles requests to list all recipes.
func (h *Handler) GetRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.Recipes.List(ctx)
	if err != nil {
		h.serverError(c, "failed to list recipes", err)
		return
	}
	if recipes == nil {
		recipes = []*recipe.Recipe{}
	}

	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles requests to retrieve a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.Recipes.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, "failed to get recipe", err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, r)
}

// UpdateRecipe replaces the user-authored fields of a recipe. Form fields
// that are absent keep their current value; the AI fields and the review
// counter are never touched by this path.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Recipes.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, "failed to get recipe", err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	u := recipe.Update{
		Name:         existing.Name,
		Description:  existing.Description,
		PrepTime:     existing.PrepTime,
		CookTime:     existing.CookTime,
		Instructions: existing.Instructions,
		Ingredients:  existing.Ingredients,
		PicturePath:  existing.PicturePath,
	}
	if v, ok := c.GetPostForm("name"); ok {
		u.Name = v
	}
	if v, ok := c.GetPostForm("description"); ok {
		u.Description = v
	}
	if v, ok := c.GetPostForm("prepTime"); ok {
		u.PrepTime = v
	}
	if v, ok := c.GetPostForm("cookTime"); ok {
		u.CookTime = v
	}
	if v, ok := c.GetPostForm("instructions"); ok {
		u.Instructions = v
	}
	if v, ok := c.GetPostForm("ingredients"); ok {
		u.Ingredients = v
	}
	if file, err := c.FormFile("r_picture"); err == nil {
		picturePath, err := h.savePicture(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u.PicturePath = picturePath
	}

	updated, err := h.Recipes.Update(ctx, c.Param("id"), u)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		h.serverError(c, "failed to update recipe", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRecipe removes a recipe. Its reviews are left in place.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.Recipes.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, "failed to get recipe", err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	if err := h.Recipes.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		h.serverError(c, "failed to delete recipe", err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// GetReviews lists all reviews for a recipe.
func (h *Handler) GetReviews(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListByRecipe(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, "failed to list reviews", err)
		return
	}
	if reviews == nil {
		reviews = []*review.Review{}
	}

	c.JSON(http.StatusOK, reviews)
}

// addReviewRequest is the add_review request body.
type addReviewRequest struct {
	RecipeID     string `json:"recipe_id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	Description  string `json:"description"`
}

// AddReview ingests a new review and bumps the recipe's review counter.
func (h *Handler) AddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Ingestor.Ingest(ctx, review.Submission{
		RecipeID:     req.RecipeID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Description:  req.Description,
	})
	if err != nil {
		if errors.Is(err, review.ErrInvalidReview) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, "failed to add review", err)
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// aiModifyRequest is the ai_modify request body: the recipe to rewrite and
// the feedback text (current ingredients, instructions and review comments).
type aiModifyRequest struct {
	Text     string `json:"text"`
	RecipeID string `json:"recipeId"`
}

// AIModify runs the rewrite pipeline for a recipe and returns the parsed
// {ingredients, instructions} result.
func (h *Handler) AIModify(c *gin.Context) {
	var req aiModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid `text` in body"})
		return
	}
	if req.RecipeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid `recipeId` in body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	enhancement, err := h.Rewriter.Rewrite(ctx, req.RecipeID, strings.TrimSpace(req.Text))
	if err != nil {
		h.rewriteError(c, req.RecipeID, err)
		return
	}

	c.JSON(http.StatusOK, enhancement)
}

// rewriteError maps pipeline failures onto the response taxonomy: 404 for a
// missing recipe, the upstream status (or 502) for completion failures, 500
// for an unparseable reply.
func (h *Handler) rewriteError(c *gin.Context, recipeID string, err error) {
	var upstreamErr *enhance.UpstreamError
	var malformedErr *enhance.MalformedResponseError

	switch {
	case errors.Is(err, recipe.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	case errors.As(err, &upstreamErr):
		status := upstreamErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		h.Log.Error("completion service failure",
			zap.String("recipe_id", recipeID),
			zap.Int("upstream_status", upstreamErr.StatusCode),
			zap.Error(err))
		body := gin.H{"error": "completion service failure", "upstream_status": upstreamErr.StatusCode}
		if h.DevMode {
			body["details"] = upstreamErr.Body
		}
		c.JSON(status, body)
	case errors.Is(err, enhance.ErrEmptyCompletion):
		h.Log.Error("completion service returned no content",
			zap.String("recipe_id", recipeID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "completion service returned no content"})
	case errors.As(err, &malformedErr):
		h.Log.Error("unparseable AI response",
			zap.String("recipe_id", recipeID),
			zap.String("reason", malformedErr.Reason))
		body := gin.H{"error": "Invalid AI response format"}
		if h.DevMode {
			body["details"] = malformedErr.Reason
			body["raw"] = malformedErr.Raw
		}
		c.JSON(http.StatusInternalServerError, body)
	default:
		h.serverError(c, "ai modify failed", err)
	}
}

// serverError logs the cause and returns an opaque 500 unless DevMode
// allows the detail out.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, zap.Error(err))
	body := gin.H{"error": msg}
	if h.DevMode {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// savePicture resizes an uploaded recipe picture to 800px wide and writes
// it into the images directory under a fresh name.
func (h *Handler) savePicture(file *multipart.FileHeader) (string, error) {
	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		return "", fmt.Errorf("invalid file type, only JPEG, JPG and PNG images are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(800, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(h.ImagesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	picturePath := filepath.Join(h.ImagesDir, uuid.NewString()+extension)
	out, err := os.Create(picturePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	switch extension {
	case ".jpeg", ".jpg":
		err = jpeg.Encode(out, img, nil)
	case ".png":
		err = png.Encode(out, img)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return picturePath, nil
}
