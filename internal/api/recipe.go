package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/catalog"
	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/generate"
	"github.com/forkful/backend/internal/pool"
	"github.com/forkful/backend/internal/seed"
	"github.com/forkful/backend/internal/store"
)

// RecipeHandler exposes recipe resolution over HTTP.
type RecipeHandler struct {
	resolver IResolver
	logger   *zap.Logger
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(resolver IResolver, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// RegisterRoutes mounts the recipe endpoints on the given group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("/generate", h.GenerateRecipe)
	}
}

// GetRecipe resolves a source-namespaced recipe id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe id is required"})
		return
	}

	recipe, err := h.resolver.ResolveByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes searches all sources and applies the optional filters.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	f := filter.Filters{
		Cuisine: c.Query("cuisine"),
		Diet:    c.Query("diet"),
	}
	if raw := c.Query("max_ready_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_ready_minutes must be a non-negative integer"})
			return
		}
		f.MaxReadyMinutes = minutes
	}

	recipes, err := h.resolver.Search(c.Request.Context(), c.Query("q"), f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Recipes: recipes, Total: len(recipes)})
}

// GenerateRecipe runs freeform generation for a user prompt.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	recipe, err := h.resolver.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// writeError maps the subsystem's sentinel errors onto HTTP statuses.
// Unrecognized errors stay opaque to the client.
func (h *RecipeHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, seed.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, pool.ErrDuplicateTitle):
		c.JSON(http.StatusConflict, gin.H{"error": "a recipe with this title was already generated"})
	case errors.Is(err, generate.ErrGenerationInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the generator returned an unusable recipe"})
	case errors.Is(err, catalog.ErrQuotaExceeded),
		errors.Is(err, catalog.ErrSourceUnavailable),
		errors.Is(err, seed.ErrUnavailable):
		h.logger.Warn("upstream source failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "an upstream recipe source is unavailable"})
	default:
		h.logger.Error("recipe request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
