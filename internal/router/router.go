package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/middleware"
)

// Options carries the collaborators the router wires together.
type Options struct {
	Resolver       api.IResolver
	SearchLimiter  *middleware.RateLimiter
	GenLimiter     *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler(opts.Logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	recipeHandler := api.NewRecipeHandler(opts.Resolver, opts.Logger)

	v1 := router.Group("/api/v1")
	recipes := v1.Group("/recipes")
	{
		search := recipes.Group("")
		if opts.SearchLimiter != nil {
			search.Use(opts.SearchLimiter.Middleware())
		}
		search.GET("/search", recipeHandler.SearchRecipes)

		generate := recipes.Group("")
		if opts.GenLimiter != nil {
			generate.Use(opts.GenLimiter.Middleware())
		}
		generate.POST("/generate", recipeHandler.GenerateRecipe)

		recipes.GET("/:id", recipeHandler.GetRecipe)
	}

	return router
}
