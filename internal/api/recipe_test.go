package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/catalog"
	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/generate"
	"github.com/forkful/backend/internal/mocks"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/pool"
	"github.com/forkful/backend/internal/store"
)

func setupHandler(t *testing.T) (*gin.Engine, *mocks.MockResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := new(mocks.MockResolver)
	handler := NewRecipeHandler(resolver, zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, resolver
}

func perform(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGetRecipe(t *testing.T) {
	t.Run("should return a resolved recipe", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("ResolveByID", mock.Anything, "catalog:715538").
			Return(&models.Recipe{ID: "catalog:715538", Title: "Bruschetta"}, nil)

		w := perform(router, http.MethodGet, "/api/v1/recipes/catalog:715538", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Bruschetta", got.Title)
	})

	t.Run("should map a miss to 404", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("ResolveByID", mock.Anything, "nope").Return(nil, store.ErrNotFound)

		w := perform(router, http.MethodGet, "/api/v1/recipes/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should map a duplicate title to 409", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("ResolveByID", mock.Anything, "generated:1").Return(nil, pool.ErrDuplicateTitle)

		w := perform(router, http.MethodGet, "/api/v1/recipes/generated:1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("should map exhausted quota to 502", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("ResolveByID", mock.Anything, "catalog:1").Return(nil, catalog.ErrQuotaExceeded)

		w := perform(router, http.MethodGet, "/api/v1/recipes/catalog:1", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestSearchRecipes(t *testing.T) {
	t.Run("should pass query and filters through", func(t *testing.T) {
		router, resolver := setupHandler(t)
		want := filter.Filters{Cuisine: "italian", Diet: "vegan", MaxReadyMinutes: 30}
		resolver.On("Search", mock.Anything, "pasta", want).
			Return([]models.Recipe{{ID: "a", Title: "Pasta"}}, nil)

		w := perform(router, http.MethodGet,
			"/api/v1/recipes/search?q=pasta&cuisine=italian&diet=vegan&max_ready_minutes=30", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var got SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, "Pasta", got.Recipes[0].Title)
		resolver.AssertExpectations(t)
	})

	t.Run("should reject a non-numeric time bound", func(t *testing.T) {
		router, resolver := setupHandler(t)

		w := perform(router, http.MethodGet, "/api/v1/recipes/search?max_ready_minutes=soon", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resolver.AssertNotCalled(t, "Search")
	})

	t.Run("should surface a local store outage as 500", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("Search", mock.Anything, "x", filter.Filters{}).
			Return(nil, store.ErrUnavailable)

		w := perform(router, http.MethodGet, "/api/v1/recipes/search?q=x", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGenerateRecipe(t *testing.T) {
	t.Run("should create a recipe from a prompt", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("Generate", mock.Anything, "a cozy soup").
			Return(&models.Recipe{ID: "generated:abc123", Title: "Cozy Soup"}, nil)

		body, _ := json.Marshal(GenerateRequest{Prompt: "a cozy soup"})
		w := perform(router, http.MethodPost, "/api/v1/recipes/generate", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got models.Recipe
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "generated:abc123", got.ID)
	})

	t.Run("should reject a missing prompt", func(t *testing.T) {
		router, resolver := setupHandler(t)

		w := perform(router, http.MethodPost, "/api/v1/recipes/generate", []byte(`{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resolver.AssertNotCalled(t, "Generate")
	})

	t.Run("should map invalid model output to 422", func(t *testing.T) {
		router, resolver := setupHandler(t)
		resolver.On("Generate", mock.Anything, "soup").
			Return(nil, generate.ErrGenerationInvalid)

		body, _ := json.Marshal(GenerateRequest{Prompt: "soup"})
		w := perform(router, http.MethodPost, "/api/v1/recipes/generate", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
