// Package catalog wraps the paid external recipe API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/cache"
	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/recipeid"
)

var (
	// ErrQuotaExceeded means the paid API returned 402. Callers treat the
	// catalog as temporarily unavailable and must not retry within the
	// same request.
	ErrQuotaExceeded = errors.New("catalog quota exceeded")
	// ErrSourceUnavailable covers any other non-2xx catalog response.
	ErrSourceUnavailable = errors.New("catalog source unavailable")
	// ErrNotFound is returned for an unknown external id.
	ErrNotFound = errors.New("catalog recipe not found")
)

const searchLimit = 10

// Client calls the catalog API and translates its payloads into the
// canonical recipe shape.
type Client struct {
	http   *resty.Client
	apiKey string
	cache  *cache.Cache
	logger *zap.Logger
}

// New creates a catalog client. The cache may be nil.
func New(baseURL, apiKey string, c *cache.Cache, logger *zap.Logger) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		cache:  c,
		logger: logger,
	}
}

type searchResponse struct {
	Results []catalogRecipe `json:"results"`
}

type catalogRecipe struct {
	ID                   int64                 `json:"id"`
	Title                string                `json:"title"`
	Summary              string                `json:"summary"`
	Image                string                `json:"image"`
	Cuisines             []string              `json:"cuisines"`
	Diets                []string              `json:"diets"`
	ReadyInMinutes       int                   `json:"readyInMinutes"`
	ExtendedIngredients  []catalogIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []catalogInstructions `json:"analyzedInstructions"`
	Instructions         string                `json:"instructions"`
}

type catalogIngredient struct {
	Original string `json:"original"`
}

type catalogInstructions struct {
	Steps []struct {
		Step string `json:"step"`
	} `json:"steps"`
}

// SearchByText queries the catalog by keyword, passing supported filters
// through to the API. Results for a given query/filter combination are
// cached so repeats do not spend quota.
func (c *Client) SearchByText(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error) {
	key := cache.SearchKey(query, f.Cuisine, f.Diet, f.MaxReadyMinutes)
	var cached []models.Recipe
	if c.cache.Get(ctx, key, &cached) {
		c.logger.Debug("catalog search served from cache", zap.String("query", query))
		return cached, nil
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("apiKey", c.apiKey).
		SetQueryParam("query", query).
		SetQueryParam("number", fmt.Sprintf("%d", searchLimit)).
		SetQueryParam("addRecipeInformation", "true").
		SetQueryParam("fillIngredients", "true")
	if f.Cuisine != "" {
		req.SetQueryParam("cuisine", f.Cuisine)
	}
	if f.Diet != "" {
		req.SetQueryParam("diet", f.Diet)
	}
	if f.MaxReadyMinutes > 0 {
		req.SetQueryParam("maxReadyTime", fmt.Sprintf("%d", f.MaxReadyMinutes))
	}

	var body searchResponse
	resp, err := req.SetResult(&body).Get("/recipes/complexSearch")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(body.Results))
	for _, raw := range body.Results {
		recipes = append(recipes, translate(raw))
	}
	c.cache.Set(ctx, key, recipes)
	return recipes, nil
}

// FetchByID retrieves a single catalog recipe by its external id.
func (c *Client) FetchByID(ctx context.Context, externalID string) (*models.Recipe, error) {
	var raw catalogRecipe
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("apiKey", c.apiKey).
		SetQueryParam("includeNutrition", "false").
		SetResult(&raw).
		Get(fmt.Sprintf("/recipes/%s/information", externalID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}

	recipe := translate(raw)
	return &recipe, nil
}

func statusError(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case resp.StatusCode() < 200 || resp.StatusCode() >= 300:
		return fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode())
	default:
		return nil
	}
}

// translate maps a raw catalog payload onto the canonical recipe shape.
func translate(raw catalogRecipe) models.Recipe {
	ingredients := make(models.JSONBStringArray, 0, len(raw.ExtendedIngredients))
	for _, ing := range raw.ExtendedIngredients {
		if ing.Original != "" {
			ingredients = append(ingredients, ing.Original)
		}
	}

	var instructions models.JSONBStringArray
	if len(raw.AnalyzedInstructions) > 0 {
		for _, step := range raw.AnalyzedInstructions[0].Steps {
			if step.Step != "" {
				instructions = append(instructions, step.Step)
			}
		}
	}
	if len(instructions) == 0 && raw.Instructions != "" {
		for _, line := range strings.Split(StripHTML(raw.Instructions), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				instructions = append(instructions, line)
			}
		}
	}

	var cuisine, diet string
	if len(raw.Cuisines) > 0 {
		cuisine = strings.ToLower(raw.Cuisines[0])
	}
	if len(raw.Diets) > 0 {
		diet = strings.ToLower(raw.Diets[0])
	}

	recipe := models.Recipe{
		ID:           recipeid.Encode(models.ProvenanceCatalog, fmt.Sprintf("%d", raw.ID)),
		Title:        raw.Title,
		Description:  StripHTML(raw.Summary),
		ImageURL:     raw.Image,
		Ingredients:  ingredients,
		Instructions: instructions,
		CuisineType:  cuisine,
		DietType:     diet,
		Provenance:   models.ProvenanceCatalog,
	}
	if raw.ReadyInMinutes > 0 {
		minutes := raw.ReadyInMinutes
		recipe.CookTimeMinutes = &minutes
		recipe.CookTime = fmt.Sprintf("%d mins", minutes)
	}
	return recipe
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and entities from catalog summary text.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}
