package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/recipeid"
)

// ErrGenerationInvalid means the model output did not satisfy the
// required structure. The request fails visibly; callers do not retry
// automatically.
var ErrGenerationInvalid = errors.New("generated output invalid")

// dietTypes is the fixed enumeration accepted from the model.
var dietTypes = map[string]struct{}{
	"vegetarian":  {},
	"vegan":       {},
	"gluten-free": {},
	"dairy-free":  {},
	"keto":        {},
	"paleo":       {},
	"omnivore":    {},
	"pescatarian": {},
	"none":        {},
}

// cookingTimePattern accepts "<n> mins", "<n> hours" or the combined
// "<n> hours <m> mins" form.
var cookingTimePattern = regexp.MustCompile(`(?i)^\s*(?:\d+\s*hours?(?:\s+\d+\s*mins?)?|\d+\s*mins?)\s*$`)

const freeformSystemPrompt = `You are a professional chef. Respond with a single JSON object and nothing else. The object must contain exactly these keys:
{
    "title": "Recipe name",
    "description": "One or two sentences describing the dish",
    "ingredients": ["2 cups flour", "1 cup sugar"],
    "instructions": ["Mix the dry ingredients", "Bake at 350F for 30 minutes"],
    "cuisine_type": "lowercase cuisine, e.g. italian",
    "diet_type": "one of: vegetarian, vegan, gluten-free, dairy-free, keto, paleo, omnivore, pescatarian, none",
    "cooking_time": "e.g. 30 mins, 2 hours, or 1 hours 30 mins"
}`

// Generator produces canonical recipes from the completion endpoint.
type Generator struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a Generator.
func New(completer Completer, logger *zap.Logger) *Generator {
	return &Generator{completer: completer, logger: logger}
}

type freeformPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CuisineType  string   `json:"cuisine_type"`
	DietType     string   `json:"diet_type"`
	CookingTime  string   `json:"cooking_time"`
}

// Freeform generates a recipe from a free-text prompt. The model must
// return a strict JSON object; anything else is ErrGenerationInvalid.
func (g *Generator) Freeform(ctx context.Context, prompt string) (*models.Recipe, error) {
	content, err := g.completer.Complete(ctx, freeformSystemPrompt, "Generate a recipe for: "+prompt)
	if err != nil {
		return nil, err
	}

	payload, err := parseFreeform(content)
	if err != nil {
		g.logger.Warn("rejecting malformed generation output", zap.Error(err))
		return nil, err
	}

	recipe := &models.Recipe{
		ID:           recipeid.Encode(models.ProvenanceGenerated, uuid.New().String()[:8]),
		Title:        payload.Title,
		Description:  payload.Description,
		Ingredients:  payload.Ingredients,
		Instructions: payload.Instructions,
		CuisineType:  strings.ToLower(strings.TrimSpace(payload.CuisineType)),
		DietType:     strings.ToLower(strings.TrimSpace(payload.DietType)),
		CookTime:     strings.TrimSpace(payload.CookingTime),
		Provenance:   models.ProvenanceGenerated,
	}
	if minutes, ok := filter.ParseMinutes(recipe.CookTime); ok {
		recipe.CookTimeMinutes = &minutes
	}
	return recipe, nil
}

func parseFreeform(content string) (*freeformPayload, error) {
	var payload freeformPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrGenerationInvalid, err)
	}

	switch {
	case payload.Title == "":
		return nil, fmt.Errorf("%w: missing title", ErrGenerationInvalid)
	case payload.Description == "":
		return nil, fmt.Errorf("%w: missing description", ErrGenerationInvalid)
	case len(payload.Ingredients) == 0:
		return nil, fmt.Errorf("%w: missing ingredients", ErrGenerationInvalid)
	case len(payload.Instructions) == 0:
		return nil, fmt.Errorf("%w: missing instructions", ErrGenerationInvalid)
	case payload.CuisineType == "":
		return nil, fmt.Errorf("%w: missing cuisine_type", ErrGenerationInvalid)
	}

	diet := strings.ToLower(strings.TrimSpace(payload.DietType))
	if _, ok := dietTypes[diet]; !ok {
		return nil, fmt.Errorf("%w: unknown diet_type %q", ErrGenerationInvalid, payload.DietType)
	}
	if !cookingTimePattern.MatchString(payload.CookingTime) {
		return nil, fmt.Errorf("%w: malformed cooking_time %q", ErrGenerationInvalid, payload.CookingTime)
	}
	return &payload, nil
}
