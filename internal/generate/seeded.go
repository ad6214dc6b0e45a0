package generate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/recipeid"
	"github.com/forkful/backend/internal/seed"
)

// genericDescription replaces an empty or "unknown" model description.
const genericDescription = "A delicious dish made with carefully selected ingredients."

var fallbackCookTimes = []string{"20 mins", "30 mins", "40 mins", "45 mins", "1 hour"}

const seededSystemPrompt = `You are a professional chef describing an existing dish. Answer with plain text sections, each starting on its own line with its header, in this exact order:
DESCRIPTION: one or two sentences about the dish
CUISINE: a single lowercase cuisine name
DIET: a single lowercase diet label
COOKING TIME: the total time, e.g. 45 mins or 1 hours 30 mins
You may optionally add CALORIES:, PROTEIN:, FAT: and CARBOHYDRATES: lines. Do not add any other text.`

// SectionFields holds the values parsed out of a seeded completion.
type SectionFields struct {
	Description string
	Cuisine     string
	Diet        string
	CookTime    string
	Nutrition   models.Nutrition
}

// FromSeed builds a generated recipe candidate from a raw seed record.
// Ingredients and instructions come from the seed itself; the model only
// contributes the descriptive fields. A completion failure falls back to
// fields derived from the seed, so seeding never fails outright.
func (g *Generator) FromSeed(ctx context.Context, record *seed.Record) models.Recipe {
	fields := g.describe(ctx, record)

	instructions := SplitInstructions(record.Instructions)

	recipe := models.Recipe{
		ID:           recipeid.Encode(models.ProvenanceGenerated, record.ID),
		Title:        record.Title,
		Description:  fields.Description,
		ImageURL:     record.ImageURL,
		Ingredients:  models.JSONBStringArray(record.Ingredients),
		Instructions: models.JSONBStringArray(instructions),
		CuisineType:  fields.Cuisine,
		DietType:     fields.Diet,
		CookTime:     fields.CookTime,
		Nutrition:    fields.Nutrition,
		Provenance:   models.ProvenanceGenerated,
	}
	if minutes, ok := filter.ParseMinutes(recipe.CookTime); ok {
		recipe.CookTimeMinutes = &minutes
	}
	return recipe
}

func (g *Generator) describe(ctx context.Context, record *seed.Record) SectionFields {
	prompt := buildSeedPrompt(record)
	content, err := g.completer.Complete(ctx, seededSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("completion failed for seed, deriving fields",
			zap.String("seed_id", record.ID), zap.Error(err))
		return derivedFields(record)
	}

	fields := ParseSections(content)
	if fields.Cuisine == "" {
		fields.Cuisine = strings.ToLower(strings.TrimSpace(record.Area))
	}
	if fields.Diet == "" {
		fields.Diet = "none"
	}
	if fields.CookTime == "" {
		fields.CookTime = fallbackCookTimes[rand.Intn(len(fallbackCookTimes))]
	}
	return fields
}

func buildSeedPrompt(record *seed.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dish: %s\n", record.Title)
	fmt.Fprintf(&b, "Category: %s\n", record.Category)
	fmt.Fprintf(&b, "Origin: %s\n", record.Area)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(record.Ingredients, ", "))
	fmt.Fprintf(&b, "Preparation: %s\n", record.Instructions)
	return b.String()
}

// derivedFields is the fallback when the completion endpoint cannot be
// reached: cuisine comes from the seed's area, the cook time is picked
// from a small fixed set.
func derivedFields(record *seed.Record) SectionFields {
	cuisine := strings.ToLower(strings.TrimSpace(record.Area))
	if cuisine == "" {
		cuisine = "international"
	}
	return SectionFields{
		Description: genericDescription,
		Cuisine:     cuisine,
		Diet:        "none",
		CookTime:    fallbackCookTimes[rand.Intn(len(fallbackCookTimes))],
		Nutrition:   unknownNutrition(),
	}
}

func unknownNutrition() models.Nutrition {
	return models.Nutrition{
		Calories:      "unknown",
		Protein:       "unknown",
		Fat:           "unknown",
		Carbohydrates: "unknown",
	}
}

// section is the parser state: which header the current line belongs to.
type section int

const (
	sectionNone section = iota
	sectionDescription
	sectionCuisine
	sectionDiet
	sectionCookTime
	sectionCalories
	sectionProtein
	sectionFat
	sectionCarbohydrates
)

var sectionHeaders = []struct {
	prefix string
	state  section
}{
	{"DESCRIPTION:", sectionDescription},
	{"CUISINE:", sectionCuisine},
	{"DIET:", sectionDiet},
	{"COOKING TIME:", sectionCookTime},
	{"CALORIES:", sectionCalories},
	{"PROTEIN:", sectionProtein},
	{"FAT:", sectionFat},
	{"CARBOHYDRATES:", sectionCarbohydrates},
}

// ParseSections walks the completion line by line as a small state
// machine. A recognized header ends the previous section; unrecognized
// lines are appended to the description when that is the open section
// and dropped otherwise.
func ParseSections(content string) SectionFields {
	fields := SectionFields{Nutrition: unknownNutrition()}
	state := sectionNone
	var description []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false
		for _, h := range sectionHeaders {
			if len(line) >= len(h.prefix) && strings.EqualFold(line[:len(h.prefix)], h.prefix) {
				state = h.state
				value := strings.TrimSpace(line[len(h.prefix):])
				fields.set(state, value, &description)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if state == sectionDescription {
			description = append(description, line)
		}
	}

	fields.Description = strings.Join(description, " ")
	if fields.Description == "" || strings.EqualFold(fields.Description, "unknown") {
		fields.Description = genericDescription
	}
	return fields
}

func (f *SectionFields) set(state section, value string, description *[]string) {
	switch state {
	case sectionDescription:
		if value != "" {
			*description = append(*description, value)
		}
	case sectionCuisine:
		f.Cuisine = strings.ToLower(value)
	case sectionDiet:
		f.Diet = strings.ToLower(value)
	case sectionCookTime:
		f.CookTime = value
	case sectionCalories:
		f.Nutrition.Calories = orUnknown(value)
	case sectionProtein:
		f.Nutrition.Protein = orUnknown(value)
	case sectionFat:
		f.Nutrition.Fat = orUnknown(value)
	case sectionCarbohydrates:
		f.Nutrition.Carbohydrates = orUnknown(value)
	}
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// SplitInstructions breaks a free-text instruction blob into trimmed,
// non-empty steps.
func SplitInstructions(raw string) []string {
	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
