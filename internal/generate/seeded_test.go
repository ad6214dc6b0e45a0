package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/seed"
)

func teriyakiSeed() *seed.Record {
	return &seed.Record{
		ID:           "52772",
		Title:        "Teriyaki Chicken Casserole",
		Category:     "Chicken",
		Area:         "Japanese",
		Instructions: "Preheat oven to 350F.\r\nCombine and bake.",
		ImageURL:     "https://img.example/52772.jpg",
		Ingredients:  []string{"3/4 cup soy sauce", "1/2 cup water"},
	}
}

func TestParseSections(t *testing.T) {
	t.Run("should parse the four sections", func(t *testing.T) {
		content := "DESCRIPTION: A tasty dish.\nCUISINE: italian\nDIET: vegetarian\nCOOKING TIME: 30 mins"

		fields := ParseSections(content)

		assert.Equal(t, "A tasty dish.", fields.Description)
		assert.Equal(t, "italian", fields.Cuisine)
		assert.Equal(t, "vegetarian", fields.Diet)
		assert.Equal(t, "30 mins", fields.CookTime)
	})

	t.Run("should accumulate unrecognized lines into the description", func(t *testing.T) {
		content := "DESCRIPTION: A rich stew\nslow-cooked overnight.\nCUISINE: french\nDIET: none\nCOOKING TIME: 2 hours"

		fields := ParseSections(content)

		assert.Equal(t, "A rich stew slow-cooked overnight.", fields.Description)
		assert.Equal(t, "french", fields.Cuisine)
	})

	t.Run("should normalize cuisine and diet", func(t *testing.T) {
		content := "DESCRIPTION: Fine.\nCUISINE:  Italian \nDIET:  VEGAN \nCOOKING TIME: 30 mins"

		fields := ParseSections(content)

		assert.Equal(t, "italian", fields.Cuisine)
		assert.Equal(t, "vegan", fields.Diet)
	})

	t.Run("should substitute the generic description when empty or unknown", func(t *testing.T) {
		for _, content := range []string{
			"CUISINE: thai\nDIET: none\nCOOKING TIME: 30 mins",
			"DESCRIPTION: unknown\nCUISINE: thai\nDIET: none\nCOOKING TIME: 30 mins",
		} {
			fields := ParseSections(content)
			assert.Equal(t, genericDescription, fields.Description)
		}
	})

	t.Run("should capture optional nutrition lines", func(t *testing.T) {
		content := "DESCRIPTION: Fine.\nCUISINE: thai\nDIET: none\nCOOKING TIME: 30 mins\nCALORIES: 450 kcal\nPROTEIN: 30g"

		fields := ParseSections(content)

		assert.Equal(t, "450 kcal", fields.Nutrition.Calories)
		assert.Equal(t, "30g", fields.Nutrition.Protein)
		assert.Equal(t, "unknown", fields.Nutrition.Fat)
	})

	t.Run("should drop unrecognized lines outside the description", func(t *testing.T) {
		content := "CUISINE: thai\nsomething chatty\nDIET: none\nCOOKING TIME: 30 mins"

		fields := ParseSections(content)

		assert.Equal(t, "thai", fields.Cuisine)
		assert.Equal(t, genericDescription, fields.Description)
	})
}

func TestFromSeed(t *testing.T) {
	t.Run("should take structure from the seed and prose from the model", func(t *testing.T) {
		completer := &fakeCompleter{
			content: "DESCRIPTION: Sweet-savoury bake.\nCUISINE: japanese\nDIET: none\nCOOKING TIME: 45 mins",
		}
		g := New(completer, zap.NewNop())

		recipe := g.FromSeed(context.Background(), teriyakiSeed())

		assert.Equal(t, "generated:52772", recipe.ID)
		assert.Equal(t, models.ProvenanceGenerated, recipe.Provenance)
		assert.Equal(t, "Teriyaki Chicken Casserole", recipe.Title)
		assert.Equal(t, "Sweet-savoury bake.", recipe.Description)
		assert.Equal(t, "japanese", recipe.CuisineType)
		assert.Equal(t, "45 mins", recipe.CookTime)
		require.NotNil(t, recipe.CookTimeMinutes)
		assert.Equal(t, 45, *recipe.CookTimeMinutes)
		assert.Equal(t, models.JSONBStringArray{"3/4 cup soy sauce", "1/2 cup water"}, recipe.Ingredients)
		assert.Equal(t, models.JSONBStringArray{"Preheat oven to 350F.", "Combine and bake."}, recipe.Instructions)
	})

	t.Run("should derive fields when the completion fails", func(t *testing.T) {
		g := New(&fakeCompleter{err: errors.New("endpoint down")}, zap.NewNop())

		recipe := g.FromSeed(context.Background(), teriyakiSeed())

		assert.Equal(t, genericDescription, recipe.Description)
		assert.Equal(t, "japanese", recipe.CuisineType)
		assert.Equal(t, "none", recipe.DietType)
		_, ok := filter.ParseMinutes(recipe.CookTime)
		assert.True(t, ok)
	})

	t.Run("should fill gaps the model left", func(t *testing.T) {
		completer := &fakeCompleter{content: "DESCRIPTION: Nice.\nCOOKING TIME: 30 mins"}
		g := New(completer, zap.NewNop())

		recipe := g.FromSeed(context.Background(), teriyakiSeed())

		assert.Equal(t, "japanese", recipe.CuisineType)
		assert.Equal(t, "none", recipe.DietType)
	})
}
