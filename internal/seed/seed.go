// Package seed fetches raw records from the free seed source. Seed
// records are generation input only and are never returned to callers of
// the resolution facade directly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotFound is returned when no seed record matches.
	ErrNotFound = errors.New("seed record not found")
	// ErrUnavailable covers transport failures and non-2xx responses.
	ErrUnavailable = errors.New("seed source unavailable")
)

// Record is one raw seed meal. Ingredients holds up to 20 measure+name
// pairs flattened into single strings.
type Record struct {
	ID           string
	Title        string
	Category     string
	Area         string
	Instructions string
	ImageURL     string
	Ingredients  []string
}

// Client calls the free seed API.
type Client struct {
	http *resty.Client
}

// New creates a seed source client.
func New(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

// rawMeal mirrors the seed API payload. The API numbers its ingredient
// and measure fields 1..20.
type rawMeal struct {
	IDMeal       string `json:"idMeal"`
	StrMeal      string `json:"strMeal"`
	StrCategory  string `json:"strCategory"`
	StrArea      string `json:"strArea"`
	StrSource    string `json:"strSource"`
	StrMealThumb string `json:"strMealThumb"`
	Instructions string `json:"strInstructions"`

	StrIngredient1  string `json:"strIngredient1"`
	StrIngredient2  string `json:"strIngredient2"`
	StrIngredient3  string `json:"strIngredient3"`
	StrIngredient4  string `json:"strIngredient4"`
	StrIngredient5  string `json:"strIngredient5"`
	StrIngredient6  string `json:"strIngredient6"`
	StrIngredient7  string `json:"strIngredient7"`
	StrIngredient8  string `json:"strIngredient8"`
	StrIngredient9  string `json:"strIngredient9"`
	StrIngredient10 string `json:"strIngredient10"`
	StrIngredient11 string `json:"strIngredient11"`
	StrIngredient12 string `json:"strIngredient12"`
	StrIngredient13 string `json:"strIngredient13"`
	StrIngredient14 string `json:"strIngredient14"`
	StrIngredient15 string `json:"strIngredient15"`
	StrIngredient16 string `json:"strIngredient16"`
	StrIngredient17 string `json:"strIngredient17"`
	StrIngredient18 string `json:"strIngredient18"`
	StrIngredient19 string `json:"strIngredient19"`
	StrIngredient20 string `json:"strIngredient20"`

	StrMeasure1  string `json:"strMeasure1"`
	StrMeasure2  string `json:"strMeasure2"`
	StrMeasure3  string `json:"strMeasure3"`
	StrMeasure4  string `json:"strMeasure4"`
	StrMeasure5  string `json:"strMeasure5"`
	StrMeasure6  string `json:"strMeasure6"`
	StrMeasure7  string `json:"strMeasure7"`
	StrMeasure8  string `json:"strMeasure8"`
	StrMeasure9  string `json:"strMeasure9"`
	StrMeasure10 string `json:"strMeasure10"`
	StrMeasure11 string `json:"strMeasure11"`
	StrMeasure12 string `json:"strMeasure12"`
	StrMeasure13 string `json:"strMeasure13"`
	StrMeasure14 string `json:"strMeasure14"`
	StrMeasure15 string `json:"strMeasure15"`
	StrMeasure16 string `json:"strMeasure16"`
	StrMeasure17 string `json:"strMeasure17"`
	StrMeasure18 string `json:"strMeasure18"`
	StrMeasure19 string `json:"strMeasure19"`
	StrMeasure20 string `json:"strMeasure20"`
}

type mealsResponse struct {
	Meals []rawMeal `json:"meals"`
}

// Random fetches one random seed record.
func (c *Client) Random(ctx context.Context) (*Record, error) {
	records, err := c.fetch(ctx, "/random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// SearchByName fetches seed records whose title matches the query.
func (c *Client) SearchByName(ctx context.Context, query string) ([]Record, error) {
	return c.fetch(ctx, "/search.php", map[string]string{"s": query})
}

// LookupByID fetches one seed record by its seed identifier.
func (c *Client) LookupByID(ctx context.Context, id string) (*Record, error) {
	records, err := c.fetch(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func (c *Client) fetch(ctx context.Context, path string, params map[string]string) ([]Record, error) {
	var body mealsResponse
	req := c.http.R().SetContext(ctx).SetResult(&body)
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	records := make([]Record, 0, len(body.Meals))
	for _, m := range body.Meals {
		records = append(records, m.toRecord())
	}
	return records, nil
}

func (m rawMeal) toRecord() Record {
	names := []string{
		m.StrIngredient1, m.StrIngredient2, m.StrIngredient3, m.StrIngredient4,
		m.StrIngredient5, m.StrIngredient6, m.StrIngredient7, m.StrIngredient8,
		m.StrIngredient9, m.StrIngredient10, m.StrIngredient11, m.StrIngredient12,
		m.StrIngredient13, m.StrIngredient14, m.StrIngredient15, m.StrIngredient16,
		m.StrIngredient17, m.StrIngredient18, m.StrIngredient19, m.StrIngredient20,
	}
	measures := []string{
		m.StrMeasure1, m.StrMeasure2, m.StrMeasure3, m.StrMeasure4,
		m.StrMeasure5, m.StrMeasure6, m.StrMeasure7, m.StrMeasure8,
		m.StrMeasure9, m.StrMeasure10, m.StrMeasure11, m.StrMeasure12,
		m.StrMeasure13, m.StrMeasure14, m.StrMeasure15, m.StrMeasure16,
		m.StrMeasure17, m.StrMeasure18, m.StrMeasure19, m.StrMeasure20,
	}

	var ingredients []string
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		measure := strings.TrimSpace(measures[i])
		if measure != "" {
			ingredients = append(ingredients, measure+" "+name)
		} else {
			ingredients = append(ingredients, name)
		}
	}

	return Record{
		ID:           m.IDMeal,
		Title:        m.StrMeal,
		Category:     m.StrCategory,
		Area:         m.StrArea,
		Instructions: m.Instructions,
		ImageURL:     m.StrMealThumb,
		Ingredients:  ingredients,
	}
}
