package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"platepick_server/models"
	"platepick_server/utils"
)

const googleBaseURL = "https://maps.googleapis.com/maps/api/place"

// Synonym/expansion table → boosts recall for cuisine queries.
var googleSynonyms = map[string][]string{
	"bbq":            {"bbq", "barbecue", "korean bbq", "smokehouse"},
	"mediterranean":  {"mediterranean", "greek", "turkish", "lebanese"},
	"middle eastern": {"middle eastern", "lebanese", "turkish", "persian", "iranian"},
	"mexican":        {"mexican", "taqueria", "tacos"},
	"japanese":       {"japanese", "sushi", "ramen", "izakaya"},
	"chinese":        {"chinese", "szechuan", "sichuan", "cantonese", "dim sum"},
	"korean":         {"korean", "korean bbq"},
	"italian":        {"italian", "pasta", "trattoria"},
	"american":       {"american", "burgers", "diner"},
	"seafood":        {"seafood", "fish", "oyster"},
	"pizza":          {"pizza", "pizzeria"},
	"indian":         {"indian", "curry", "tandoori"},
	"thai":           {"thai"},
	"vegan":          {"vegan", "plant based"},
}

// googleIgnoredTypes are place types that carry no cuisine signal.
var googleIgnoredTypes = map[string]bool{
	"restaurant":        true,
	"point_of_interest": true,
	"establishment":     true,
	"food":              true,
}

// GoogleProvider is the primary, full-text-capable adapter.
type GoogleProvider struct {
	APIKey     string
	BaseURL    string
	Client     *http.Client
	MaxPhrases int
}

// NewGoogleProvider builds a Google Places adapter with its own HTTP client.
func NewGoogleProvider(apiKey string, timeout time.Duration, maxPhrases int) *GoogleProvider {
	return &GoogleProvider{
		APIKey:     apiKey,
		BaseURL:    googleBaseURL,
		Client:     &http.Client{Timeout: timeout},
		MaxPhrases: maxPhrases,
	}
}

func (g *GoogleProvider) Name() string { return "google" }

type googleResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	PriceLevel       int      `json:"price_level"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type googleResponse struct {
	Results []googleResult `json:"results"`
	Status  string         `json:"status"`
}

func (g *GoogleProvider) toPlace(r googleResult) (models.Place, bool) {
	if r.Name == "" || r.PlaceID == "" {
		return models.Place{}, false
	}
	address := r.FormattedAddress
	if address == "" {
		address = r.Vicinity
	}
	var cuisines []string
	for _, t := range r.Types {
		if !googleIgnoredTypes[t] {
			cuisines = append(cuisines, strings.ToLower(t))
		}
	}
	var description string
	if len(r.Types) > 0 {
		n := len(r.Types)
		if n > 3 {
			n = 3
		}
		description = strings.Join(r.Types[:n], ", ")
	}
	return models.Place{
		Provider:    "google",
		ProviderID:  r.PlaceID,
		Name:        r.Name,
		Address:     address,
		Lat:         r.Geometry.Location.Lat,
		Lng:         r.Geometry.Location.Lng,
		Rating:      r.Rating, // already 0-5
		PriceLevel:  r.PriceLevel,
		Cuisines:    cuisines,
		Description: description,
	}, true
}

func (g *GoogleProvider) collect(results []googleResult) []models.Place {
	var out []models.Place
	for _, r := range results {
		if p, ok := g.toPlace(r); ok {
			out = append(out, p)
		}
	}
	return out
}

func (g *GoogleProvider) nearby(ctx context.Context, opts SearchOptions, keyword string) ([]models.Place, error) {
	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("location", fmt.Sprintf("%f,%f", opts.Lat, opts.Lng))
	params.Set("radius", strconv.Itoa(utils.MilesToMeters(opts.Miles)))
	params.Set("type", "restaurant")
	if keyword != "" {
		params.Set("keyword", keyword)
	}
	var resp googleResponse
	if err := getJSON(ctx, g.Client, g.BaseURL+"/nearbysearch/json", params, nil, &resp); err != nil {
		return nil, err
	}
	return g.collect(resp.Results), nil
}

func (g *GoogleProvider) textSearch(ctx context.Context, opts SearchOptions, phrase string) ([]models.Place, error) {
	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("query", phrase+" restaurant")
	params.Set("location", fmt.Sprintf("%f,%f", opts.Lat, opts.Lng))
	params.Set("radius", strconv.Itoa(utils.MilesToMeters(opts.Miles)))
	var resp googleResponse
	if err := getJSON(ctx, g.Client, g.BaseURL+"/textsearch/json", params, nil, &resp); err != nil {
		return nil, err
	}
	return g.collect(resp.Results), nil
}

// SearchNearby queries Nearby Search for unfiltered requests and Text Search
// per expanded cuisine phrase otherwise, falling back once to a keyworded
// Nearby query when Text Search comes back empty.
func (g *GoogleProvider) SearchNearby(ctx context.Context, opts SearchOptions) []models.Place {
	if g.APIKey == "" {
		log.Println("⚠️ GOOGLE_PLACES_API_KEY not set, skipping Google provider")
		return nil
	}

	if len(opts.Cuisines) == 0 {
		places, err := g.nearby(ctx, opts, "")
		if err != nil {
			log.Printf("❌ Google nearby search failed: %v", err)
			return nil
		}
		return places
	}

	phrases := expandCuisines(googleSynonyms, opts.Cuisines, g.MaxPhrases)
	var all []models.Place
	for _, phrase := range phrases {
		places, err := g.textSearch(ctx, opts, phrase)
		if err != nil {
			log.Printf("❌ Google text search %q failed: %v", phrase, err)
			continue
		}
		all = append(all, places...)
	}

	if len(all) == 0 {
		places, err := g.nearby(ctx, opts, strings.Join(phrases, " "))
		if err != nil {
			log.Printf("❌ Google keyword fallback failed: %v", err)
			return nil
		}
		return places
	}

	return dedupeByProviderID(all)
}
