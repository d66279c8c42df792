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

const (
	foursquareBaseURL   = "https://places-api.foursquare.com"
	foursquareMaxRadius = 100000 // meters
)

// Foursquare category keywords per cuisine tag.
var foursquareCategories = map[string][]string{
	"bbq":            {"bbq", "barbecue"},
	"mediterranean":  {"mediterranean", "greek", "turkish"},
	"middle eastern": {"middle eastern", "lebanese", "persian"},
	"mexican":        {"mexican", "taqueria"},
	"japanese":       {"japanese", "sushi", "ramen"},
	"chinese":        {"chinese", "dim sum"},
	"korean":         {"korean", "korean bbq"},
	"italian":        {"italian", "pasta", "pizza"},
	"american":       {"american", "burgers"},
	"seafood":        {"seafood", "fish"},
	"indian":         {"indian", "curry"},
	"thai":           {"thai"},
	"vietnamese":     {"vietnamese", "pho"},
	"french":         {"french", "bistro"},
	"vegan":          {"vegan", "plant based"},
	"vegetarian":     {"vegetarian"},
}

// FoursquareProvider is the secondary independent adapter.
type FoursquareProvider struct {
	APIKey     string
	BaseURL    string
	Client     *http.Client
	MaxPhrases int
}

// NewFoursquareProvider builds a Foursquare Places adapter.
func NewFoursquareProvider(apiKey string, timeout time.Duration, maxPhrases int) *FoursquareProvider {
	return &FoursquareProvider{
		APIKey:     apiKey,
		BaseURL:    foursquareBaseURL,
		Client:     &http.Client{Timeout: timeout},
		MaxPhrases: maxPhrases,
	}
}

func (f *FoursquareProvider) Name() string { return "foursquare" }

type foursquareLocation struct {
	Address          string `json:"address"`
	Locality         string `json:"locality"`
	Region           string `json:"region"`
	FormattedAddress string `json:"formatted_address"`
}

type foursquareResult struct {
	FsqID      string             `json:"fsq_id"`
	Name       string             `json:"name"`
	Rating     float64            `json:"rating"`
	Price      int                `json:"price"`
	Location   foursquareLocation `json:"location"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Geocodes struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
}

type foursquareResponse struct {
	Results []foursquareResult `json:"results"`
}

// extractCuisines pulls cuisine tags out of Foursquare category names.
func extractCuisines(categories []struct {
	Name string `json:"name"`
}) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, cat := range categories {
		name := strings.ToLower(cat.Name)
		for cuisine, keywords := range foursquareCategories {
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					add(cuisine)
					break
				}
			}
		}
		// The category name itself often is the cuisine
		if !strings.Contains(name, "restaurant") && !strings.Contains(name, "food") && !strings.Contains(name, "venue") {
			add(strings.TrimSpace(strings.TrimSuffix(name, " restaurant")))
		}
	}
	return out
}

func (f *FoursquareProvider) toPlace(r foursquareResult) (models.Place, bool) {
	if r.Name == "" || r.FsqID == "" {
		return models.Place{}, false
	}
	address := r.Location.FormattedAddress
	if address == "" {
		var parts []string
		for _, s := range []string{r.Location.Address, r.Location.Locality, r.Location.Region} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		address = strings.Join(parts, ", ")
	}
	var catNames []string
	for i, c := range r.Categories {
		if i == 3 {
			break
		}
		catNames = append(catNames, c.Name)
	}
	return models.Place{
		Provider:    "foursquare",
		ProviderID:  r.FsqID,
		Name:        r.Name,
		Address:     address,
		Lat:         r.Geocodes.Main.Latitude,
		Lng:         r.Geocodes.Main.Longitude,
		Rating:      r.Rating / 2, // Foursquare rates 0-10, normalize to 0-5
		PriceLevel:  r.Price,
		Cuisines:    extractCuisines(r.Categories),
		Description: strings.Join(catNames, ", "),
	}, true
}

func (f *FoursquareProvider) search(ctx context.Context, opts SearchOptions, query string) ([]models.Place, error) {
	radius := utils.MilesToMeters(opts.Miles)
	if radius > foursquareMaxRadius {
		radius = foursquareMaxRadius
	}

	params := url.Values{}
	params.Set("ll", fmt.Sprintf("%f,%f", opts.Lat, opts.Lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("categories", "13000") // Food category
	params.Set("limit", "50")
	params.Set("fields", "fsq_id,name,location,geocodes,categories,rating,price")
	if query != "" {
		params.Set("query", query)
	}

	headers := map[string]string{
		"Authorization":        "Bearer " + f.APIKey,
		"Accept":               "application/json",
		"X-Places-Api-Version": "2025-06-17",
	}

	var resp foursquareResponse
	if err := getJSON(ctx, f.Client, f.BaseURL+"/places/search", params, headers, &resp); err != nil {
		return nil, err
	}

	var out []models.Place
	for _, r := range resp.Results {
		if p, ok := f.toPlace(r); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchNearby queries Foursquare, retrying once without the cuisine query
// when the filtered search yields nothing.
func (f *FoursquareProvider) SearchNearby(ctx context.Context, opts SearchOptions) []models.Place {
	if f.APIKey == "" {
		log.Println("⚠️ FOURSQUARE_API_KEY not set, skipping Foursquare provider")
		return nil
	}

	query := strings.Join(expandCuisines(foursquareCategories, opts.Cuisines, f.MaxPhrases), ",")

	places, err := f.search(ctx, opts, query)
	if err != nil {
		log.Printf("❌ Foursquare search failed: %v", err)
		return nil
	}

	if len(places) == 0 && query != "" {
		places, err = f.search(ctx, opts, "")
		if err != nil {
			log.Printf("❌ Foursquare unfiltered fallback failed: %v", err)
			return nil
		}
	}

	return places
}
