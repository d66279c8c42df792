package providers

import (
	"context"
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
	yelpBaseURL   = "https://api.yelp.com"
	yelpMaxRadius = 40000 // meters
)

// YelpProvider is an alternate primary adapter, selected by configuration.
type YelpProvider struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewYelpProvider builds a Yelp Fusion adapter.
func NewYelpProvider(apiKey string, timeout time.Duration) *YelpProvider {
	return &YelpProvider{
		APIKey:  apiKey,
		BaseURL: yelpBaseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (y *YelpProvider) Name() string { return "yelp" }

type yelpBusiness struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	Price       string  `json:"price"` // "$".."$$$$"
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
}

type yelpResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

func (y *YelpProvider) toPlace(b yelpBusiness) (models.Place, bool) {
	if b.Name == "" || b.ID == "" {
		return models.Place{}, false
	}
	var cuisines, titles []string
	for i, c := range b.Categories {
		cuisines = append(cuisines, strings.ToLower(c.Alias))
		if i < 3 {
			titles = append(titles, strings.ToLower(c.Title))
		}
	}
	return models.Place{
		Provider:    "yelp",
		ProviderID:  b.ID,
		Name:        b.Name,
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		Lat:         b.Coordinates.Latitude,
		Lng:         b.Coordinates.Longitude,
		Rating:      b.Rating, // already 0-5
		PriceLevel:  len(b.Price),
		Cuisines:    cuisines,
		Description: strings.Join(titles, ", "),
	}, true
}

func (y *YelpProvider) search(ctx context.Context, opts SearchOptions, term string) ([]models.Place, error) {
	radius := utils.MilesToMeters(opts.Miles)
	if radius > yelpMaxRadius {
		radius = yelpMaxRadius
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(opts.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(opts.Lng, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("categories", "restaurants")
	params.Set("limit", "50")
	if term != "" {
		params.Set("term", term)
	}

	headers := map[string]string{"Authorization": "Bearer " + y.APIKey}

	var resp yelpResponse
	if err := getJSON(ctx, y.Client, y.BaseURL+"/v3/businesses/search", params, headers, &resp); err != nil {
		return nil, err
	}

	var out []models.Place
	for _, b := range resp.Businesses {
		if p, ok := y.toPlace(b); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchNearby queries Yelp, retrying once without the cuisine term when the
// filtered search yields nothing.
func (y *YelpProvider) SearchNearby(ctx context.Context, opts SearchOptions) []models.Place {
	if y.APIKey == "" {
		log.Println("⚠️ YELP_API_KEY not set, skipping Yelp provider")
		return nil
	}

	term := strings.Join(opts.Cuisines, " ")

	places, err := y.search(ctx, opts, term)
	if err != nil {
		log.Printf("❌ Yelp search failed: %v", err)
		return nil
	}

	if len(places) == 0 && term != "" {
		places, err = y.search(ctx, opts, "")
		if err != nil {
			log.Printf("❌ Yelp termless fallback failed: %v", err)
			return nil
		}
	}

	return places
}
