package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"platepick_server/models"
	"platepick_server/utils"
)

// OSMProvider queries the OpenStreetMap Overpass API. It is the tertiary
// fallback: used alone, and only when the primary fan-out found nothing.
type OSMProvider struct {
	OverpassURL string
	Client      *http.Client
}

// NewOSMProvider builds an Overpass adapter.
func NewOSMProvider(overpassURL string, timeout time.Duration) *OSMProvider {
	return &OSMProvider{
		OverpassURL: overpassURL,
		Client:      &http.Client{Timeout: timeout},
	}
}

func (o *OSMProvider) Name() string { return "osm" }

type osmElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Tags   map[string]string `json:"tags"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
}

type osmResponse struct {
	Elements []osmElement `json:"elements"`
}

func buildOverpassQuery(lat, lng float64, radiusMeters int, cuisines []string) string {
	cuisineFilter := ""
	if len(cuisines) > 0 {
		cleaned := make([]string, 0, len(cuisines))
		for _, c := range cuisines {
			cleaned = append(cleaned, strings.ReplaceAll(c, `"`, ""))
		}
		cuisineFilter = fmt.Sprintf(`[cuisine~"%s",i]`, strings.Join(cleaned, "|"))
	}
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusMeters, lat, lng)
	return fmt.Sprintf(`
[out:json][timeout:25];
(
  node[amenity=restaurant]%[1]s%[2]s;
  way[amenity=restaurant]%[1]s%[2]s;
  relation[amenity=restaurant]%[1]s%[2]s;
);
out center tags 50;`, cuisineFilter, around)
}

func (o *OSMProvider) toPlace(el osmElement) models.Place {
	lat, lon := el.Lat, el.Lon
	if el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}

	name := el.Tags["name"]
	if name == "" {
		name = "Unnamed restaurant"
	}

	address := el.Tags["addr:full"]
	if address == "" {
		var parts []string
		for _, key := range []string{"addr:housenumber", "addr:street", "addr:city"} {
			if v := el.Tags[key]; v != "" {
				parts = append(parts, v)
			}
		}
		address = strings.Join(parts, " ")
	}

	cuisineCsv := strings.ToLower(el.Tags["cuisine"])
	var cuisines []string
	if cuisineCsv != "" {
		for _, c := range strings.Split(cuisineCsv, ";") {
			cuisines = append(cuisines, strings.TrimSpace(c))
		}
	}

	return models.Place{
		Provider:    "osm",
		ProviderID:  fmt.Sprintf("%s/%d", el.Type, el.ID),
		Name:        name,
		Address:     address,
		Lat:         lat,
		Lng:         lon,
		Cuisines:    cuisines,
		Description: cuisineCsv,
	}
}

// SearchNearby runs one Overpass around-query for restaurants.
func (o *OSMProvider) SearchNearby(ctx context.Context, opts SearchOptions) []models.Place {
	query := buildOverpassQuery(opts.Lat, opts.Lng, utils.MilesToMeters(opts.Miles), opts.Cuisines)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.OverpassURL, strings.NewReader(query))
	if err != nil {
		log.Printf("❌ OSM request build failed: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := o.Client.Do(req)
	if err != nil {
		log.Printf("❌ OSM Overpass call failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("❌ OSM Overpass status %d: %s", resp.StatusCode, body)
		return nil
	}

	var parsed osmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("❌ OSM response decode failed: %v", err)
		return nil
	}

	var out []models.Place
	for _, el := range parsed.Elements {
		out = append(out, o.toPlace(el))
	}
	return dedupeByProviderID(out)
}
