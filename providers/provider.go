package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"platepick_server/models"
)

// SearchOptions is one nearby-search request handed to an adapter.
type SearchOptions struct {
	Lat      float64
	Lng      float64
	Miles    float64
	Cuisines []string // lowercase
}

// PlacesProvider normalizes one external source into canonical Place
// records. Adapters absorb their own transport, auth and quota failures:
// they log and return an empty list instead of propagating an error, so a
// single dead provider only ever degrades the candidate pool.
type PlacesProvider interface {
	Name() string
	SearchNearby(ctx context.Context, opts SearchOptions) []models.Place
}

// expandCuisines maps requested cuisine terms through an adapter-specific
// synonym table, capped to bound request fan-out.
func expandCuisines(synonyms map[string][]string, cuisines []string, max int) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(term string) {
		if !seen[term] && len(out) < max {
			seen[term] = true
			out = append(out, term)
		}
	}
	for _, c := range cuisines {
		matches, ok := synonyms[c]
		if !ok {
			matches = []string{c}
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

// dedupeByProviderID keeps the first occurrence of each provider ID.
func dedupeByProviderID(list []models.Place) []models.Place {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, p := range list {
		if seen[p.ProviderID] {
			continue
		}
		seen[p.ProviderID] = true
		out = append(out, p)
	}
	return out
}

// getJSON performs a GET with query parameters and decodes the JSON body.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
