package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestFoursquare(baseURL string) *FoursquareProvider {
	f := NewFoursquareProvider("test-key", 5*time.Second, 6)
	f.BaseURL = baseURL
	return f
}

func foursquarePayload(results ...map[string]interface{}) string {
	body, _ := json.Marshal(map[string]interface{}{"results": results})
	return string(body)
}

func TestFoursquareNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got %q", got)
		}
		w.Write([]byte(foursquarePayload(map[string]interface{}{
			"fsq_id": "f1",
			"name":   "Bangkok Garden",
			"rating": 8.6,
			"price":  2,
			"location": map[string]interface{}{
				"formatted_address": "2 Side St",
			},
			"categories": []map[string]string{{"name": "Thai Restaurant"}},
			"geocodes": map[string]interface{}{
				"main": map[string]float64{"latitude": 40.7, "longitude": -74.0},
			},
		})))
	}))
	defer server.Close()

	f := newTestFoursquare(server.URL)
	places := f.SearchNearby(context.Background(), SearchOptions{Lat: 40.7, Lng: -74.0, Miles: 5})
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1", len(places))
	}
	p := places[0]
	if p.Rating != 4.3 {
		t.Errorf("0-10 rating should normalize to 0-5: got %v, want 4.3", p.Rating)
	}
	if p.PriceLevel != 2 {
		t.Errorf("price: got %d, want 2", p.PriceLevel)
	}
	found := false
	for _, c := range p.Cuisines {
		if c == "thai" {
			found = true
		}
	}
	if !found {
		t.Errorf("category name should yield the thai tag, got %v", p.Cuisines)
	}
}

func TestFoursquareRadiusClamp(t *testing.T) {
	var radius int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		radius, _ = strconv.Atoi(r.URL.Query().Get("radius"))
		w.Write([]byte(foursquarePayload()))
	}))
	defer server.Close()

	f := newTestFoursquare(server.URL)
	f.SearchNearby(context.Background(), SearchOptions{Lat: 40.7, Lng: -74.0, Miles: 100})
	if radius != foursquareMaxRadius {
		t.Errorf("radius should clamp to %d, got %d", foursquareMaxRadius, radius)
	}
}

func TestFoursquareUnfilteredRetry(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		queries = append(queries, q)
		if q != "" {
			w.Write([]byte(foursquarePayload()))
			return
		}
		w.Write([]byte(foursquarePayload(map[string]interface{}{
			"fsq_id": "f2", "name": "Fallback Diner",
		})))
	}))
	defer server.Close()

	f := newTestFoursquare(server.URL)
	places := f.SearchNearby(context.Background(), SearchOptions{
		Lat: 40.7, Lng: -74.0, Miles: 5, Cuisines: []string{"thai"},
	})
	if len(queries) != 2 || queries[1] != "" {
		t.Fatalf("expected a filtered call then an unfiltered retry, got %v", queries)
	}
	if len(places) != 1 || places[0].Name != "Fallback Diner" {
		t.Errorf("expected the retry result, got %v", places)
	}
}

func TestFoursquareDropsMissingIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(foursquarePayload(
			map[string]interface{}{"fsq_id": "", "name": "No ID"},
			map[string]interface{}{"fsq_id": "f3", "name": "Kept"},
		)))
	}))
	defer server.Close()

	f := newTestFoursquare(server.URL)
	places := f.SearchNearby(context.Background(), SearchOptions{Lat: 40.7, Lng: -74.0, Miles: 5})
	if len(places) != 1 || places[0].Name != "Kept" {
		t.Errorf("results without identity should be dropped, got %v", places)
	}
}

func TestFoursquareSkipsWithoutKey(t *testing.T) {
	f := NewFoursquareProvider("", time.Second, 6)
	if places := f.SearchNearby(context.Background(), SearchOptions{Lat: 40.7, Lng: -74.0, Miles: 5}); places != nil {
		t.Errorf("missing key should short-circuit, got %v", places)
	}
}
