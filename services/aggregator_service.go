package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"platepick_server/models"
	"platepick_server/providers"
)

// ResultCache is the aggregator's view of the result cache.
type ResultCache interface {
	Lookup(ctx context.Context, cacheKey string) ([]models.Place, bool)
	Store(ctx context.Context, cacheKey, userID string, query models.SearchQuery, places []models.Place) error
}

// AggregatorService fans a geographic query out to the configured providers,
// merges and deduplicates their output, and caches the result.
type AggregatorService struct {
	Primary         providers.PlacesProvider
	Secondary       providers.PlacesProvider
	Fallback        providers.PlacesProvider
	Cache           ResultCache
	FallbackEnabled bool
	AdapterTimeout  time.Duration
}

// QueryFingerprint computes the stable cache key for a query: an md5 over
// the normalized search parameters. Cuisines are lowercased and sorted so
// equivalent queries hash identically.
func QueryFingerprint(query models.SearchQuery) string {
	cuisines := make([]string, len(query.Cuisines))
	for i, c := range query.Cuisines {
		cuisines[i] = strings.ToLower(c)
	}
	sort.Strings(cuisines)

	payload, _ := json.Marshal(struct {
		Lat      float64  `json:"lat"`
		Lng      float64  `json:"lng"`
		Miles    float64  `json:"miles"`
		Cuisines []string `json:"cuisines"`
		PriceMin int      `json:"price_min"`
		PriceMax int      `json:"price_max"`
		Vibes    []string `json:"vibes"`
	}{query.Lat, query.Lng, query.Miles, cuisines, query.PriceMin, query.PriceMax, query.Vibes})

	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// DedupePlaces removes duplicates by dedup key, first occurrence wins. With
// the primary provider's results ordered first, its data wins ties.
func DedupePlaces(places []models.Place) []models.Place {
	seen := make(map[string]bool, len(places))
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		key := p.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// FindCandidates turns a geographic query into the canonical candidate list:
// cache check, concurrent two-provider fan-out, merge, dedupe, optional
// tertiary fallback, cache write. An empty list is a valid outcome.
func (as *AggregatorService) FindCandidates(ctx context.Context, userID string, query models.SearchQuery) []models.Place {
	cacheKey := QueryFingerprint(query)

	if as.Cache != nil {
		if places, ok := as.Cache.Lookup(ctx, cacheKey); ok {
			log.Printf("✅ Cache hit for %s (%d places)", cacheKey, len(places))
			return places
		}
	}

	opts := providers.SearchOptions{
		Lat:      query.Lat,
		Lng:      query.Lng,
		Miles:    query.Miles,
		Cuisines: lowercaseAll(query.Cuisines),
	}

	// Both providers run concurrently; each failure already degrades to an
	// empty slice inside the adapter, so the merge never blocks on one
	// partner's outage.
	sources := []providers.PlacesProvider{as.Primary, as.Secondary}
	results := make([][]models.Place, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		if src == nil {
			continue
		}
		wg.Add(1)
		go func(i int, src providers.PlacesProvider) {
			defer wg.Done()
			searchCtx := ctx
			if as.AdapterTimeout > 0 {
				var cancel context.CancelFunc
				searchCtx, cancel = context.WithTimeout(ctx, as.AdapterTimeout)
				defer cancel()
			}
			results[i] = src.SearchNearby(searchCtx, opts)
		}(i, src)
	}
	wg.Wait()

	merged := append(append([]models.Place{}, results[0]...), results[1]...)
	places := DedupePlaces(merged)

	// Tertiary fallback runs alone, not merged
	if len(places) == 0 && as.FallbackEnabled && as.Fallback != nil {
		log.Printf("🔍 Primary fan-out empty, falling back to %s", as.Fallback.Name())
		places = as.Fallback.SearchNearby(ctx, opts)
	}

	if as.Cache != nil {
		sanitized := make([]models.Place, len(places))
		for i, p := range places {
			sanitized[i] = p.Sanitized()
		}
		if err := as.Cache.Store(ctx, cacheKey, userID, query, sanitized); err != nil {
			// Cache write failure is non-fatal to the response
			log.Printf("❌ Cache write failed for %s: %v", cacheKey, err)
		}
	}

	return places
}

func lowercaseAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
