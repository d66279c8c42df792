package services

import (
	"context"
	"errors"
	"log"
	"time"

	"platepick_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CacheService stores aggregation results keyed by query fingerprint.
// Writers racing on the same fingerprint converge via PutItem; expired rows
// stay in the table and are skipped on read until a writer reuses them.
type CacheService struct {
	Dynamo *DynamoService
}

// LivePlaces filters an entry through its expiry: only entries that have not
// expired at the given instant are servable.
func LivePlaces(cached *models.CachedResult, now time.Time) ([]models.Place, bool) {
	if cached == nil || cached.Expired(now) {
		return nil, false
	}
	return cached.Places, true
}

// Lookup returns the cached places for a fingerprint if a live entry exists.
func (cs *CacheService) Lookup(ctx context.Context, cacheKey string) ([]models.Place, bool) {
	var cached models.CachedResult
	err := cs.Dynamo.GetItem(ctx, models.LocationCacheTable, map[string]types.AttributeValue{
		"cacheKey": StringAttr(cacheKey),
	}, &cached)
	if err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			log.Printf("❌ Cache read failed for %s: %v", cacheKey, err)
		}
		return nil, false
	}
	return LivePlaces(&cached, time.Now())
}

// Store upserts an aggregation result under its fingerprint with a fresh
// 1-hour expiry.
func (cs *CacheService) Store(ctx context.Context, cacheKey, userID string, query models.SearchQuery, places []models.Place) error {
	now := time.Now()
	entry := models.CachedResult{
		CacheKey:    cacheKey,
		UserID:      userID,
		Lat:         query.Lat,
		Lng:         query.Lng,
		RadiusMiles: query.Miles,
		Filters:     query.Filters(),
		Places:      places,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		ExpiresAt:   now.Add(models.CacheTTL).Unix(),
	}
	return cs.Dynamo.PutItem(ctx, models.LocationCacheTable, entry)
}
