package models

import "time"

// CachedResult is one aggregator output stored under its query fingerprint.
// Concurrent writers for the same fingerprint converge last-writer-wins via
// PutItem; expired rows are inert and lazily ignored by readers.
type CachedResult struct {
	CacheKey    string        `dynamodbav:"cacheKey" json:"cacheKey"` // Partition key: query fingerprint
	UserID      string        `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	Lat         float64       `dynamodbav:"lat" json:"lat"`
	Lng         float64       `dynamodbav:"lng" json:"lng"`
	RadiusMiles float64       `dynamodbav:"radiusMiles" json:"radiusMiles"`
	Filters     SearchFilters `dynamodbav:"filters" json:"filters"`
	Places      []Place       `dynamodbav:"places" json:"places"`
	CreatedAt   string        `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt   int64         `dynamodbav:"expiresAt" json:"expiresAt"` // Unix seconds
}

// CacheTTL is how long an aggregation result stays servable.
const CacheTTL = time.Hour

// Expired reports whether the entry is past its expiry at the given instant.
func (c CachedResult) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// LocationCacheTable is the DynamoDB table for aggregation results.
const LocationCacheTable = "LocationCache"
