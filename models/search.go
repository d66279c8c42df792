package models

// SearchQuery is one aggregation request: where to look and what to filter.
type SearchQuery struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Miles      float64  `json:"miles"`
	Cuisines   []string `json:"cuisines,omitempty"` // lowercase
	PriceMin   int      `json:"price_min,omitempty"`
	PriceMax   int      `json:"price_max,omitempty"`
	Vibes      []string `json:"vibes,omitempty"`
	OpenNow    bool     `json:"open_now,omitempty"`
	Dietary    []string `json:"dietary_restrictions,omitempty"`
	SessionID  string   `json:"sessionId,omitempty"`
	ExcludeIDs []string `json:"excludeProviderIds,omitempty"`
}

// SearchFilters is the persisted subset of a query used for cache keys,
// room snapshots and decision history.
type SearchFilters struct {
	Cuisines []string `dynamodbav:"cuisines,omitempty" json:"cuisines,omitempty"`
	PriceMin int      `dynamodbav:"priceMin,omitempty" json:"price_min,omitempty"`
	PriceMax int      `dynamodbav:"priceMax,omitempty" json:"price_max,omitempty"`
	Vibes    []string `dynamodbav:"vibes,omitempty" json:"vibes,omitempty"`
}

// Filters projects the cacheable filter subset out of a query.
func (q SearchQuery) Filters() SearchFilters {
	return SearchFilters{
		Cuisines: q.Cuisines,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Vibes:    q.Vibes,
	}
}
