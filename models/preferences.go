package models

// UserPreferences is the per-user preference profile. It is owned by exactly
// one user and mutated only through explicit preference updates; ranking and
// filtering treat it as read-only input.
type UserPreferences struct {
	UserID              string   `dynamodbav:"userId" json:"userId"` // Partition key
	MaxMiles            float64  `dynamodbav:"maxMiles,omitempty" json:"max_miles,omitempty"`
	DefaultLat          float64  `dynamodbav:"defaultLat,omitempty" json:"default_lat,omitempty"`
	DefaultLng          float64  `dynamodbav:"defaultLng,omitempty" json:"default_lng,omitempty"`
	PreferredCuisines   []string `dynamodbav:"preferredCuisines,omitempty" json:"preferred_cuisines,omitempty"`
	DietaryRestrictions []string `dynamodbav:"dietaryRestrictions,omitempty" json:"dietary_restrictions,omitempty"`
	PriceMin            int      `dynamodbav:"priceMin,omitempty" json:"price_min,omitempty"`
	PriceMax            int      `dynamodbav:"priceMax,omitempty" json:"price_max,omitempty"`
	PreferredVibes      []string `dynamodbav:"preferredVibes,omitempty" json:"preferred_vibes,omitempty"`
	FilterOpenNow       bool     `dynamodbav:"filterOpenNow,omitempty" json:"filter_open_now,omitempty"`
}

// UserPreferencesTable is the DynamoDB table for preference profiles.
const UserPreferencesTable = "UserPreferences"
