package models

import (
	"fmt"
	"math"
	"strings"
)

// Place is the canonical candidate record produced by every provider adapter.
type Place struct {
	Provider    string   `dynamodbav:"provider" json:"provider"`                         // Source adapter name
	ProviderID  string   `dynamodbav:"providerId" json:"providerId"`                     // Source-native identifier
	Name        string   `dynamodbav:"name" json:"name"`                                 // Display name
	Address     string   `dynamodbav:"address,omitempty" json:"address,omitempty"`       // Formatted address if known
	Lat         float64  `dynamodbav:"lat,omitempty" json:"lat,omitempty"`               // Latitude
	Lng         float64  `dynamodbav:"lng,omitempty" json:"lng,omitempty"`               // Longitude
	Rating      float64  `dynamodbav:"rating,omitempty" json:"rating,omitempty"`         // Normalized 0-5 scale
	PriceLevel  int      `dynamodbav:"priceLevel,omitempty" json:"priceLevel,omitempty"` // 1-4, 0 = undeclared
	Cuisines    []string `dynamodbav:"cuisines,omitempty" json:"cuisines,omitempty"`     // Lowercase cuisine tags
	Description string   `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Weight      float64  `dynamodbav:"-" json:"weight,omitempty"`  // Ranking score, never persisted
	Reasons     []string `dynamodbav:"-" json:"reasons,omitempty"` // Display-only suggestion reasons
}

// Key returns the storage identity of a place across requests.
func (p Place) Key() string {
	return p.Provider + "#" + p.ProviderID
}

// DedupKey identifies "the same place" across providers: normalized
// lowercase-alphanumeric name plus coordinates rounded to 3 decimals
// (roughly a 111m grid).
func (p Place) DedupKey() string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.Name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s_%d_%d", b.String(), int(math.Round(p.Lat*1000)), int(math.Round(p.Lng*1000)))
}

// Sanitized strips the ranking fields so cached entries carry public data only.
func (p Place) Sanitized() Place {
	p.Weight = 0
	p.Reasons = nil
	return p
}

// PlacesTable is the DynamoDB table for upserted place records.
const PlacesTable = "Places"
