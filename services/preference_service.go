package services

import (
	"context"
	"errors"

	"platepick_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PreferenceService owns the per-user preference profile. The profile is
// only ever mutated through these explicit updates; the suggestion pipeline
// reads it as-is.
type PreferenceService struct {
	Dynamo *DynamoService
}

// PreferenceUpdate carries a partial profile update; nil fields are left
// untouched.
type PreferenceUpdate struct {
	MaxMiles            *float64  `json:"max_miles,omitempty"`
	DefaultLat          *float64  `json:"default_lat,omitempty"`
	DefaultLng          *float64  `json:"default_lng,omitempty"`
	PreferredCuisines   *[]string `json:"preferred_cuisines,omitempty"`
	DietaryRestrictions *[]string `json:"dietary_restrictions,omitempty"`
	PriceMin            *int      `json:"price_min,omitempty"`
	PriceMax            *int      `json:"price_max,omitempty"`
	PreferredVibes      *[]string `json:"preferred_vibes,omitempty"`
	FilterOpenNow       *bool     `json:"filter_open_now,omitempty"`
}

// GetPreferences returns the stored profile, or a default one when the user
// has never saved preferences.
func (ps *PreferenceService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := ps.Dynamo.GetItem(ctx, models.UserPreferencesTable, map[string]types.AttributeValue{
		"userId": StringAttr(userID),
	}, &prefs)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return &models.UserPreferences{UserID: userID}, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences applies a partial update and upserts the profile.
func (ps *PreferenceService) UpdatePreferences(ctx context.Context, userID string, update PreferenceUpdate) (*models.UserPreferences, error) {
	prefs, err := ps.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.MaxMiles != nil {
		prefs.MaxMiles = *update.MaxMiles
	}
	if update.DefaultLat != nil {
		prefs.DefaultLat = *update.DefaultLat
	}
	if update.DefaultLng != nil {
		prefs.DefaultLng = *update.DefaultLng
	}
	if update.PreferredCuisines != nil {
		prefs.PreferredCuisines = *update.PreferredCuisines
	}
	if update.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = *update.DietaryRestrictions
	}
	if update.PriceMin != nil {
		prefs.PriceMin = *update.PriceMin
	}
	if update.PriceMax != nil {
		prefs.PriceMax = *update.PriceMax
	}
	if update.PreferredVibes != nil {
		prefs.PreferredVibes = *update.PreferredVibes
	}
	if update.FilterOpenNow != nil {
		prefs.FilterOpenNow = *update.FilterOpenNow
	}

	prefs.UserID = userID
	if err := ps.Dynamo.PutItem(ctx, models.UserPreferencesTable, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
