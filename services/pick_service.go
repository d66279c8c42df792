package services

import (
	"context"
	"log"
	"time"

	"platepick_server/models"
	"platepick_server/utils"
)

// PickResult is the suggestion response: one primary candidate, up to two
// backups, and a reason string when nothing matched.
type PickResult struct {
	Primary *models.Place  `json:"primary"`
	Backups []models.Place `json:"backups"`
	Reason  string         `json:"reason,omitempty"`
}

// NoCandidatesReason is the zero-result explanation. An empty pool is a
// valid outcome, not an error.
const NoCandidatesReason = "No restaurants found matching your criteria"

// PickService orchestrates the full suggestion path: aggregation,
// exclusions, preference filtering, ranking, and the best-effort history
// side effects.
type PickService struct {
	Aggregator      *AggregatorService
	Recommendations *RecommendationService
	Patterns        *PatternService
	History         *HistoryService
	Preferences     *PreferenceService
}

// Pick runs one suggestion request. userID may be empty for anonymous
// callers, which skips personalization and history logging.
func (ps *PickService) Pick(ctx context.Context, userID string, query models.SearchQuery) (*PickResult, error) {
	var prefs *models.UserPreferences
	if userID != "" {
		loaded, err := ps.Preferences.GetPreferences(ctx, userID)
		if err != nil {
			log.Printf("❌ Failed to load preferences for %s: %v", userID, err)
		} else {
			prefs = loaded
		}
	}

	places := ps.Aggregator.FindCandidates(ctx, userID, query)

	places = FilterByPreferences(places, ps.filterOptions(query, prefs))
	places = ps.applyExclusions(ctx, userID, query, places)

	if len(places) == 0 {
		return &PickResult{Backups: []models.Place{}, Reason: NoCandidatesReason}, nil
	}

	now := time.Now()
	timeOfDay := utils.TimeOfDay(now)
	places = ps.Recommendations.RankForUser(ctx, userID, places, timeOfDay)

	primary := places[0]
	backups := make([]models.Place, 0, 2)
	for _, p := range places[1:] {
		if len(backups) == 2 {
			break
		}
		backups = append(backups, p)
	}

	if userID != "" {
		ps.attachReasons(ctx, userID, prefs, now, &primary, backups)
		ps.logDecision(ctx, userID, query, primary, now)
	}

	// Upsert the returned places so favorites and history can reference
	// them; failure here never blocks the response.
	returned := append([]models.Place{primary}, backups...)
	if err := ps.History.UpsertPlaces(ctx, returned); err != nil {
		log.Printf("❌ Place upsert failed: %v", err)
	}

	return &PickResult{Primary: &primary, Backups: backups}, nil
}

func (ps *PickService) filterOptions(query models.SearchQuery, prefs *models.UserPreferences) FilterOptions {
	opts := FilterOptions{
		PriceMin:            query.PriceMin,
		PriceMax:            query.PriceMax,
		Vibes:               query.Vibes,
		DietaryRestrictions: query.Dietary,
		OpenNow:             query.OpenNow,
	}
	if prefs != nil {
		if opts.PriceMin == 0 {
			opts.PriceMin = prefs.PriceMin
		}
		if opts.PriceMax == 0 {
			opts.PriceMax = prefs.PriceMax
		}
		if len(opts.Vibes) == 0 {
			opts.Vibes = prefs.PreferredVibes
		}
		if len(opts.DietaryRestrictions) == 0 {
			opts.DietaryRestrictions = prefs.DietaryRestrictions
		}
		if !opts.OpenNow {
			opts.OpenNow = prefs.FilterOpenNow
		}
	}
	return opts
}

// applyExclusions drops session "not right now" places, explicitly excluded
// provider IDs, and the user's standing dislikes.
func (ps *PickService) applyExclusions(ctx context.Context, userID string, query models.SearchQuery, places []models.Place) []models.Place {
	excluded := make(map[string]bool)

	if query.SessionID != "" {
		set, err := ps.History.SessionExclusions(ctx, query.SessionID, time.Now())
		if err != nil {
			log.Printf("❌ Failed to load session exclusions: %v", err)
		}
		for k := range set {
			excluded[k] = true
		}
	}

	if userID != "" {
		set, err := ps.History.DislikedPlaceKeys(ctx, userID)
		if err != nil {
			log.Printf("❌ Failed to load dislikes for %s: %v", userID, err)
		}
		for k := range set {
			excluded[k] = true
		}
	}

	excludeIDs := make(map[string]bool, len(query.ExcludeIDs))
	for _, id := range query.ExcludeIDs {
		excludeIDs[id] = true
	}

	if len(excluded) == 0 && len(excludeIDs) == 0 {
		return places
	}

	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if excluded[p.Key()] || excludeIDs[p.ProviderID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (ps *PickService) attachReasons(ctx context.Context, userID string, prefs *models.UserPreferences, now time.Time, primary *models.Place, backups []models.Place) {
	favorites, err := ps.Recommendations.FavoritePlaces(ctx, userID)
	if err != nil {
		log.Printf("❌ Failed to load favorites for reasons: %v", err)
	}
	pattern, err := ps.Patterns.CurrentPattern(ctx, userID, now)
	if err != nil {
		log.Printf("❌ Failed to load current pattern: %v", err)
	}

	primary.Reasons = BuildReasons(*primary, prefs, favorites, pattern)
	for i := range backups {
		backups[i].Reasons = BuildReasons(backups[i], prefs, favorites, pattern)
	}
}

// logDecision records the shown decision and its interaction features.
// Both writes are best-effort; a failed log never blocks the suggestion.
func (ps *PickService) logDecision(ctx context.Context, userID string, query models.SearchQuery, primary models.Place, now time.Time) {
	decision := models.Decision{
		UserID:         userID,
		SessionID:      query.SessionID,
		PlaceKey:       primary.Key(),
		Action:         models.InteractionShown,
		SearchLat:      query.Lat,
		SearchLng:      query.Lng,
		SearchRadius:   query.Miles,
		FiltersApplied: query.Filters(),
		TimeOfDay:      utils.TimeOfDay(now),
		DayOfWeek:      utils.DayOfWeek(now),
		Reasons:        primary.Reasons,
	}
	if err := ps.History.RecordDecision(ctx, decision); err != nil {
		log.Printf("❌ Decision history write failed: %v", err)
	}

	features := models.FeatureVector{
		Cuisines:      primary.Cuisines,
		Price:         primary.PriceLevel,
		Rating:        primary.Rating,
		TimeOfDay:     utils.TimeOfDay(now),
		DayOfWeek:     utils.DayOfWeek(now),
		DistanceMiles: utils.DistanceMiles(query.Lat, query.Lng, primary.Lat, primary.Lng),
	}
	if err := ps.History.RecordInteraction(ctx, userID, primary.Key(), models.InteractionShown, "", features); err != nil {
		log.Printf("❌ Interaction log write failed: %v", err)
	}
}
