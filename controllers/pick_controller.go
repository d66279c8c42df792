package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"platepick_server/models"
	"platepick_server/services"
	"platepick_server/utils"
)

// PickController serves the suggestion endpoints.
type PickController struct {
	Pick            *services.PickService
	Aggregator      *services.AggregatorService
	Recommendations *services.RecommendationService
}

// HandlePick returns one primary suggestion and up to two backups for a
// geographic query, personalized when the caller is authenticated.
func (c *PickController) HandlePick(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if query.Miles < 0.5 || query.Miles > 50 {
		http.Error(w, `{"error": "miles must be between 0.5 and 50"}`, http.StatusBadRequest)
		return
	}

	userID := utils.UserID(r)
	result, err := c.Pick.Pick(r.Context(), userID, query)
	if err != nil {
		log.Printf("❌ Pick failed: %v", err)
		http.Error(w, `{"error": "Failed to find a suggestion"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleRecommendations returns the ranked candidate list around a point
// for the authenticated user.
func (c *PickController) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	query, ok := parseLatLng(w, r)
	if !ok {
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}

	userID := utils.UserID(r)
	places := c.Aggregator.FindCandidates(r.Context(), userID, query)
	ranked := c.Recommendations.RankForUser(r.Context(), userID, places, utils.TimeOfDay(time.Now()))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranked)
}
