package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"platepick_server/services"
	"platepick_server/utils"
)

// PreferenceController serves the preference profile endpoints.
type PreferenceController struct {
	Preferences *services.PreferenceService
}

// HandleGetPreferences returns the caller's profile.
func (c *PreferenceController) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := c.Preferences.GetPreferences(r.Context(), utils.UserID(r))
	if err != nil {
		log.Printf("❌ Failed to load preferences: %v", err)
		http.Error(w, `{"error": "Failed to load preferences"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// HandleUpdatePreferences applies a partial profile update.
func (c *PreferenceController) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var update services.PreferenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if update.PriceMin != nil && (*update.PriceMin < 1 || *update.PriceMin > 4) {
		http.Error(w, `{"error": "price_min must be between 1 and 4"}`, http.StatusBadRequest)
		return
	}
	if update.PriceMax != nil && (*update.PriceMax < 1 || *update.PriceMax > 4) {
		http.Error(w, `{"error": "price_max must be between 1 and 4"}`, http.StatusBadRequest)
		return
	}
	if update.MaxMiles != nil && (*update.MaxMiles < 0.1 || *update.MaxMiles > 50) {
		http.Error(w, `{"error": "max_miles must be between 0.1 and 50"}`, http.StatusBadRequest)
		return
	}

	prefs, err := c.Preferences.UpdatePreferences(r.Context(), utils.UserID(r), update)
	if err != nil {
		log.Printf("❌ Failed to update preferences: %v", err)
		http.Error(w, `{"error": "Failed to update preferences"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}
