package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"platepick_server/services"
	"platepick_server/utils"
)

// PatternController serves the mined-pattern endpoint.
type PatternController struct {
	Patterns *services.PatternService
}

// HandleGetPatterns re-mines the caller's history and returns the stored
// patterns, highest confidence first.
func (c *PatternController) HandleGetPatterns(w http.ResponseWriter, r *http.Request) {
	userID := utils.UserID(r)

	if err := c.Patterns.MinePatterns(r.Context(), userID); err != nil {
		// Mining is best-effort; stale patterns are still worth returning
		log.Printf("❌ Pattern mining failed for %s: %v", userID, err)
	}

	patterns, err := c.Patterns.GetPatterns(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to load patterns: %v", err)
		http.Error(w, `{"error": "Failed to load patterns"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patterns)
}
