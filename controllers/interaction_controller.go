package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// InteractionController records the training-signal writes: favorites,
// dislikes and session exclusions.
type InteractionController struct {
	History *services.HistoryService
}

// HandleAddFavorite marks a place as a favorite.
func (c *InteractionController) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	placeKey := mux.Vars(r)["placeKey"]
	if placeKey == "" {
		http.Error(w, `{"error": "placeKey is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.History.RecordFavorite(r.Context(), utils.UserID(r), placeKey); err != nil {
		log.Printf("❌ Failed to record favorite: %v", err)
		http.Error(w, `{"error": "Failed to record favorite"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleRemoveFavorite removes a favorite.
func (c *InteractionController) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	placeKey := mux.Vars(r)["placeKey"]

	if err := c.History.RemoveFavorite(r.Context(), utils.UserID(r), placeKey); err != nil {
		log.Printf("❌ Failed to remove favorite: %v", err)
		http.Error(w, `{"error": "Failed to remove favorite"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleDislike records a standing dislike.
func (c *InteractionController) HandleDislike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PlaceKey string `json:"placeKey"`
		Reason   string `json:"reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.PlaceKey == "" {
		http.Error(w, `{"error": "placeKey is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.History.RecordDislike(r.Context(), utils.UserID(r), request.PlaceKey, request.Reason); err != nil {
		log.Printf("❌ Failed to record dislike: %v", err)
		http.Error(w, `{"error": "Failed to record dislike"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleSessionExclude marks a place "not right now" for a session.
func (c *InteractionController) HandleSessionExclude(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"sessionId"`
		PlaceKey  string `json:"placeKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.SessionID == "" || request.PlaceKey == "" {
		http.Error(w, `{"error": "sessionId and placeKey are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.History.RecordSessionExclusion(r.Context(), request.SessionID, utils.UserID(r), request.PlaceKey); err != nil {
		log.Printf("❌ Failed to record session exclusion: %v", err)
		http.Error(w, `{"error": "Failed to record exclusion"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// HandleGetChoices returns the caller's recent decision history.
func (c *InteractionController) HandleGetChoices(w http.ResponseWriter, r *http.Request) {
	decisions, err := c.History.RecentDecisions(r.Context(), utils.UserID(r), 50)
	if err != nil {
		log.Printf("❌ Failed to load decision history: %v", err)
		http.Error(w, `{"error": "Failed to load history"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decisions)
}
