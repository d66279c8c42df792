package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"platepick_server/models"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RoomController serves the group decision rooms.
type RoomController struct {
	Rooms *services.RoomService
}

// HandleCreateRoom opens a room with a frozen candidate snapshot.
func (c *RoomController) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name    string               `json:"name"`
		Lat     float64              `json:"lat"`
		Lng     float64              `json:"lng"`
		Radius  float64              `json:"radius"`
		Filters models.SearchFilters `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.Radius != 0 && (request.Radius < 0.5 || request.Radius > 50) {
		http.Error(w, `{"error": "radius must be between 0.5 and 50"}`, http.StatusBadRequest)
		return
	}

	query := models.SearchQuery{
		Lat:      request.Lat,
		Lng:      request.Lng,
		Miles:    request.Radius,
		Cuisines: request.Filters.Cuisines,
		PriceMin: request.Filters.PriceMin,
		PriceMax: request.Filters.PriceMax,
		Vibes:    request.Filters.Vibes,
	}

	room, err := c.Rooms.CreateRoom(r.Context(), utils.UserID(r), request.Name, query)
	if err != nil {
		log.Printf("❌ Room creation failed: %v", err)
		http.Error(w, `{"error": "Failed to create room"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"slug": room.Slug})
}

// HandleGetRoom returns room state for polling clients.
func (c *RoomController) HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	room, participants, swipeCounts, err := c.Rooms.GetRoom(r.Context(), slug)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	type participantView struct {
		ParticipantID string `json:"participantId"`
		Nickname      string `json:"nickname"`
		LastActive    string `json:"lastActive"`
	}
	views := make([]participantView, len(participants))
	for i, p := range participants {
		views[i] = participantView{p.ParticipantID, p.Nickname, p.LastActive}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"room":         room,
		"participants": views,
		"swipes":       swipeCounts,
	})
}

// HandleJoinRoom issues (or refreshes) a participant session token.
func (c *RoomController) HandleJoinRoom(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var request struct {
		Nickname     string `json:"nickname"`
		SessionToken string `json:"sessionToken,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Nickname == "" {
		http.Error(w, `{"error": "nickname is required"}`, http.StatusBadRequest)
		return
	}

	participant, err := c.Rooms.JoinRoom(r.Context(), slug, utils.UserID(r), request.Nickname, request.SessionToken)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"participantId": participant.ParticipantID,
		"sessionToken":  participant.SessionToken,
	})
}

// HandleSwipe records a verdict and reports the consensus evaluation.
func (c *RoomController) HandleSwipe(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	var request struct {
		SessionToken string `json:"sessionToken"`
		PlaceKey     string `json:"placeKey"`
		Swipe        string `json:"swipe"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	switch request.Swipe {
	case models.VerdictLike, models.VerdictDislike, models.VerdictSuperLike, models.VerdictVeto:
	default:
		http.Error(w, `{"error": "invalid swipe verdict"}`, http.StatusBadRequest)
		return
	}

	consensus, err := c.Rooms.RecordSwipe(r.Context(), slug, request.SessionToken, request.PlaceKey, request.Swipe)
	if err != nil {
		writeRoomError(w, err)
		return
	}

	response := map[string]interface{}{"ok": true, "consensus": nil}
	if consensus != models.ConsensusNone {
		response["consensus"] = consensus
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		http.Error(w, `{"error": "Room not found"}`, http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidSession):
		http.Error(w, `{"error": "Invalid session"}`, http.StatusForbidden)
	default:
		log.Printf("❌ Room operation failed: %v", err)
		http.Error(w, `{"error": "Room operation failed"}`, http.StatusInternalServerError)
	}
}
