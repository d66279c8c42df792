package routes

import (
	"platepick_server/controllers"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RegisterPickRoutes registers the suggestion endpoints under `/api`.
func RegisterPickRoutes(router *mux.Router, jwtSecret string, pick *services.PickService, aggregator *services.AggregatorService, recs *services.RecommendationService) {
	controller := &controllers.PickController{Pick: pick, Aggregator: aggregator, Recommendations: recs}

	router.HandleFunc("/api/pick", utils.OptionalAuth(jwtSecret, controller.HandlePick)).Methods("POST")
	router.HandleFunc("/api/recommendations", utils.RequireAuth(jwtSecret, controller.HandleRecommendations)).Methods("GET")
}
