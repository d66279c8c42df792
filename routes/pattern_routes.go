package routes

import (
	"platepick_server/controllers"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RegisterPatternRoutes registers the mined dining pattern endpoints.
func RegisterPatternRoutes(router *mux.Router, jwtSecret string, patterns *services.PatternService) {
	controller := &controllers.PatternController{Patterns: patterns}

	router.HandleFunc("/api/patterns", utils.RequireAuth(jwtSecret, controller.HandleGetPatterns)).Methods("GET")
}
