package routes

import (
	"platepick_server/controllers"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RegisterPreferenceRoutes registers the preference profile endpoints.
func RegisterPreferenceRoutes(router *mux.Router, jwtSecret string, preferences *services.PreferenceService) {
	controller := &controllers.PreferenceController{Preferences: preferences}

	sub := router.PathPrefix("/api/preferences").Subrouter()
	sub.HandleFunc("", utils.RequireAuth(jwtSecret, controller.HandleGetPreferences)).Methods("GET")
	sub.HandleFunc("", utils.RequireAuth(jwtSecret, controller.HandleUpdatePreferences)).Methods("PUT")
}
