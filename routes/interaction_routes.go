package routes

import (
	"platepick_server/controllers"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes registers the favorite, dislike and history
// endpoints. Session exclusions are anonymous, everything else requires a
// signed-in user.
func RegisterInteractionRoutes(router *mux.Router, jwtSecret string, history *services.HistoryService) {
	controller := &controllers.InteractionController{History: history}

	sub := router.PathPrefix("/api").Subrouter()
	sub.HandleFunc("/favorites/{placeKey}", utils.RequireAuth(jwtSecret, controller.HandleAddFavorite)).Methods("POST")
	sub.HandleFunc("/favorites/{placeKey}", utils.RequireAuth(jwtSecret, controller.HandleRemoveFavorite)).Methods("DELETE")
	sub.HandleFunc("/dislikes", utils.RequireAuth(jwtSecret, controller.HandleDislike)).Methods("POST")
	sub.HandleFunc("/session/exclude", utils.OptionalAuth(jwtSecret, controller.HandleSessionExclude)).Methods("POST")
	sub.HandleFunc("/choices", utils.RequireAuth(jwtSecret, controller.HandleGetChoices)).Methods("GET")
}
