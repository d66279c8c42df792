package routes

import (
	"platepick_server/controllers"
	"platepick_server/services"
	"platepick_server/utils"

	"github.com/gorilla/mux"
)

// RegisterRoomRoutes registers the decision room endpoints under `/api/rooms`.
func RegisterRoomRoutes(router *mux.Router, jwtSecret string, rooms *services.RoomService) {
	controller := &controllers.RoomController{Rooms: rooms}

	sub := router.PathPrefix("/api/rooms").Subrouter()
	sub.HandleFunc("", utils.OptionalAuth(jwtSecret, controller.HandleCreateRoom)).Methods("POST")
	sub.HandleFunc("/{slug}", controller.HandleGetRoom).Methods("GET")
	sub.HandleFunc("/{slug}/join", controller.HandleJoinRoom).Methods("POST")
	sub.HandleFunc("/{slug}/swipe", controller.HandleSwipe).Methods("POST")
}
