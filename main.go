package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"platepick_server/config"
	"platepick_server/providers"
	"platepick_server/routes"
	"platepick_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Pick the primary search adapter; Foursquare backs it up and OpenStreetMap
	// is the last-resort fallback when both come back empty.
	var primary providers.PlacesProvider
	switch cfg.PrimaryProvider {
	case "yelp":
		primary = providers.NewYelpProvider(cfg.YelpAPIKey, cfg.ProviderTimeout)
	default:
		primary = providers.NewGoogleProvider(cfg.GoogleAPIKey, cfg.ProviderTimeout, cfg.MaxCuisinePhrases)
	}
	secondary := providers.NewFoursquareProvider(cfg.FoursquareAPIKey, cfg.ProviderTimeout, cfg.MaxCuisinePhrases)
	fallback := providers.NewOSMProvider(cfg.OSMOverpassURL, cfg.ProviderTimeout)
	log.Printf("Using %s as primary search provider", primary.Name())

	// Initialize Services
	cacheService := &services.CacheService{Dynamo: dynamoService}
	aggregatorService := &services.AggregatorService{
		Primary:         primary,
		Secondary:       secondary,
		Fallback:        fallback,
		Cache:           cacheService,
		FallbackEnabled: cfg.OSMFallbackOn,
		AdapterTimeout:  cfg.ProviderTimeout,
	}
	historyService := &services.HistoryService{Dynamo: dynamoService}
	preferenceService := &services.PreferenceService{Dynamo: dynamoService}
	patternService := &services.PatternService{Dynamo: dynamoService, History: historyService}
	recommendationService := services.NewRecommendationService(dynamoService, cfg.Ranking)
	pickService := &services.PickService{
		Aggregator:      aggregatorService,
		Recommendations: recommendationService,
		Patterns:        patternService,
		History:         historyService,
		Preferences:     preferenceService,
	}
	roomService := &services.RoomService{Dynamo: dynamoService, Aggregator: aggregatorService}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PlatePick")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterPickRoutes(r, cfg.JWTSecret, pickService, aggregatorService, recommendationService)
	routes.RegisterRoomRoutes(r, cfg.JWTSecret, roomService)
	routes.RegisterPreferenceRoutes(r, cfg.JWTSecret, preferenceService)
	routes.RegisterPatternRoutes(r, cfg.JWTSecret, patternService)
	routes.RegisterInteractionRoutes(r, cfg.JWTSecret, historyService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
