package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port      string
	AWSRegion string
	JWTSecret string

	// Provider settings
	PrimaryProvider   string // "google" or "yelp"
	GoogleAPIKey      string
	FoursquareAPIKey  string
	YelpAPIKey        string
	OSMOverpassURL    string
	OSMFallbackOn     bool
	ProviderTimeout   time.Duration
	MaxCuisinePhrases int

	Ranking RankingWeights
}

// RankingWeights are the tuning coefficients for candidate scoring. They are
// empirical values, kept configurable rather than hard-coded.
type RankingWeights struct {
	CuisineBoost   float64 // per favorited-cuisine occurrence
	PriceDecay     float64 // penalty slope per price-level step
	RatingBoost    float64 // multiplier on (rating - 3.5)
	PositiveWeight float64 // similarity weight for positive interactions
	NegativeWeight float64 // similarity weight for negative interactions
	Jitter         float64 // uniform perturbation bound applied before sort
}

// DefaultRankingWeights returns the stock coefficients.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		CuisineBoost:   0.5,
		PriceDecay:     0.3,
		RatingBoost:    0.2,
		PositiveWeight: 0.3,
		NegativeWeight: 0.2,
		Jitter:         0.15,
	}
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		PrimaryProvider:   getEnv("PROVIDER", "google"),
		GoogleAPIKey:      getEnv("GOOGLE_PLACES_API_KEY", ""),
		FoursquareAPIKey:  getEnv("FOURSQUARE_API_KEY", ""),
		YelpAPIKey:        getEnv("YELP_API_KEY", ""),
		OSMOverpassURL:    getEnv("OSM_OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		OSMFallbackOn:     getEnv("OSM_FALLBACK", "1") != "0",
		ProviderTimeout:   time.Duration(getEnvInt("PROVIDER_TIMEOUT_MS", 10000)) * time.Millisecond,
		MaxCuisinePhrases: getEnvInt("MAX_CUISINE_PHRASES", 6),

		Ranking: RankingWeights{
			CuisineBoost:   getEnvFloat("RANK_CUISINE_BOOST", 0.5),
			PriceDecay:     getEnvFloat("RANK_PRICE_DECAY", 0.3),
			RatingBoost:    getEnvFloat("RANK_RATING_BOOST", 0.2),
			PositiveWeight: getEnvFloat("RANK_POSITIVE_WEIGHT", 0.3),
			NegativeWeight: getEnvFloat("RANK_NEGATIVE_WEIGHT", 0.2),
			Jitter:         getEnvFloat("RANK_JITTER", 0.15),
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
