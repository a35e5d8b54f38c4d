package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Mode        string
	Environment string

	LotName           string
	LotFloors         int
	HandicappedSlots  int
	SmallMidsizeSlots int
	LargeSlots        int

	RateHandicapped  float64
	RateSmallMidsize float64
	RateLarge        float64

	OTelServiceName string
	OTelEndpoint    string
}

// Load reads the environment, after merging an optional .env file in the
// working directory. Variables already set win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              envOr("APP_PORT", "8080"),
		Mode:              envOr("APP_MODE", "cli"),
		Environment:       envOr("APP_ENV", "development"),
		LotName:           envOr("LOT_NAME", "Shopping Mall Parking"),
		LotFloors:         envOrInt("LOT_FLOORS", 3),
		HandicappedSlots:  envOrInt("LOT_HANDICAPPED", 10),
		SmallMidsizeSlots: envOrInt("LOT_SMALL_MIDSIZE", 20),
		LargeSlots:        envOrInt("LOT_LARGE", 15),
		RateHandicapped:   envOrFloat("RATE_HANDICAPPED", 10),
		RateSmallMidsize:  envOrFloat("RATE_SMALL_MIDSIZE", 15),
		RateLarge:         envOrFloat("RATE_LARGE", 20),
		OTelServiceName:   envOr("OTEL_SERVICE_NAME", "parking-lot-service"),
		OTelEndpoint:      envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
