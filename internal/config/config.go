package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	Detection DetectionConfig
}

// DetectionConfig carries the tunable knobs of the rule engine.
//
// ExpectedRate and UnitPrice are the two intentionally visible
// placeholders: real rate extraction would parse contract clauses, and
// real usage pricing would apply per-unit tariffs. Until then both are
// plain constants so the gap stays obvious.
type DetectionConfig struct {
	// RateTolerance absorbs rounding noise when comparing a billed
	// amount against the contract rate.
	RateTolerance float64
	// UsageTolerance absorbs rounding noise when comparing a billed
	// amount against aggregated usage.
	UsageTolerance float64
	// ExpectedRate is the stand-in contract rate used until clause
	// parsing exists.
	ExpectedRate float64
	// UnitPrice converts aggregated usage quantity into an expected
	// billed amount.
	UnitPrice float64
	// Parallel runs rules concurrently. Output ordering is unaffected.
	Parallel bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "revlens"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		Detection: DetectionConfig{
			RateTolerance:  getenvFloat("DETECTION_RATE_TOLERANCE", 1.0),
			UsageTolerance: getenvFloat("DETECTION_USAGE_TOLERANCE", 1.0),
			ExpectedRate:   getenvFloat("DETECTION_EXPECTED_RATE", 100.0),
			UnitPrice:      getenvFloat("DETECTION_UNIT_PRICE", 1.0),
			Parallel:       getenvBool("DETECTION_PARALLEL", false),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
