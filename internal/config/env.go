package config

import (
	"os"
	"strconv"
	"time"
)

// FromEnv reads configuration from environment variables. Unset variables leave
// fields at their zero value so they can be merged with other sources.
func FromEnv() Config {
	return Config{
		AppEnv:            getEnvString("APP_ENV", ""),
		GoogleAPIKey:      getEnvString("GOOGLE_API_KEY", ""),
		GoogleCX:          getEnvString("GOOGLE_CX", ""),
		UseBrowser:        getEnvBool("USE_BROWSER", false),
		ScrapeDelay:       Duration(getEnvDuration("SCRAPE_DELAY", 0)),
		SourcingTimeout:   Duration(getEnvDuration("SOURCING_TIMEOUT", 0)),
		SourcingRateLimit: getEnvInt("SOURCING_RATE_LIMIT", 0),
		PeopleFile:        getEnvString("PEOPLE_FILE", ""),
		DNSTimeout:        Duration(getEnvDuration("DNS_TIMEOUT", 0)),
		CacheTTL:          Duration(getEnvDuration("CACHE_TTL", 0)),
		RedisAddr:         getEnvString("REDIS_ADDR", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DatabaseURL:       getEnvString("DATABASE_URL", ""),
		PolicyFile:        getEnvString("POLICY_FILE", ""),
		MaxResults:        getEnvInt("MAX_RESULTS", 0),
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
