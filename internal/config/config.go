// internal/config/config.go
package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                string
	Environment         string
	DatabaseURL         string
	JWTSecret           string
	JWTExpiresInSeconds int

	// Timezone is the IANA zone in which recurring rule wall-clock times are
	// interpreted. "22:00 Friday" means venue-local time, not UTC.
	Timezone string

	// GenerateCron schedules the in-process recurring-event pass
	// (standard cron expression). Empty disables the scheduler.
	GenerateCron       string
	GenerateWeeksAhead int
}

func Load() *Config {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		host := getEnv("PSQL_HOST", "localhost")
		port := getEnv("PSQL_PORT", "5432")
		user := getEnv("PSQL_USER", "postgres")
		password := getEnv("PSQL_PASSWORD", "postgres")
		dbName := getEnv("PSQL_DB_NAME", "nox")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DatabaseURL:         databaseURL,
		JWTSecret:           getEnv("JWT_SECRET", "dev"),
		JWTExpiresInSeconds: getEnvInt("JWT_EXPIRES_IN_SECONDS", 86400),
		Timezone:            getEnv("TIMEZONE", "Europe/Amsterdam"),
		GenerateCron:        getEnv("GENERATE_CRON", "0 5 * * *"),
		GenerateWeeksAhead:  getEnvInt("GENERATE_WEEKS_AHEAD", 4),
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// zone database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
