// Package config loads and validates application configuration from
// environment variables, with support for required variables, default values,
// and collective error reporting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds settings for verifying identity-provider tokens.
// The identity provider signs bearer tokens with a shared HMAC secret;
// this application only verifies them, it never issues tokens itself.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig

	// DayLocation is the timezone used to compute calendar-day boundaries
	// for journals, habit logs, and Pomodoro day windows. It is an explicit
	// setting rather than an implicit server-local default.
	DayLocation *time.Location
}

// getRequiredEnv reads a required environment variable, appending to errs if
// it is not set.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional environment variable parsed as an int.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// parsePoolSize validates and clamps a pool size between 5 and 100.
func parsePoolSize(value int, varName string, errs *[]string) int {
	if value < 5 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, value))
		return 5
	}
	if value > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, value))
		return 100
	}
	return value
}

// LoadConfig creates an AppConfig from environment variables. It collects all
// errors encountered and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := parsePoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	authConfig := &AuthConfig{
		JWTSecret: getRequiredEnv("JWT_SECRET", &errs),
		Issuer:    getOptionalEnv("JWT_ISSUER", ""),
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	// Day boundaries default to UTC unless DAY_TIMEZONE names an IANA zone.
	dayLocation := time.UTC
	if tz := getOptionalEnv("DAY_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid value for DAY_TIMEZONE: unknown timezone '%s': %v", tz, err))
		} else {
			dayLocation = loc
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:          dbConfig,
		Auth:        authConfig,
		Server:      serverConfig,
		DayLocation: dayLocation,
	}, nil
}
