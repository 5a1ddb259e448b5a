package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/pkg/constants"
	"github.com/feastline/prelaunch/pkg/utils"
)

const (
	AppEnvKey         = "APP_ENV"
	LaunchAtKey       = "LAUNCH_AT"
	BackendBaseURLKey = "BACKEND_BASE_URL"
)

func InitializeEnvFile(logger *log.Logger) {
	logger.Info("Initializing environment variables from .env file if present")

	// Use explicit environment variable instead of fragile binary name detection
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found or failed to load it", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from .env file successfully")
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

// LaunchInstant resolves the countdown target. LAUNCH_AT takes an RFC 3339
// timestamp; anything unparseable falls back to the built-in launch date so a
// bad deploy never takes the page down.
func LaunchInstant(logger *log.Logger) time.Time {
	raw := utils.GetEnvTrimmed(LaunchAtKey)
	if raw == "" {
		return constants.DefaultLaunchInstant()
	}

	parsed, err := time.Parse(constants.RFC3339DateTimeFormat, raw)
	if err != nil {
		if logger != nil {
			logger.Warn("Invalid LAUNCH_AT; using default launch instant", "value", raw, "error", err.Error())
		}
		return constants.DefaultLaunchInstant()
	}

	return parsed.UTC()
}

// BackendBaseURL resolves and validates the waitlist backend address. An empty
// value is allowed (the page still renders; submissions fail with the generic
// message), but a malformed one is an error.
func BackendBaseURL() (string, error) {
	raw := utils.GetEnvTrimmed(BackendBaseURLKey)
	if raw == "" {
		return "", nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", BackendBaseURLKey, raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid %s %q: scheme must be http or https", BackendBaseURLKey, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid %s %q: missing host", BackendBaseURLKey, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}
