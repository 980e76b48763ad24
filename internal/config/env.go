package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables carrying third-party integration identifiers.
const (
	EnvRecaptchaSiteKey = "PVL_RECAPTCHA_SITE_KEY"
	EnvTawkPropertyID   = "PVL_TAWK_PROPERTY_ID"
	EnvTawkWidgetID     = "PVL_TAWK_WIDGET_ID"
	EnvClarityProjectID = "PVL_CLARITY_PROJECT_ID"
	EnvLogLevel         = "PVL_LOG_LEVEL"
)

// IntegrationIDs are the account identifiers interpolated into the embed snippets.
type IntegrationIDs struct {
	RecaptchaSiteKey string
	TawkPropertyID   string
	TawkWidgetID     string
	ClarityProjectID string
}

// LoadEnvFiles loads .env and .env.local from root into the process environment.
// Variables already set are not overwritten. Missing files are skipped.
func LoadEnvFiles(root string) error {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment file", "path", path)
	}
	return nil
}

// IntegrationIDsFromEnv reads the integration identifiers from the environment.
func IntegrationIDsFromEnv() IntegrationIDs {
	return IntegrationIDs{
		RecaptchaSiteKey: os.Getenv(EnvRecaptchaSiteKey),
		TawkPropertyID:   os.Getenv(EnvTawkPropertyID),
		TawkWidgetID:     os.Getenv(EnvTawkWidgetID),
		ClarityProjectID: os.Getenv(EnvClarityProjectID),
	}
}
