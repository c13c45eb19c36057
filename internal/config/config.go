// Package config reads process settings from the environment and an optional env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

const (
	EnvAPIKey          = "GROQ_API_KEY"
	EnvModel           = "GROQ_MODEL"
	EnvBaseURL         = "GROQ_BASE_URL"
	EnvCredentialsPath = "GOOGLE_CREDENTIALS_PATH"
	DefaultCredentials = "client_secret.json"
)

// ErrMissingAPIKey is returned when the model API key is not configured.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " must be set")

// Config holds the settings needed to reach Gmail and the hosted model.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	CredentialsPath string
}

// Load applies envFile (if not empty) and reads the environment. Variables
// already set in the process take precedence over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	cfg := Config{
		APIKey:          os.Getenv(EnvAPIKey),
		Model:           os.Getenv(EnvModel),
		BaseURL:         os.Getenv(EnvBaseURL),
		CredentialsPath: os.Getenv(EnvCredentialsPath),
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = DefaultCredentials
	}
	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	return cfg, nil
}

// OAuthConfig reads the Google client-secret file and returns a read-only Gmail
// OAuth config redirecting to redirectURL.
func (c Config) OAuthConfig(redirectURL string) (*oauth2.Config, error) {
	b, err := os.ReadFile(c.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) failed: %w", c.CredentialsPath, err)
	}

	oauthCfg, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("google.ConfigFromJSON failed: %w", err)
	}
	oauthCfg.RedirectURL = redirectURL

	return oauthCfg, nil
}
