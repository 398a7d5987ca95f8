// Package imagesearch provides a client for the image search API used to
// list and download source images for a scan.
package imagesearch

import (
	"fmt"
	"os"
	"time"

	"inventory_backend/internal/feature/inventory/domain"
)

// Environment variable keys for the image search API.
const (
	EnvKeySearchAPIKey  = "SEARCH_API_KEY"
	EnvKeySearchBaseURL = "SEARCH_BASE_URL"
)

// Config holds configuration for the image search API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the search API
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads image search configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv(EnvKeySearchAPIKey),
		BaseURL: os.Getenv(EnvKeySearchBaseURL),
		Timeout: 10 * time.Second,
	}
}

// Validate reports a configuration error when a required value is missing.
// The scan pipeline treats this as fatal before any source is processed.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: %s is not set", domain.ErrConfiguration, EnvKeySearchAPIKey)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: %s is not set", domain.ErrConfiguration, EnvKeySearchBaseURL)
	}
	return nil
}
