package reportvault

import (
	"errors"
	"fmt"

	"github.com/finsightlabs/finsight/internal/pkg/env"
)

// Config holds report vault (S3-compatible) configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads vault configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("VAULT_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("VAULT_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("VAULT_S3_REGION", "ap-south-1"),
		BucketName:      env.GetEnv("VAULT_S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("VAULT_S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("VAULT_S3_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("VAULT_S3_ACCESS_KEY_ID is required when the report vault is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("VAULT_S3_SECRET_ACCESS_KEY is required when the report vault is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("VAULT_S3_BUCKET_NAME is required when the report vault is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if the report vault is configured
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// GetObjectKey generates a standardized object key for a report document.
// Format: reports/YYYY/MM/slug.pdf
func (c *Config) GetObjectKey(slug string, year, month int) string {
	return fmt.Sprintf("reports/%04d/%02d/%s.pdf", year, month, slug)
}
