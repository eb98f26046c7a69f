package receipts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gigbookhq/gigbook/internal/pkg/env"
)

// Config holds the S3 settings for expense receipt storage.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN/public host for stored receipts
	Enabled         bool
}

// LoadConfig loads the receipt storage configuration from environment
// variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "ap-south-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		Enabled:         env.GetEnv("RECEIPT_UPLOADS_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when receipt uploads are enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when receipt uploads are enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when receipt uploads are enabled")
		}
	}

	return config, nil
}

func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey builds the canonical key for a stored receipt.
// Format: receipts/YYYY/MM/UUID.ext
func (c *Config) ObjectKey(receiptUUID, fileExtension string, year, month int) string {
	return fmt.Sprintf("receipts/%04d/%02d/%s%s", year, month, receiptUUID, fileExtension)
}

// ObjectURL returns the public URL for a stored receipt key.
func (c *Config) ObjectURL(objectKey string) string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL + "/" + objectKey
	}
	if c.EndpointURL != "" {
		return strings.TrimRight(c.EndpointURL, "/") + "/" + c.BucketName + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, objectKey)
}
