// Package receipts stores expense receipt files on S3-compatible object
// storage and hands back public URLs for the expense record.
package receipts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// allowedContentTypes limits what a receipt upload may contain.
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Uploader wraps the S3 client with receipt-specific key layout.
type Uploader struct {
	s3Client *s3.Client
	config   *Config
}

// NewUploader creates the receipt uploader. Returns an error when receipt
// uploads are disabled; callers treat a nil uploader as "feature off".
func NewUploader(cfg *Config) (*Uploader, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("receipt uploads are disabled")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	log.Infof("[Receipts] S3 receipt storage initialized for bucket: %s", cfg.BucketName)
	return &Uploader{s3Client: s3Client, config: cfg}, nil
}

// Upload stores one receipt and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, contentType string, size int64) (string, error) {
	ext, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported receipt content type: %s", contentType)
	}

	now := time.Now()
	objectKey := u.config.ObjectKey(uuid.New().String(), ext, now.Year(), int(now.Month()))

	_, err := u.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt %s: %w", objectKey, err)
	}

	log.Infof("[Receipts] Uploaded receipt %s (%d bytes)", objectKey, size)
	return u.config.ObjectURL(objectKey), nil
}

// Delete removes a stored receipt by its public URL. Unknown URLs are
// ignored so expense deletion never fails on a missing object.
func (u *Uploader) Delete(ctx context.Context, receiptURL string) error {
	idx := strings.Index(receiptURL, "receipts/")
	if idx < 0 {
		return nil
	}
	objectKey := receiptURL[idx:]

	_, err := u.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete receipt %s: %w", objectKey, err)
	}
	return nil
}
