package receipts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cfg := &Config{}
	key := cfg.ObjectKey("ab12", ".pdf", 2026, 3)
	assert.Equal(t, "receipts/2026/03/ab12.pdf", key)
}

func TestObjectURLPrefersPublicBaseURL(t *testing.T) {
	cfg := &Config{
		PublicBaseURL: "https://cdn.example.com",
		EndpointURL:   "https://minio.internal:9000",
		BucketName:    "receipts",
		Region:        "ap-south-1",
	}
	assert.Equal(t, "https://cdn.example.com/receipts/2026/03/x.png", cfg.ObjectURL("receipts/2026/03/x.png"))
}

func TestObjectURLCustomEndpoint(t *testing.T) {
	cfg := &Config{
		EndpointURL: "https://minio.internal:9000/",
		BucketName:  "band-receipts",
	}
	assert.Equal(t, "https://minio.internal:9000/band-receipts/receipts/2026/03/x.png", cfg.ObjectURL("receipts/2026/03/x.png"))
}

func TestObjectURLDefaultsToVirtualHostedS3(t *testing.T) {
	cfg := &Config{
		BucketName: "band-receipts",
		Region:     "ap-south-1",
	}
	assert.Equal(t, "https://band-receipts.s3.ap-south-1.amazonaws.com/receipts/2026/03/x.png", cfg.ObjectURL("receipts/2026/03/x.png"))
}
