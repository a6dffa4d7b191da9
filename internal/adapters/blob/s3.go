package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"guestlist/internal/domain"
)

// Store implements domain.ImageStore on an S3-compatible backend (AWS S3 or
// MinIO). Single bucket; object keys are content-addressed so re-uploads of
// the same image are idempotent.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

var _ domain.ImageStore = (*Store)(nil)

// Config holds explicit construction parameters.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional custom endpoint (e.g. MinIO)
	PathStyle bool
	// PublicBaseURL is the URL prefix returned to callers. Defaults to the
	// virtual-hosted AWS URL for the bucket and region.
	PublicBaseURL string
}

// New creates an S3 image store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	return &Store{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// NewNoop returns an image store that accepts any supported image and returns
// a placeholder URL without persisting anything. Used when no bucket is
// configured, mirroring the noop mailer.
func NewNoop() domain.ImageStore {
	return noopStore{}
}

type noopStore struct{}

func (noopStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q: %w", contentType, domain.ErrInvalidInput)
	}
	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	sum := sha256.Sum256(data)
	return "noop://images/" + hex.EncodeToString(sum[:]) + ext, nil
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload stores the blob and returns its stable public URL.
func (s *Store) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q: %w", contentType, domain.ErrInvalidInput)
	}
	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	sum := sha256.Sum256(data)
	key := "images/" + hex.EncodeToString(sum[:]) + ext

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}
