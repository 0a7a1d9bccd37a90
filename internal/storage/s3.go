package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/odyssey-travel/odyssey-backend/config"
)

// S3Storage stores uploaded photos and documents in an S3-compatible bucket.
// The content type is sniffed from the payload, never trusted from the
// client.
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Storage creates an S3Storage from config. A custom endpoint makes it
// work against R2, MinIO and other S3-compatible stores; without static keys
// the default AWS credential chain is used.
func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	opts := s3.Options{
		Region: cfg.Region,
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		// Path-style keeps custom endpoints working without wildcard DNS.
		opts.UsePathStyle = true
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load aws credentials: %w", err)
		}
		opts.Credentials = awsCfg.Credentials
		if cfg.Region == "" && awsCfg.Region != "" {
			opts.Region = awsCfg.Region
		}
	}

	publicBaseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		if cfg.Endpoint != "" {
			publicBaseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, opts.Region)
		}
	}

	return &S3Storage{
		client:        s3.New(opts),
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

// Upload stores the payload under key and returns its public URL and sniffed
// content type.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte) (string, string, error) {
	if err := validateKey(key); err != nil {
		return "", "", err
	}

	contentType := mimetype.Detect(data).String()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("s3 put object failed: %w", err)
	}

	return s.publicBaseURL + "/" + key, contentType, nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs outside this bucket are rejected.
func (s *S3Storage) Delete(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object failed: %w", err)
	}
	return nil
}

func (s *S3Storage) keyFromURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, s.publicBaseURL+"/") {
		return "", fmt.Errorf("url does not belong to this bucket")
	}
	key := strings.TrimPrefix(rawURL, s.publicBaseURL+"/")
	key, err := url.PathUnescape(key)
	if err != nil {
		return "", fmt.Errorf("malformed object url: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("malformed object url")
	}
	return key, validateKey(key)
}
