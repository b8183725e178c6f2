package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/clausecloud/backend/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService keeps original uploads in object storage so the source
// document survives beyond the extracted text. The analysis pipeline never
// depends on it; callers treat archival errors as non-fatal.
type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.ArchiveConfig
}

// NewArchiveService creates the archive client
func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// StoreUpload archives a raw upload under the contract's identifier and
// returns a presigned URL to retrieve it.
func (s *ArchiveService) StoreUpload(ctx context.Context, contractID, filename string, content []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("contracts/%s/%s", contractID, filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteUpload removes an archived upload
func (s *ArchiveService) DeleteUpload(ctx context.Context, contractID, filename string) error {
	objectName := fmt.Sprintf("contracts/%s/%s", contractID, filename)
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete archived upload: %w", err)
	}
	return nil
}
