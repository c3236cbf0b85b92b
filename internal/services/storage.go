package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotArchiver keeps a copy of every page that was parsed
type SnapshotArchiver interface {
	Archive(ctx context.Context, markup string) (string, error)
}

// StorageService archives page snapshots in S3-compatible storage
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
	now        func() time.Time
}

// UploadResult contains information about an uploaded object
type UploadResult struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
		now:        time.Now,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Archive uploads the page markup and returns its object key
func (s *StorageService) Archive(ctx context.Context, markup string) (string, error) {
	key := SnapshotKey(s.now(), uuid.NewString())
	if _, err := s.Upload(ctx, key, markup, "text/html; charset=utf-8"); err != nil {
		return "", err
	}
	return key, nil
}

// Upload stores body under key
func (s *StorageService) Upload(ctx context.Context, key, body, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return &UploadResult{
		Bucket:      info.Bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// SnapshotKey builds the object key of a snapshot taken at t
func SnapshotKey(t time.Time, id string) string {
	return fmt.Sprintf("nfe/%04d/%02d/%s.html", t.Year(), int(t.Month()), id)
}

// GetBucketName returns the bucket name
func (s *StorageService) GetBucketName() string {
	return s.bucketName
}
