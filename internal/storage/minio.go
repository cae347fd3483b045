package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"docvault/internal/config"
)

// minioStore implements FileStore using an S3-compatible backend (MinIO, AWS S3, etc.).
// Object keys use the same layout as the local backend so tokens are portable between them.
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client *minio.Client
	bucket string
	now    func() time.Time
	logger zerolog.Logger
}

// NewMinIO creates a new S3-compatible FileStore backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, logger zerolog.Logger) (FileStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStore{
		client: cli,
		bucket: cfg.Bucket,
		now:    time.Now,
		logger: logger.With().Str("component", "storage").Str("backend", "minio").Logger(),
	}, nil
}

// Store uploads an object using streaming I/O only.
func (m *minioStore) Store(ctx context.Context, userID, displayName string, r io.Reader, size int64) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reader is nil")
	}
	key, err := NewLocationToken(userID, displayName, m.now())
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		UserMetadata: map[string]string{"original-filename": displayName},
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	m.logger.Debug().Str("token", key).Int64("size", size).Msg("object stored")
	return key, nil
}

// Load returns the object content as a streaming reader.
func (m *minioStore) Load(ctx context.Context, token string) (io.ReadCloser, error) {
	key, err := cleanToken(token)
	if err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinIOError(err, "get object")
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller starts reading.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, mapMinIOError(err, "stat object")
	}
	return obj, nil
}

// Delete removes an object by key. S3 deletes are idempotent.
func (m *minioStore) Delete(ctx context.Context, token string) error {
	key, err := cleanToken(token)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if mapMinIOError(err, "") == ErrNotFound {
			return nil
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (m *minioStore) Exists(ctx context.Context, token string) (bool, error) {
	key, err := cleanToken(token)
	if err != nil {
		return false, err
	}
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		if mapMinIOError(err, "") == ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("stat object: %w", err)
	}
	return true, nil
}

func mapMinIOError(err error, op string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return ErrNotFound
	case "AccessDenied":
		return ErrPermissionDenied
	}
	return fmt.Errorf("%s: %w", op, err)
}
