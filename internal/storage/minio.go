package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/linskybing/formbuilder-go/internal/config"
	"github.com/linskybing/formbuilder-go/internal/logger"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioStore struct {
	client *minioSDK.Client
	bucket string
}

// NewMinioStore connects to MinIO and creates the export bucket when missing.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minioSDK.New(cfg.MinioEndpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.L().Info("bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStore) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object name cannot be empty")
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minioSDK.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minioSDK.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minioSDK.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *MinioStore) DeleteObject(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minioSDK.RemoveObjectOptions{})
}
