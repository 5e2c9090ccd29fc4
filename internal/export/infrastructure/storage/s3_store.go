package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wyfcoding/catalogexport/internal/export/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// s3Store 基于 S3 的目录产物存储实现
type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store 创建 S3 产物存储，桶名缺失视为启动期配置错误
func NewS3Store(awsCfg aws.Config, bucket, endpoint string) (domain.ArtifactStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is missing from configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// 自定义端点（localstack/minio）通常不支持虚拟主机寻址
			o.UsePathStyle = true
		}
	})

	return &s3Store{client: client, bucket: bucket}, nil
}

// PutCatalog 覆盖写入 owner 的目录产物
func (s *s3Store) PutCatalog(ctx context.Context, ownerID string, data []byte) error {
	key := domain.ArtifactKey(ownerID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload catalog to s3: %w", err)
	}

	logger.Debug(ctx, "Catalog artifact uploaded", "bucket", s.bucket, "key", key)
	return nil
}

// GetCatalog 读取 owner 的目录产物
func (s *s3Store) GetCatalog(ctx context.Context, ownerID string) ([]byte, error) {
	key := domain.ArtifactKey(ownerID)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to download catalog from s3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}
	return data, nil
}
