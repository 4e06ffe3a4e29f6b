// Package publish uploads exported model artifacts to S3.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
)

// NewService creates a new S3 publisher.
func NewService(awsconfig aws.Config, bucket, prefix string) Service {
	return newWithClient(s3.NewFromConfig(awsconfig), bucket, prefix)
}

func newWithClient(client S3ClientAPI, bucket, prefix string) Service {
	return &service{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Upload puts every exported artifact under s3://bucket/prefix and sets Remote.
// A failed upload is recorded on its result; the rest continue.
func (s *service) Upload(ctx context.Context, results []model.ExportResult) ([]model.ExportResult, error) {
	if s.bucket == "" {
		return results, fmt.Errorf("bucket is required")
	}

	out := make([]model.ExportResult, len(results))
	copy(out, results)

	for i := range out {
		if out[i].Status != model.ExportExported {
			continue
		}
		key := s.objectKey(out[i].Artifact)
		if err := s.put(ctx, out[i].Artifact, key); err != nil {
			logger.L().Warn("upload failed", zap.String("artifact", out[i].Artifact), zap.Error(err))
			out[i].Error = fmt.Sprintf("upload failed: %v", err)
			continue
		}
		out[i].Remote = fmt.Sprintf("s3://%s/%s", s.bucket, key)
	}
	return out, nil
}

func (s *service) objectKey(artifact string) string {
	name := filepath.Base(artifact)
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *service) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/octet-stream"),
	})
	return err
}
