package publish

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/thirukguru/yolo-workbench/model"
)

// S3ClientAPI is the interface for the AWS S3 client methods used by the service.
type S3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type service struct {
	client S3ClientAPI
	bucket string
	prefix string
}

// Service is the interface for publishing exported artifacts.
type Service interface {
	Upload(ctx context.Context, results []model.ExportResult) ([]model.ExportResult, error)
}
