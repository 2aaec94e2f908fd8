package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Signer exchanges a storage bucket/path for a time-limited access URL.
type Signer interface {
	SignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error)
}

type S3Signer struct {
	presign *s3.PresignClient
}

var _ Signer = (*S3Signer)(nil)

func NewS3Signer(ctx context.Context, region string) (*S3Signer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Signer{
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *S3Signer) SignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error) {
	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s/%s: %w", bucket, path, err)
	}

	return request.URL, nil
}
