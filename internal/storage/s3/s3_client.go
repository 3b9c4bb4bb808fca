package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fileservice/internal/config"
	"fileservice/internal/port"
)

type s3Client struct {
	client *s3.Client
}

// NewS3Client creates a new S3-backed ObjectStorage implementation from
// static credentials. The returned client is shared by all requests.
func NewS3Client(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &s3Client{client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// Upload issues exactly one PutObject. Provider errors are returned as-is so
// their message reaches the caller.
func (c *s3Client) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:        aws.String(input.Bucket),
		Key:           aws.String(input.Key),
		Body:          input.Body,
		ContentLength: aws.Int64(input.Size),
	}
	if input.ContentType != "" {
		put.ContentType = aws.String(input.ContentType)
	}

	result, err := c.client.PutObject(ctx, put)
	if err != nil {
		return nil, err
	}

	return &port.UploadOutput{ETag: aws.ToString(result.ETag)}, nil
}

func (c *s3Client) Ping(ctx context.Context, bucket string) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}
