package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tnicklin/screambot/logger"
)

var _ Accessor = (*S3Accessor)(nil)

// ObjectGetter is the subset of the S3 client used by S3Accessor.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Accessor reads resources as objects from a single bucket. It never
// reports changes.
type S3Accessor struct {
	bucket string
	client ObjectGetter
	logger logger.Logger
}

// S3Params holds configuration for creating an S3Accessor.
type S3Params struct {
	Bucket string
	Client ObjectGetter
	Logger logger.Logger
}

// NewS3 creates an S3Accessor.
func NewS3(p S3Params) *S3Accessor {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &S3Accessor{
		bucket: p.Bucket,
		client: p.Client,
		logger: log,
	}
}

// NewS3Client builds an S3 client from cfg. Static credentials are used
// when both keys are set, otherwise the default chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (a *S3Accessor) Access(ctx context.Context, name string, onChange func()) ([]byte, error) {
	if onChange != nil {
		a.logger.DebugW("hot reload is not available for remote resources", "name", name)
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, &AccessError{Name: name, Err: err}
	}
	if out.Body == nil {
		return nil, &AccessError{Name: name, Err: ErrEmpty}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &AccessError{Name: name, Err: err}
	}
	if len(body) == 0 {
		return nil, &AccessError{Name: name, Err: ErrEmpty}
	}
	return body, nil
}

func (a *S3Accessor) Close() error { return nil }
