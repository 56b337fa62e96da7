package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"kitchenops/internal/config"
)

const (
	s3KeyPrefix        = "exports/"
	metaFileName       = "file-name"
	metaExpiresAt      = "expires-at"
	s3ExpiryTimeLayout = time.RFC3339
)

// S3Store keeps artifacts in an S3 compatible bucket (AWS, R2, MinIO). The TTL is recorded
// as object metadata and enforced on read; bucket lifecycle rules do the actual cleanup.
type S3Store struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

// NewS3Store builds a client from cfg. Static credentials are used when both keys are set,
// otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg config.ExportsConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("exports: s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("exports: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.S3Bucket, now: time.Now}, nil
}

func (s *S3Store) Put(ctx context.Context, artifact Artifact, ttl time.Duration) (string, error) {
	if err := checkArtifact(artifact, ttl); err != nil {
		return "", err
	}

	token := newToken()
	key := s3Key(token)
	expiresAt := s.now().Add(ttl).UTC()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(artifact.Data),
		ContentLength: aws.Int64(int64(len(artifact.Data))),
		ContentType:   aws.String(artifact.ContentType),
		Expires:       aws.Time(expiresAt),
		Metadata:      objectMetadata(artifact, expiresAt),
	})
	if err != nil {
		return "", fmt.Errorf("exports: put object: %w", err)
	}
	return token, nil
}

func (s *S3Store) Get(ctx context.Context, token string) (Artifact, error) {
	if !validToken(token) {
		return Artifact{}, ErrNotFound
	}

	key := s3Key(token)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, fmt.Errorf("exports: get object: %w", err)
	}
	defer out.Body.Close()

	fileName, expiresAt := parseMetadata(out.Metadata)
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		return Artifact{}, ErrNotFound
	}

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Artifact{}, fmt.Errorf("exports: read object: %w", err)
	}

	return Artifact{
		FileName:    fileName,
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
	}, nil
}

func s3Key(token string) string {
	return s3KeyPrefix + token
}

func objectMetadata(artifact Artifact, expiresAt time.Time) map[string]string {
	return map[string]string{
		metaFileName:  url.QueryEscape(artifact.FileName),
		metaExpiresAt: expiresAt.Format(s3ExpiryTimeLayout),
	}
}

func parseMetadata(meta map[string]string) (string, time.Time) {
	fileName, err := url.QueryUnescape(meta[metaFileName])
	if err != nil {
		fileName = meta[metaFileName]
	}
	expiresAt, err := time.Parse(s3ExpiryTimeLayout, meta[metaExpiresAt])
	if err != nil {
		expiresAt = time.Time{}
	}
	return fileName, expiresAt
}
