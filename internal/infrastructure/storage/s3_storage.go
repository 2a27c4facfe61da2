package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	infraconfig "github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

var _ catalogapp.ImageUploader = (*S3ObjectStorage)(nil)

// Object names are unique per upload, so a cached copy never goes stale
const immutableCacheControl = "public, max-age=31536000, immutable"

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3ObjectStorage keeps images in an S3 compatible bucket (AWS, MinIO, R2)
// that is served publicly from a base URL, usually a CDN in front of it.
type S3ObjectStorage struct {
	client  s3API
	bucket  string
	root    string
	baseURL string
	opts    options
}

// NewS3ObjectStorage builds the client from static credentials. Endpoint is
// only set for non-AWS providers.
func NewS3ObjectStorage(cfg *infraconfig.StorageConfig, opts ...Option) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	var missing []error
	for name, value := range map[string]string{
		"bucket":          cfg.Bucket,
		"access key":      cfg.AccessKey,
		"secret key":      cfg.SecretKey,
		"public base URL": cfg.PublicBaseURL,
	} {
		if value == "" {
			missing = append(missing, fmt.Errorf("storage %s is required", name))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newS3ObjectStorage(client, cfg.Bucket, cfg.Folder, cfg.PublicBaseURL, opts...), nil
}

func newS3ObjectStorage(client s3API, bucket, root, baseURL string, opts ...Option) *S3ObjectStorage {
	return &S3ObjectStorage{
		client:  client,
		bucket:  bucket,
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    newOptions(opts),
	}
}

// normalizeEndpoint gives a bare host a scheme chosen by useSSL
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", endpoint)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket when HEAD reports it missing
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.opts.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores data under <root>/<folder>/<unique name><ext>
func (s *S3ObjectStorage) Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}

	key := joinFolder(s.root, folder, objectName(filename, s.opts.now())+extension(filename))
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(immutableCacheControl),
	}); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	s.opts.logger.Debug("Image uploaded",
		zap.String("provider", ProviderS3),
		zap.String("bucket", s.bucket),
		zap.String("key", key))
	return s.baseURL + "/" + key, nil
}

// Delete removes an object by the URL Upload returned for it
func (s *S3ObjectStorage) Delete(ctx context.Context, imageURL string) error {
	key, ok := strings.CutPrefix(imageURL, s.baseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%s is not served from bucket %s", imageURL, s.bucket)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}
