package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
)

var ErrUnsupportedType = errors.New("unsupported image type")

// Folders objects are grouped under.
const (
	FolderProducts = "products"
	FolderProfiles = "profiles"
	FolderBranding = "branding"
)

var extensions = map[string]string{
	"image/jpeg":               ".jpg",
	"image/png":                ".png",
	"image/webp":               ".webp",
	"image/gif":                ".gif",
	"image/svg+xml":            ".svg",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Storage uploads images to an S3 compatible bucket and hands back their
// public URL.
type Storage struct {
	client  objectAPI
	bucket  string
	baseURL string
	mylog   logger.Logger
}

func New(ctx context.Context, cfg config.Media, mylog logger.Logger) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return newStorage(s3.NewFromConfig(awsCfg, s3Opts...), cfg, mylog), nil
}

func newStorage(client objectAPI, cfg config.Media, mylog logger.Logger) *Storage {
	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBase(cfg),
		mylog:   mylog,
	}
}

func publicBase(cfg config.Media) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload stores body under folder with a fresh name and returns its URL.
func (s *Storage) Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	key := path.Join(folder, uuid.NewString()+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	url := s.baseURL + "/" + key
	s.mylog.Action("media_uploaded").Debug("Image uploaded", "key", key, "content_type", contentType)
	return url, nil
}

// Delete removes the object behind url. URLs that do not point into this
// bucket are left alone.
func (s *Storage) Delete(ctx context.Context, url string) error {
	key, ok := s.keyOf(url)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Storage) keyOf(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
