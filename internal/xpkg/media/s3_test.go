package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/logger"
)

type fakeS3 struct {
	puts    map[string]string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadAndDelete(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	s := newStorage(fake, config.Media{Bucket: "img", PublicURL: "https://cdn.example.com/img/"}, logger.NewNop())

	url, err := s.Upload(context.Background(), FolderProducts, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://cdn.example.com/img/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, "https://cdn.example.com/img/")
	assert.Equal(t, "png-bytes", fake.puts[key])

	require.NoError(t, s.Delete(context.Background(), url))
	assert.Equal(t, []string{key}, fake.deletes)
}

func TestDelete_IgnoresForeignURLs(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	s := newStorage(fake, config.Media{Bucket: "img", PublicURL: "https://cdn.example.com/img"}, logger.NewNop())

	require.NoError(t, s.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/x.jpg"))
	require.NoError(t, s.Delete(context.Background(), ""))
	assert.Empty(t, fake.deletes)
}

func TestUpload_RejectsUnknownType(t *testing.T) {
	s := newStorage(&fakeS3{puts: map[string]string{}}, config.Media{Bucket: "img"}, logger.NewNop())

	_, err := s.Upload(context.Background(), FolderProfiles, "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUpload_PropagatesStorageError(t *testing.T) {
	s := newStorage(&fakeS3{err: errors.New("denied")}, config.Media{Bucket: "img"}, logger.NewNop())

	_, err := s.Upload(context.Background(), FolderBranding, "image/jpeg", strings.NewReader("jpg"))
	assert.Error(t, err)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "http://minio:9000/img", publicBase(config.Media{Bucket: "img", Endpoint: "http://minio:9000/"}))
	assert.Equal(t, "https://img.s3.eu-west-3.amazonaws.com", publicBase(config.Media{Bucket: "img", Region: "eu-west-3"}))
}
