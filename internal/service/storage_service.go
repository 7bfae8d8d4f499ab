package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PhotoStorage persists uploaded profile photos in object storage and
// returns a public reference to the stored object.
type PhotoStorage interface {
	UploadPhoto(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (string, error)
}

// S3PhotoStorage uploads profile photos to Amazon S3
type S3PhotoStorage struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3PhotoStorage creates a new S3-backed photo store
func NewS3PhotoStorage(ctx context.Context, awsRegion, bucket, baseURL string) (*S3PhotoStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3PhotoStorage{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// UploadPhoto stores the photo under profile-photos/<userID>/<uuid><ext>
// and returns its public URL.
func (s *S3PhotoStorage) UploadPhoto(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("profile-photos/%d/%s%s", userID, uuid.New().String(), ext)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

var _ PhotoStorage = (*S3PhotoStorage)(nil)

// DisabledPhotoStorage stands in when no bucket is configured; every
// upload fails with a stable error so the form shows a clear message.
type DisabledPhotoStorage struct{}

func (DisabledPhotoStorage) UploadPhoto(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (string, error) {
	return "", fmt.Errorf("photo storage is not configured")
}

var _ PhotoStorage = DisabledPhotoStorage{}
