package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	awscredentials "github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/config"
)

// objectStore is the bucket backend: MinIO when configured, AWS S3 otherwise.
type objectStore interface {
	put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	remove(ctx context.Context, key string) error
	ensureBucket(ctx context.Context) error
	// baseURL is the public prefix of every object, ending in "/".
	baseURL() string
}

// StorageService stores report attachments (screenshots) in object storage.
type StorageService struct {
	cfg   *config.Config
	store objectStore
	log   *logrus.Entry
}

func NewStorageService(cfg *config.Config, log *logrus.Logger) (*StorageService, error) {
	var (
		store objectStore
		err   error
	)
	if cfg.MinIOEndpoint != "" {
		store, err = newMinIOStore(cfg)
	} else {
		store, err = newS3Store(cfg)
	}
	if err != nil {
		return nil, err
	}
	return newStorageService(cfg, store, log), nil
}

func newStorageService(cfg *config.Config, store objectStore, log *logrus.Logger) *StorageService {
	return &StorageService{cfg: cfg, store: store, log: log.WithField("service", "storage")}
}

// EnsureBucket creates the attachment bucket if it is missing.
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	return s.store.ensureBucket(ctx)
}

// UploadAttachment validates and stores an image uploaded by userID, returning its public URL.
func (s *StorageService) UploadAttachment(ctx context.Context, userID string, file io.Reader, size int64, filename, contentType string) (string, error) {
	if size <= 0 || size > s.cfg.MaxFileSize {
		return "", InvalidRequest("file must be between 1 byte and %d bytes", s.cfg.MaxFileSize)
	}
	if !lo.Contains(s.cfg.AllowedImageTypes, contentType) {
		return "", InvalidRequest("file type %q is not allowed", contentType)
	}

	key := attachmentKey(userID, filename)
	if err := s.store.put(ctx, key, file, size, contentType); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "key": key}).Error("failed to upload attachment")
		return "", Internal(err)
	}
	return s.store.baseURL() + key, nil
}

// DeleteAttachment removes an object previously returned by UploadAttachment.
func (s *StorageService) DeleteAttachment(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return fmt.Errorf("invalid file URL")
	}
	return s.store.remove(ctx, key)
}

// OwnsURL reports whether url points into the attachment bucket.
func (s *StorageService) OwnsURL(url string) bool {
	_, ok := s.keyFromURL(url)
	return ok
}

func (s *StorageService) keyFromURL(url string) (string, bool) {
	key := strings.TrimPrefix(url, s.store.baseURL())
	if key == url || key == "" {
		return "", false
	}
	return key, true
}

func attachmentKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("reports/%s/%s%s", userID, uuid.NewString(), ext)
}

type minioStore struct {
	client *minio.Client
	cfg    *config.Config
}

func newMinIOStore(cfg *config.Config) (*minioStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &minioStore{client: client, cfg: cfg}, nil
}

func (m *minioStore) put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.cfg.S3Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return nil
}

func (m *minioStore) remove(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.cfg.S3Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete from MinIO: %w", err)
	}
	return nil
}

func (m *minioStore) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.S3Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.cfg.S3Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create MinIO bucket: %w", err)
	}
	return nil
}

func (m *minioStore) baseURL() string {
	protocol := "http"
	if m.cfg.MinIOUseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", protocol, m.cfg.MinIOEndpoint, m.cfg.S3Bucket)
}

type s3Store struct {
	client *s3.S3
	cfg    *config.Config
}

func newS3Store(cfg *config.Config) (*s3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: awscredentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &s3Store{client: s3.New(sess), cfg: cfg}, nil
}

func (s *s3Store) put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(io.LimitReader(r, size))
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		body = bytes.NewReader(data)
	}
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *s3Store) remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *s3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.cfg.S3Bucket),
	})
	if err != nil && !strings.Contains(err.Error(), s3.ErrCodeBucketAlreadyOwnedByYou) {
		return fmt.Errorf("failed to create S3 bucket: %w", err)
	}
	return nil
}

func (s *s3Store) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.cfg.S3Bucket, s.cfg.AWSRegion)
}
