package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidtube/domain/model"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/metrics"
)

// ErrForeignRef is returned by Delete for a URL this store did not issue.
var ErrForeignRef = errors.New("media reference does not belong to this store")

type IMediaStorage interface {
	Store(ctx context.Context, localPath string, kind model.MediaKind) (*model.Media, error)
	Delete(ctx context.Context, ref string) error
}

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
	Timeout       time.Duration
}

type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	timeout time.Duration
	prober  IProber
}

func NewMinioStorage(ctx context.Context, opts Options, prober IProber) (IMediaStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}

	s := &MinioStorage{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		timeout: opts.Timeout,
		prober:  prober,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"endpoint": opts.Endpoint,
		"bucket":   opts.Bucket,
	}).Info("Connect Minio Success")
	return s, nil
}

func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ObjectKey names a new object: <kind>/<uuid><ext>.
func ObjectKey(kind model.MediaKind, localPath string) string {
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), strings.ToLower(filepath.Ext(localPath)))
}

// KeyFromURL recovers the object key from a public URL issued under baseURL.
func KeyFromURL(baseURL, ref string) (string, error) {
	base := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(ref, base) {
		return "", ErrForeignRef
	}
	key, err := url.PathUnescape(strings.TrimPrefix(ref, base))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignRef, err)
	}
	key = path.Clean(key)
	if key == "." || strings.HasPrefix(key, "../") {
		return "", ErrForeignRef
	}
	return key, nil
}

func (s *MinioStorage) Store(ctx context.Context, localPath string, kind model.MediaKind) (media *model.Media, err error) {
	defer metrics.Upstream("storage", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := ObjectKey(kind, localPath)
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	media = &model.Media{
		URL:  s.baseURL + "/" + key,
		Key:  key,
		Size: info.Size,
	}
	if kind == model.MediaVideo && s.prober != nil {
		duration, perr := s.prober.Duration(ctx, localPath)
		if perr != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"key":   key,
				"error": perr,
			}).Warn("Could not read media duration")
		}
		media.Duration = duration
	}
	return media, nil
}

func (s *MinioStorage) Delete(ctx context.Context, ref string) (err error) {
	defer metrics.Upstream("storage", time.Now(), &err)

	key, err := KeyFromURL(s.baseURL, ref)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
