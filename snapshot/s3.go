package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/erraggy/o2t/o2terrors"
)

// DefaultS3Region is used when S3Config.Region is empty.
const DefaultS3Region = "us-east-1"

// S3Config configures an S3Store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to the object name, normally the package name.
	Prefix string
	UseSSL bool
}

// S3Store keeps the snapshot as an object in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
	key    string

	initOnce sync.Once
	initErr  error
}

// NewS3Store validates cfg and creates the client. No request is made until
// the first Load or Save.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, &o2terrors.ConfigError{Option: "s3 endpoint", Message: "endpoint is required"}
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, &o2terrors.ConfigError{Option: "s3 credentials", Message: "access key and secret key are required"}
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, &o2terrors.ConfigError{Option: "s3 bucket", Message: "bucket is required"}
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = DefaultS3Region
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, &o2terrors.ConfigError{Option: "s3 endpoint", Value: endpoint, Cause: err}
	}

	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
		key:    objectKey(cfg.Prefix),
	}, nil
}

var _ Store = (*S3Store)(nil)

// Key returns the object name the snapshot is stored under.
func (s *S3Store) Key() string { return s.key }

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Load implements Store. A missing object or bucket is ErrNotFound.
func (s *S3Store) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.loadErr(err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.loadErr(err)
	}
	return data, nil
}

func (s *S3Store) loadErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return storeErr(BackendS3, "load", err)
}

// Save implements Store. The bucket is created on first use.
func (s *S3Store) Save(ctx context.Context, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return storeErr(BackendS3, "save", fmt.Errorf("ensure bucket: %w", err))
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return storeErr(BackendS3, "save", err)
	}
	return nil
}

// Close implements Store.
func (s *S3Store) Close() error { return nil }

func objectKey(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return DefaultFileName
	}
	return prefix + "/" + DefaultFileName
}
