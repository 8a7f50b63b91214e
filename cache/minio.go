package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/teresajurado/specslope/logging"
	"github.com/teresajurado/specslope/specslope"
)

// ObjectStoreConfig configures access to an S3-compatible object store.
type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint"` // host:port, no scheme
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"use_ssl"`
}

// ObjectStore keeps one object per key in a single bucket of an
// S3-compatible store such as MinIO.
type ObjectStore struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewObjectStore connects to the configured endpoint and verifies that the
// bucket exists.
func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logging.WithFields(logging.Fields{
			"component": "cache",
			"backend":   "object",
			"bucket":    cfg.Bucket,
		}),
	}, nil
}

func objectName(key string) string {
	return key + recordSuffix
}

// Load fetches and decodes the object for key. A missing object reports
// specslope.ErrCacheMiss.
func (s *ObjectStore) Load(ctx context.Context, key string) (*specslope.SlopeSeries, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching cache object: %w", err)
	}
	defer obj.Close()

	// GetObject is lazy: a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", specslope.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("reading cache object: %w", err)
	}
	return decodeSeries(data)
}

// Save encodes series and replaces any existing object for key.
func (s *ObjectStore) Save(ctx context.Context, key string, series *specslope.SlopeSeries) error {
	data, err := encodeSeries(series)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName(key),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("storing cache object: %w", err)
	}

	s.logger.Debug("cache object written", logging.Fields{
		"key":   key,
		"bytes": len(data),
	})
	return nil
}

var _ specslope.ResultStore = (*ObjectStore)(nil)
