package s3client

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Bucket          string `yaml:"bucket"`
}

// Enabled reports whether archiving was configured at all.
func (c *Config) Enabled() bool {
	return c != nil && c.Endpoint != "" && c.Bucket != ""
}

// Client archives synthesized audio into a single bucket.
type Client struct {
	cfg     *Config
	minio   *minio.Client
	ensured atomic.Bool
}

func New(cfg *Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		cfg:   cfg,
		minio: mc,
	}, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	if c.ensured.Load() {
		return nil
	}

	exists, err := c.minio.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", c.cfg.Bucket, err)
	}

	if !exists {
		if err := c.minio.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.cfg.Bucket, err)
		}
	}

	c.ensured.Store(true)

	return nil
}

// PutAudio stores reader under objectName and returns the object's bucket/key location.
func (c *Client) PutAudio(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}

	info, err := c.minio.PutObject(ctx, c.cfg.Bucket, objectName, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to put %s: %w", objectName, err)
	}

	return info.Bucket + "/" + info.Key, nil
}
