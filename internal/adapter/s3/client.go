// Package s3 fetches the wildfire dataset object from S3 or an
// S3-compatible object store.
package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
)

// ClientConfig identifies the dataset object.
type ClientConfig struct {
	Bucket string
	Key    string
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores and
	// tests. Empty means real AWS. Non-empty forces path-style addressing,
	// which such stores generally require.
	Endpoint string
}

// Client implements dataset.Fetcher against an S3 object. Credentials come
// from the default AWS chain (env, shared config, instance role).
type Client struct {
	cfg    ClientConfig
	api    *awss3.S3
	logger *slog.Logger
}

// NewClient creates an S3 dataset fetcher.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &Client{
		cfg:    cfg,
		api:    awss3.New(sess),
		logger: logger,
	}, nil
}

// Fetch downloads the dataset object into memory.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	out, err := c.api.GetObjectWithContext(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(c.cfg.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}

	c.logger.Debug("fetched dataset object",
		"bucket", c.cfg.Bucket,
		"key", c.cfg.Key,
		"bytes", len(data),
	)
	return data, nil
}

// Source identifies the object for logs and errors.
func (c *Client) Source() string {
	return "s3://" + c.cfg.Bucket + "/" + c.cfg.Key
}
