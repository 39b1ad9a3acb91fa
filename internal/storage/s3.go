// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage publishes render contexts to S3-compatible object storage.
// It wraps the AWS SDK v2 and is configured for path-style access (required
// by CEPH/Hetzner).
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const contentTypeJSON = "application/json"

// Client uploads render contexts as JSON objects into a single bucket.
// It implements publish.Sink.
type Client struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint, credentials or bucket are empty, allowing a pass
// to run without object storage.
func New(endpoint, region, accessKey, secretKey, bucket, prefix string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:     s3Client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Bucket returns the target bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// ObjectKey returns the object key a context key is stored under:
// <prefix>/<key>.json, or <key>.json without a prefix.
func (c *Client) ObjectKey(key string) string {
	if c.prefix == "" {
		return key + ".json"
	}
	return path.Join(c.prefix, key+".json")
}

// Put encodes v as JSON and uploads it under the object key for key.
func (c *Client) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	objectKey := c.ObjectKey(key)
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeJSON),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, objectKey, err)
	}
	slog.Debug("context uploaded", "bucket", c.bucket, "key", objectKey, "bytes", len(data))
	return nil
}

// Get downloads the JSON stored for a context key.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := c.ObjectKey(key)
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", c.bucket, objectKey, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", c.bucket, objectKey, err)
	}
	return data, nil
}

// Delete removes the object stored for a context key.
func (c *Client) Delete(ctx context.Context, key string) error {
	objectKey := c.ObjectKey(key)
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, objectKey, err)
	}
	return nil
}
