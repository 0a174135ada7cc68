// Package storage provides an S3-compatible object storage client for the
// uploaded image bucket. It wraps the AWS SDK v2 and is configured for
// path-style access so MinIO and CEPH endpoints work unchanged.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps an S3 client for a single image bucket. Images are uploaded
// privately and streamed back through the API, so no ACLs or presigning
// are involved.
type Client struct {
	s3     *s3.Client
	bucket string
}

// Object is a streamed image read back from the bucket. The caller owns
// Body and must close it.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	ETag          string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
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
	}, nil
}

// Upload stores an image in the bucket.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Open retrieves an image for streaming. The caller must close Body.
func (c *Client) Open(ctx context.Context, key string) (*Object, error) {
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 open %s/%s: %w", c.bucket, key, err)
	}

	obj := &Object{Body: output.Body}
	if output.ContentType != nil {
		obj.ContentType = *output.ContentType
	}
	if output.ContentLength != nil {
		obj.ContentLength = *output.ContentLength
	}
	if output.ETag != nil {
		obj.ETag = *output.ETag
	}
	return obj, nil
}

// Delete removes an image from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}
