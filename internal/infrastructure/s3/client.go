package s3infra

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the part of the S3 client the Store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Object describes a single upload.
type Object struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	// ChecksumSHA256 is the base64 SHA-256 of Body; S3 rejects the upload on mismatch.
	ChecksumSHA256 string
}

// Store wraps S3 operations for the application. Every object is written
// with server-side encryption.
type Store struct {
	client ObjectAPI
	bucket string
}

// NewClient creates an S3 client. When endpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, endpointURL string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		}
	})
}

// NewStore creates a Store with the given S3 client and bucket name.
func NewStore(client ObjectAPI, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Encryption is the server-side encryption algorithm applied to uploads.
func (s *Store) Encryption() string {
	return string(types.ServerSideEncryptionAes256)
}

// Upload streams obj to S3 and returns its object URL.
func (s *Store) Upload(ctx context.Context, obj Object) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(obj.Key),
		Body:                 obj.Body,
		ContentLength:        aws.Int64(obj.Size),
		ContentType:          aws.String(contentTypeOr(obj.ContentType)),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}
	if obj.ChecksumSHA256 != "" {
		in.ChecksumSHA256 = aws.String(obj.ChecksumSHA256)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, obj.Key), nil
}

// Delete removes a file from S3.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

func contentTypeOr(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
