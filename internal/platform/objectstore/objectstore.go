// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package objectstore stores binary assets (profile images) in S3-compatible storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrDisabled is returned by [Disabled] for every write.
var ErrDisabled = errors.New("object storage is not configured")

// Store is the object storage contract consumed by the account service.
type Store interface {
	Put(context context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(context context.Context, key string) error
	URL(key string) string
}

// Options configures an [S3Store].
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// S3Store implements [Store] on top of aws-sdk-go-v2.
type S3Store struct {
	client  *s3.Client
	options Options
}

// NewS3Store builds an S3 client. Static credentials are used when provided,
// otherwise the default AWS credential chain applies.
func NewS3Store(context context.Context, options Options) (*S3Store, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(options.Region)}
	if options.AccessKey != "" && options.SecretKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context, loaders...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.PathStyle
	})

	return &S3Store{client: client, options: options}, nil
}

// Put uploads body under key.
func (store *S3Store) Put(context context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := store.client.PutObject(context, &s3.PutObjectInput{
		Bucket:        aws.String(store.options.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3_put_object_failed: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (store *S3Store) Delete(context context.Context, key string) error {
	_, err := store.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3_delete_object_failed: %w", err)
	}
	return nil
}

// URL returns the public address of key.
func (store *S3Store) URL(key string) string {
	if store.options.Endpoint != "" {
		base := strings.TrimRight(store.options.Endpoint, "/")
		if store.options.PathStyle {
			return fmt.Sprintf("%s/%s/%s", base, store.options.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", base, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", store.options.Bucket, store.options.Region, key)
}

// Disabled is the [Store] used when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, int64, string) error { return ErrDisabled }

// Delete is a no-op so account deletion keeps working without storage.
func (Disabled) Delete(context.Context, string) error { return nil }

func (Disabled) URL(string) string { return "" }
