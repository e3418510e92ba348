package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"shop_backend/internal/config"
	"shop_backend/internal/feature/product/usecase"
)

const stagingPrefix = "staging/"

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3-compatible bucket (AWS, MinIO).
// Staged objects live under the "staging/" prefix.
type S3Store struct {
	client   objectAPI
	bucket   string
	maxBytes int64
}

var _ usecase.ImageStore = (*S3Store)(nil)

// NewS3Store connects to the bucket described by cfg, creating it when missing.
func NewS3Store(ctx context.Context, cfg config.S3Config, maxBytes int64) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
		o.UsePathStyle = true
	})

	if err := ensureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return nil, err
	}
	slog.Info("s3 image store ready", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return newS3Store(client, cfg.Bucket, maxBytes), nil
}

func newS3Store(client objectAPI, bucket string, maxBytes int64) *S3Store {
	return &S3Store{client: client, bucket: bucket, maxBytes: maxBytes}
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func ensureBucket(ctx context.Context, client *s3.Client, bucket, region string) error {
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		return nil
	}

	in := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if region != "" && region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := client.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %q: %w", bucket, err)
	}
	slog.Info("created image bucket", "bucket", bucket)
	return nil
}

func (s *S3Store) Stage(ctx context.Context, src io.Reader) (string, error) {
	data, contentType, ext, err := readImage(src, s.maxBytes)
	if err != nil {
		return "", err
	}
	name := newName(ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(stagingPrefix + name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload staged image: %w", err)
	}
	return name, nil
}

// Commit copies staged objects to their final keys. On failure the objects
// already copied are deleted again; the staged copies stay for Discard.
func (s *S3Store) Commit(ctx context.Context, names []string) error {
	for i, name := range names {
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(s.bucket + "/" + stagingPrefix + name),
			Key:        aws.String(name),
		})
		if err != nil {
			s.deleteKeys(ctx, names[:i], "")
			return fmt.Errorf("failed to commit image %q: %w", name, err)
		}
	}
	s.deleteKeys(ctx, names, stagingPrefix)
	return nil
}

func (s *S3Store) Discard(ctx context.Context, names []string) {
	s.deleteKeys(ctx, names, stagingPrefix)
}

// Remove deletes committed objects. Deleting a missing key succeeds in S3.
func (s *S3Store) Remove(ctx context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if !validName(name) {
			continue
		}
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(name),
		}); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *S3Store) Open(ctx context.Context, name string) (*usecase.Image, error) {
	if !validName(name) {
		return nil, usecase.ErrImageNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, usecase.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image %q: %w", name, err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &usecase.Image{
		Body:        out.Body,
		ContentType: contentType,
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

// deleteKeys is best effort; failures are only logged.
func (s *S3Store) deleteKeys(ctx context.Context, names []string, prefix string) {
	for _, name := range names {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(prefix + name),
		}); err != nil {
			slog.Warn("failed to delete image object", "key", prefix+name, "error", err)
		}
	}
}
