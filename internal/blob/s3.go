// Package blob stores event thumbnails, one key prefix per session.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ieee-synapse/synapse-api/internal/config"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

const filenameMetadataKey = "filename"

type ObjectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Backend struct {
	client ObjectClient
	bucket string
}

func NewS3Client(ctx context.Context, conf *config.S3Config) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AccessKey,
			conf.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("awsconfig.LoadDefaultConfig -> %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(conf.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Backend(client ObjectClient, bucket string) *S3Backend {
	return &S3Backend{
		client: client,
		bucket: bucket,
	}
}

func (b *S3Backend) ForSession(id domain.SessionID) repository.BlobStore {
	return &s3Store{backend: b, prefix: id.String() + "/"}
}

type s3Store struct {
	backend *S3Backend
	prefix  string
}

func (s *s3Store) key(id string) string {
	return s.prefix + id
}

func (s *s3Store) Put(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	id := objectid.New()

	_, err := s.backend.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.backend.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{filenameMetadataKey: filename},
	})
	if err != nil {
		return "", fmt.Errorf("s.client.PutObject -> %w", err)
	}

	return id, nil
}

func (s *s3Store) Get(ctx context.Context, id string) (domain.Blob, error) {
	out, err := s.backend.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.backend.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return domain.Blob{}, repository.ErrBlobNotFound
		}
		return domain.Blob{}, fmt.Errorf("s.client.GetObject -> %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return domain.Blob{}, fmt.Errorf("io.ReadAll -> %w", err)
	}

	return domain.Blob{
		ID:          id,
		Filename:    out.Metadata[filenameMetadataKey],
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
	}, nil
}

func (s *s3Store) Delete(ctx context.Context, id string) error {
	_, err := s.backend.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.backend.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("s.client.DeleteObject -> %w", err)
	}

	return nil
}
