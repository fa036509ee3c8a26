package video

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"learnhub/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioSource reads lecture videos from an S3 compatible bucket.
type MinioSource struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

func NewMinioSource(endpoint, accessKey, secretKey, bucket string, useSSL bool, baseLog *logger.Logger) (*MinioSource, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioSource{client: client, bucket: bucket, log: baseLog.With("service", "MinioVideoSource")}, nil
}

// ObjectKey accepts either a bare key or a URL whose path ends with the key inside the bucket.
func ObjectKey(location, bucket string) string {
	key := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		key = u.Path
	}
	key = strings.TrimPrefix(key, "/")
	return strings.TrimPrefix(key, bucket+"/")
}

func (s *MinioSource) Fetch(ctx context.Context, location, rangeHeader string) (*Chunk, error) {
	key := ObjectKey(location, s.bucket)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}

	start, end, err := ParseRange(rangeHeader, info.Size)
	if err != nil {
		return nil, err
	}
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRangeNotSatisfiable, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	ct := info.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = defaultContentType
	}
	return &Chunk{
		Body:          obj,
		ContentRange:  ContentRange(start, end, info.Size),
		ContentLength: end - start + 1,
		ContentType:   ct,
	}, nil
}
