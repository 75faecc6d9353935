// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig describes a MinIO / S3-compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Minio stores archives as objects of one bucket under a key prefix.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinio wraps an existing client. prefix is prepended to every name.
func NewMinio(client *minio.Client, bucket, prefix string) *Minio {
	return &Minio{client: client, bucket: bucket, prefix: prefix}
}

// DialMinio connects to cfg.Endpoint with static credentials and creates
// the bucket when it does not exist.
func DialMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, storeErrorf(opOpen, err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, storeErrorf(opOpen, err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, storeErrorf(opOpen, err)
		}
	}

	return NewMinio(client, cfg.Bucket, cfg.Prefix), nil
}

func (s *Minio) key(name string) string {
	return path.Join(s.prefix, name)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// Put uploads data under name. Object writes are atomic on the server.
func (s *Minio) Put(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return storeErrorf(opPut, err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return storeErrorf(opPut, err)
	}

	return nil
}

// Get downloads the object stored under name.
func (s *Minio) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, storeErrorf(opGet, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		var data []byte
		if data, err = io.ReadAll(obj); err == nil {
			return data, nil
		}
	}
	if isNotFound(err) {
		return nil, storeErrorf(opGet, fmt.Errorf("%s: %w", name, ErrNotFound))
	}

	return nil, storeErrorf(opGet, err)
}

// Delete removes the object stored under name.
func (s *Minio) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return storeErrorf(opDelete, err)
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return storeErrorf(opDelete, err)
	}

	return nil
}

// List returns the names below the store prefix that start with prefix.
func (s *Minio) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, storeErrorf(opList, obj.Err)
		}
		name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/")
		if name != "" && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}
