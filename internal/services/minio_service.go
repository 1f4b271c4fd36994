package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// genericContentType is what multipart clients send when they do not know
// the file type. It is treated the same as no content type at all.
const genericContentType = "application/octet-stream"

// sniffLen is the number of leading bytes http.DetectContentType inspects.
const sniffLen = 512

// MinioService stores product images in an S3 compatible bucket.
type MinioService interface {
	UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	DeleteImage(ctx context.Context, bucketName, objectName string) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type imageStore struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %q: %w", endpoint, err)
	}
	return &imageStore{client: client}, nil
}

// UploadImage stores the object under objectName. An empty or generic
// content type is replaced by one derived from the file extension or, failing
// that, from the leading bytes of the upload.
func (m *imageStore) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	contentType, reader, err := resolveContentType(objectName, reader, contentType)
	if err != nil {
		return fmt.Errorf("read %s: %w", objectName, err)
	}
	_, err = m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucketName, objectName, err)
	}
	return nil
}

// resolveContentType returns the content type to store with objectName and a
// reader that still yields the whole upload.
func resolveContentType(objectName string, reader io.Reader, contentType string) (string, io.Reader, error) {
	if contentType != "" && !strings.EqualFold(contentType, genericContentType) {
		return contentType, reader, nil
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(objectName))); byExt != "" {
		return byExt, reader, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), reader), nil
}

func (m *imageStore) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucketName, objectName, err)
	}
	return u.String(), nil
}

func (m *imageStore) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	if err := m.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s/%s: %w", bucketName, objectName, err)
	}
	return nil
}

// EnsureBucketExists creates bucketName on first start. A concurrent creator
// winning the race is not an error.
func (m *imageStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucketName, err)
	}
	if found {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	return nil
}
