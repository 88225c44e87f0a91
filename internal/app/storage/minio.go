package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOClient создает клиент для MinIO
func NewMinIOClient(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Создаем bucket если не существует
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", bucketName)
	}

	return &MinIOClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func packPrefix(key string) string {
	return path.Join(packsDir, key) + "/"
}

// List возвращает файлы пака (без вложенных каталогов).
// В object storage нет каталогов, поэтому пустой префикс считается отсутствующим паком.
func (m *MinIOClient) List(ctx context.Context, key string) ([]Object, error) {
	if err := ValidateName(key); err != nil {
		return nil, err
	}

	var objects []Object
	for obj := range m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{Prefix: packPrefix(key)}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, Object{
			Name: path.Base(obj.Key),
			Path: obj.Key,
			Size: obj.Size,
		})
	}

	if len(objects) == 0 {
		return nil, ErrNotFound
	}
	return objects, nil
}

// Open открывает объект на чтение. GetObject ленивый, поэтому наличие объекта
// проверяется через StatObject.
func (m *MinIOClient) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, objectPath, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("object %s: %w", objectPath, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check object: %w", err)
	}

	object, err := m.client.GetObject(ctx, m.bucketName, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return object, nil
}

// Put загружает файл пака
func (m *MinIOClient) Put(ctx context.Context, key, name string, r io.Reader, size int64) error {
	if err := ValidateName(key); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	objectPath := packPrefix(key) + name
	_, err := m.client.PutObject(ctx, m.bucketName, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	logrus.Infof("File %s uploaded successfully", objectPath)
	return nil
}

// Remove удаляет все файлы пака
func (m *MinIOClient) Remove(ctx context.Context, key string) error {
	if err := ValidateName(key); err != nil {
		return err
	}

	opts := minio.ListObjectsOptions{Prefix: packPrefix(key), Recursive: true}
	for obj := range m.client.ListObjects(ctx, m.bucketName, opts) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		err := m.client.RemoveObject(ctx, m.bucketName, obj.Key, minio.RemoveObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}

	logrus.Infof("Pack %s files deleted successfully", key)
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
