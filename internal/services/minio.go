package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioService stores uploaded scan image bytes when object storage is
// configured. Without it the service keeps metadata only and discards the
// bytes after assessment.
type MinioService struct {
	Client     *minio.Client
	BucketName string
}

var minioInstance *MinioService

func InitializeMinio(endpoint, accessKey, secretKey, bucket string, useSSL bool) error {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	// Create bucket if it doesn't exist
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("[MinIO] created bucket: %s", bucket)
	}

	minioInstance = &MinioService{
		Client:     client,
		BucketName: bucket,
	}

	log.Println("[MinIO] connected")
	return nil
}

func GetMinioService() *MinioService {
	return minioInstance
}

// CheckConnection is used by health checks.
func (m *MinioService) CheckConnection() error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("minio service not initialized")
	}
	_, err := m.Client.BucketExists(context.Background(), m.BucketName)
	return err
}

func (m *MinioService) UploadScanImage(reader io.Reader, size int64, objectName, contentType string) error {
	ctx := context.Background()

	_, err := m.Client.PutObject(
		ctx,
		m.BucketName,
		objectName,
		reader,
		size,
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	return err
}

func (m *MinioService) DownloadScanImage(objectName, localFilePath string) error {
	return m.Client.FGetObject(context.Background(), m.BucketName, objectName, localFilePath, minio.GetObjectOptions{})
}

func (m *MinioService) DeleteScanImage(objectName string) error {
	return m.Client.RemoveObject(context.Background(), m.BucketName, objectName, minio.RemoveObjectOptions{})
}

// GetContentType maps an upload extension to its MIME type.
func GetContentType(extension string) string {
	switch extension {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".dcm":
		return "application/dicom"
	default:
		return "application/octet-stream"
	}
}
