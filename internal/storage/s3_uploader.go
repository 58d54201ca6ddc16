package storage

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Uploader retains a copy of scanned receipt images in S3
type S3Uploader struct {
	s3Client *s3.S3
	bucket   string
	region   string
}

// Config holds configuration for the S3 uploader
type Config struct {
	Bucket string
	Region string
}

// NewS3Uploader creates a new S3 uploader. Credentials come from the
// default AWS chain (env, shared config, instance role).
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Uploader{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		region:   config.Region,
	}, nil
}

// UploadImage uploads a receipt image to S3 and returns its object URL
func (u *S3Uploader) UploadImage(imageData []byte, filename string) (string, error) {
	key := "receipts/" + filename

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(imageData),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(len(imageData))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
