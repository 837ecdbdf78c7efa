package reportvault

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// downloadLinkTTL bounds how long a handed-out report link stays valid.
const downloadLinkTTL = 10 * time.Minute

// Client wraps the S3 client with report-vault-specific functionality.
// Research documents are private objects; subscribers only ever receive
// short-lived presigned URLs.
type Client struct {
	s3Client  *s3.Client
	presigner *s3.PresignClient
	config    *Config
}

// NewClient creates a new report vault client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("report vault is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		config:    cfg,
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to report vault: %w", err)
	}

	log.Infof("[ReportVault] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

// testConnection checks that the configured bucket is reachable
func (c *Client) testConnection() error {
	_, err := c.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

// PresignDownload returns a short-lived URL for a stored report document.
func (c *Client) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(downloadLinkTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign report %s: %w", objectKey, err)
	}
	return req.URL, nil
}

// ObjectExists reports whether a report document is present in the vault.
func (c *Client) ObjectExists(ctx context.Context, objectKey string) bool {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	return err == nil
}
