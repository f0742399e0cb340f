package repomanager

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/s3x"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
)

// ObjectStore is the client surface the S3 backend needs.
type ObjectStore interface {
	s3x.Client
	s3x.BucketClient
}

// S3RepositoryManager stores users and vault items as JSON objects in one
// bucket of an S3-compatible service such as MinIO.
type S3RepositoryManager struct {
	client ObjectStore
	bucket string
	log    logging.Logger
}

var newS3Client = func(ctx context.Context, opts s3x.Options) (ObjectStore, error) {
	return s3x.NewClient(ctx, opts)
}

func NewS3RepositoryManagerFromConfig(ctx context.Context, cfg *config.Config, log logging.Logger) (*S3RepositoryManager, error) {
	client, err := newS3Client(ctx, s3x.Options{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return NewS3RepositoryManager(ctx, client, cfg.S3Bucket, log)
}

// NewS3RepositoryManager creates the bucket when it is missing.
func NewS3RepositoryManager(ctx context.Context, client ObjectStore, bucket string, log logging.Logger) (*S3RepositoryManager, error) {
	if err := s3x.EnsureBucket(ctx, client, bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}
	return &S3RepositoryManager{client: client, bucket: bucket, log: log}, nil
}

func (m *S3RepositoryManager) Users() users.Repository {
	return users.NewS3Repository(m.client, m.bucket)
}

func (m *S3RepositoryManager) VaultItems() vaultitems.Repository {
	return vaultitems.NewS3Repository(m.client, m.bucket, vaultitems.WithLogger(m.log))
}

func (m *S3RepositoryManager) Ping(ctx context.Context) error {
	_, err := m.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(m.bucket)})
	return err
}

func (m *S3RepositoryManager) Close() error {
	return nil
}
