package users

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/passvault/internal/s3x"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// S3Repository keeps users/<email>.json. Create relies on If-None-Match so
// two concurrent registrations of one email cannot both succeed.
type S3Repository struct {
	client s3x.Client
	bucket string
}

func NewS3Repository(client s3x.Client, bucket string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket}
}

func userKey(email string) string {
	return "users/" + url.PathEscape(email) + ".json"
}

func (r *S3Repository) Create(ctx context.Context, user *models.User) error {
	return s3x.PutJSON(ctx, r.client, r.bucket, userKey(user.Email), toDocument(user), s3x.PutCondition{CreateOnly: true})
}

func (r *S3Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var d document
	if _, err := s3x.GetJSON(ctx, r.client, r.bucket, userKey(email), &d); err != nil {
		return nil, err
	}
	return d.user(), nil
}
