package s3x

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// GetJSON decodes the object at key into v and returns its ETag.
// A missing object is common.ErrorNotFound, an unparseable one wraps ErrDecode.
func GetJSON(ctx context.Context, c Client, bucket, key string, v any) (string, error) {
	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if IsNotFound(err) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("s3 read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("s3 decode %s: %w: %w", key, ErrDecode, err)
	}
	return aws.ToString(out.ETag), nil
}

// PutCondition restricts PutJSON to a create or to an unchanged object.
type PutCondition struct {
	// CreateOnly fails with common.ErrorAlreadyExists if key exists.
	CreateOnly bool
	// IfMatch fails with ErrConflict if the stored ETag differs.
	IfMatch string
}

// ErrDecode marks an object whose body is not the expected JSON.
var ErrDecode = errors.New("s3: malformed object body")

// ErrConflict is returned when an IfMatch write loses a race.
var ErrConflict = errors.New("s3: object changed concurrently")

func PutJSON(ctx context.Context, c Client, bucket, key string, v any, cond PutCondition) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3 encode %s: %w", key, err)
	}

	in := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if cond.CreateOnly {
		in.IfNoneMatch = aws.String("*")
	}
	if cond.IfMatch != "" {
		in.IfMatch = aws.String(cond.IfMatch)
	}

	if _, err := c.PutObject(ctx, in); err != nil {
		if IsPreconditionFailed(err) {
			if cond.CreateOnly {
				return common.ErrorAlreadyExists
			}
			return ErrConflict
		}
		if cond.IfMatch != "" && IsNotFound(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

// Exists issues a HEAD request for key.
func Exists(ctx context.Context, c Client, bucket, key string) (bool, error) {
	_, err := c.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head %s: %w", key, err)
	}
	return true, nil
}

func Delete(ctx context.Context, c Client, bucket, key string) error {
	_, err := c.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every key under prefix, following continuation tokens.
func ListKeys(ctx context.Context, c Client, bucket, prefix string) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(c, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
