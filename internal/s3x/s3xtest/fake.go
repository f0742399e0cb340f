// Package s3xtest provides an in-memory stand-in for the S3 object API.
package s3xtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type object struct {
	data []byte
	etag string
}

// Fake is a single-bucket-agnostic object store keyed by bucket+key. It
// honors IfNoneMatch "*", IfMatch and ListObjectsV2 pagination.
type Fake struct {
	mu      sync.Mutex
	objects map[string]object
	buckets map[string]bool
	version int

	// Err, when set, is returned by every call.
	Err error
	// PageSize caps ListObjectsV2 pages; zero means 1000.
	PageSize int
	// ListCalls counts ListObjectsV2 requests.
	ListCalls int
}

func New() *Fake {
	return &Fake{objects: make(map[string]object), buckets: make(map[string]bool)}
}

func id(bucket, key *string) string {
	return aws.ToString(bucket) + "/" + aws.ToString(key)
}

func notFound(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "not found"}
}

func (f *Fake) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	obj, ok := f.objects[id(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(obj.data)),
		ETag: aws.String(obj.etag),
	}, nil
}

func (f *Fake) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	k := id(in.Bucket, in.Key)
	existing, exists := f.objects[k]
	if aws.ToString(in.IfNoneMatch) == "*" && exists {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "exists"}
	}
	if in.IfMatch != nil {
		if !exists {
			return nil, notFound("NoSuchKey")
		}
		if existing.etag != *in.IfMatch {
			return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "etag mismatch"}
		}
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.version++
	etag := `"` + strconv.Itoa(f.version) + `"`
	f.objects[k] = object{data: data, etag: etag}
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

func (f *Fake) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	obj, ok := f.objects[id(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NotFound{Message: aws.String("not found")}
	}
	return &s3.HeadObjectOutput{ETag: aws.String(obj.etag)}, nil
}

func (f *Fake) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	delete(f.objects, id(in.Bucket, in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *Fake) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.Err != nil {
		return nil, f.Err
	}

	prefix := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, strings.TrimPrefix(k, aws.ToString(in.Bucket)+"/"))
		}
	}
	sort.Strings(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("bad continuation token %q", tok)
		}
		start = n
	}

	size := f.PageSize
	if size <= 0 {
		size = 1000
	}
	end := min(start+size, len(keys))
	if start > end {
		start = end
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *Fake) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{Message: aws.String("no bucket")}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *Fake) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

// HasBucket reports whether CreateBucket was called for name.
func (f *Fake) HasBucket(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[name]
}

// Corrupt replaces the stored bytes of bucket/key.
func (f *Fake) Corrupt(bucket, key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj := f.objects[bucket+"/"+key]
	obj.data = data
	f.objects[bucket+"/"+key] = obj
}

// Len is the number of stored objects.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
