package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"exitlayer/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "clients/acme/plan.md", want: "clients/acme/plan.md"},
		{name: "simple prefix", prefix: "root", key: "clients/acme/plan.md", want: "root/clients/acme/plan.md"},
		{name: "prefix trailing slash", prefix: "root/", key: "clients/acme/plan.md", want: "root/clients/acme/plan.md"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/clients/acme/plan.md", want: "root/clients/acme/plan.md"},
		{name: "nested prefix", prefix: "root/sub", key: "clients/acme/plan.md", want: "root/sub/clients/acme/plan.md"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	objects map[string]string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	raw, _ := io.ReadAll(in.Body)
	f.body = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := NewWithClient(fake, "bucket", "/exitlayer/", "")

	n, err := store.Put(context.Background(), "clients/acme/call-prep.md", "text/markdown", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 5 {
		t.Fatalf("size = %d, want 5", n)
	}
	if got := aws.ToString(fake.put.Key); got != "exitlayer/clients/acme/call-prep.md" {
		t.Fatalf("key = %q", got)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("sse = %q", fake.put.ServerSideEncryption)
	}
	if aws.ToString(fake.put.CacheControl) != "no-store" {
		t.Fatalf("cache control = %q", aws.ToString(fake.put.CacheControl))
	}
	if fake.body != "hello" {
		t.Fatalf("body = %q", fake.body)
	}
}

func TestPutWithKMSKey(t *testing.T) {
	fake := &fakeS3{}
	store := NewWithClient(fake, "bucket", "", "kms-123")
	if _, err := store.Put(context.Background(), "a/b.md", "text/markdown", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("sse = %q", fake.put.ServerSideEncryption)
	}
	if aws.ToString(fake.put.SSEKMSKeyId) != "kms-123" {
		t.Fatalf("kms key = %q", aws.ToString(fake.put.SSEKMSKeyId))
	}
}

func TestOpenAndErrors(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"p/a.md": "body"}}
	store := NewWithClient(fake, "bucket", "p", "")

	rc, err := store.Open(context.Background(), "a.md")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	raw, _ := io.ReadAll(rc)
	if string(raw) != "body" {
		t.Fatalf("body = %q", raw)
	}

	if _, err := store.Open(context.Background(), "missing.md"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Put(context.Background(), "../x", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
