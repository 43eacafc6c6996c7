package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

// mockPutter records the last PutObject call
type mockPutter struct {
	input    *s3.PutObjectInput
	body     []byte
	deadline time.Time
	err      error
}

func (m *mockPutter) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	m.input = input
	m.deadline, _ = ctx.Deadline()
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.body = body
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &mockPutter{}
	uploader := NewS3UploaderWithClient(client, "renders-bucket", nil)

	data := []byte("P3\n1 1\n255\n0 0 0\n")
	start := time.Now()
	if err := uploader.Upload(context.Background(), "renders/default/a.ppm", "image/x-portable-pixmap", data); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if aws.StringValue(client.input.Bucket) != "renders-bucket" {
		t.Errorf("Unexpected bucket %q", aws.StringValue(client.input.Bucket))
	}
	if aws.StringValue(client.input.Key) != "renders/default/a.ppm" {
		t.Errorf("Unexpected key %q", aws.StringValue(client.input.Key))
	}
	if aws.StringValue(client.input.ContentType) != "image/x-portable-pixmap" {
		t.Errorf("Unexpected content type %q", aws.StringValue(client.input.ContentType))
	}
	if aws.Int64Value(client.input.ContentLength) != int64(len(data)) {
		t.Errorf("Unexpected content length %d", aws.Int64Value(client.input.ContentLength))
	}
	if string(client.body) != string(data) {
		t.Errorf("Uploaded body %q, want %q", client.body, data)
	}
	if client.deadline.IsZero() || client.deadline.Sub(start) > UploadTimeout+time.Second {
		t.Errorf("Expected upload deadline within %v, got %v", UploadTimeout, client.deadline)
	}
}

func TestS3Uploader_UploadError(t *testing.T) {
	client := &mockPutter{err: errors.New("access denied")}
	uploader := NewS3UploaderWithClient(client, "b", nil)

	err := uploader.Upload(context.Background(), "k", "image/png", []byte{1})
	if err == nil || !errors.Is(err, client.err) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"complete", Config{Region: "us-east-1", Bucket: "b", AccessKey: "a", SecretKey: "s"}, false},
		{"ambient credentials", Config{Region: "us-east-1", Bucket: "b"}, false},
		{"no bucket", Config{Region: "us-east-1"}, true},
		{"no region", Config{Bucket: "b"}, true},
		{"half credentials", Config{Region: "r", Bucket: "b", AccessKey: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}

	if _, err := NewS3Uploader(Config{}, nil); err == nil {
		t.Error("NewS3Uploader should reject an empty config")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	want := Config{Endpoint: "http://localhost:9000", Region: "eu-west-1", Bucket: "images", AccessKey: "key", SecretKey: "secret"}
	if got := ConfigFromEnv(); got != want {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", got, want)
	}
}

func TestObjectKey(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got := ObjectKey("spheres", ts, "png"); got != "renders/spheres/render_20240309_140507.png" {
		t.Errorf("Unexpected key %q", got)
	}
}
