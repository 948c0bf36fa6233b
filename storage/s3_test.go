package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeGetter struct {
	objects map[string]string
	err     error
	bucket  string
}

func (f *fakeGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3AccessorAccess(t *testing.T) {
	getter := &fakeGetter{objects: map[string]string{
		"ranks.json": `{"devs":["1"]}`,
		"empty.json": "",
	}}
	a := NewS3(S3Params{Bucket: "screams", Client: getter})

	body, err := a.Access(context.Background(), "ranks.json", func() { t.Fatal("remote mode must not watch") })
	if err != nil {
		t.Fatalf("Access() error = %v", err)
	}
	if string(body) != `{"devs":["1"]}` {
		t.Fatalf("Access() = %q", body)
	}
	if getter.bucket != "screams" {
		t.Fatalf("bucket = %q, want screams", getter.bucket)
	}

	if _, err := a.Access(context.Background(), "empty.json", nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	var ae *AccessError
	if _, err := a.Access(context.Background(), "missing.json", nil); !errors.As(err, &ae) {
		t.Fatalf("expected *AccessError, got %v", err)
	}
}

func TestS3AccessorTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	a := NewS3(S3Params{Bucket: "screams", Client: &fakeGetter{err: boom}})

	if _, err := a.Access(context.Background(), "config.json", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	local, err := New(context.Background(), Params{Config: Config{Local: true, BaseDir: t.TempDir()}})
	if err != nil {
		t.Fatalf("New(local) error = %v", err)
	}
	defer local.Close()
	if _, ok := local.(*LocalAccessor); !ok {
		t.Fatalf("expected *LocalAccessor, got %T", local)
	}

	remote, err := New(context.Background(), Params{
		Config:   Config{S3: S3Config{Bucket: "screams"}},
		S3Client: &fakeGetter{},
	})
	if err != nil {
		t.Fatalf("New(remote) error = %v", err)
	}
	if _, ok := remote.(*S3Accessor); !ok {
		t.Fatalf("expected *S3Accessor, got %T", remote)
	}

	if _, err := New(context.Background(), Params{Config: Config{}}); err == nil {
		t.Fatal("expected error for remote mode without bucket")
	}
}
