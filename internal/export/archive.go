package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// Archiver keeps a copy of every generated export.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) error
}

type B2Archiver struct {
	bucket *b2.Bucket
	prefix string
}

func NewB2Archiver(ctx context.Context, keyID, appKey, bucketName string) (*B2Archiver, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketName, err)
	}
	return &B2Archiver{bucket: bucket, prefix: "exports/"}, nil
}

func (a *B2Archiver) Archive(ctx context.Context, name string, data []byte) error {
	w := a.bucket.Object(a.prefix + name).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// Nop discards exports when archiving is not configured.
type Nop struct{}

func (Nop) Archive(context.Context, string, []byte) error { return nil }
