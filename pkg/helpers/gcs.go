package helpers

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const avatarCacheControl = "public, max-age=86400"

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// GCSBucket uploads avatars into a single publicly readable bucket.
type GCSBucket struct {
	Name   string
	client *storage.Client
}

func NewGCSBucket(client *storage.Client, name string) *GCSBucket {
	return &GCSBucket{Name: name, client: client}
}

// Put streams r into objectPath and returns the object's public URL.
func (b *GCSBucket) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := b.client.Bucket(b.Name).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = avatarCacheControl
	// avatars are capped at a few MiB; one request is enough
	w.ChunkSize = 0
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: close %s: %w", objectPath, err)
	}
	return PublicURL(b.Name, objectPath), nil
}

// AvatarObjectPath builds avatars/<uid>/<id><ext> with a lower-cased extension.
func AvatarObjectPath(userID, id, filename string) string {
	return path.Join("avatars", userID, id+strings.ToLower(path.Ext(filename)))
}

// PublicURL is the storage.googleapis.com address of an object.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
