// Package blob implements the session blob gateway over Google Cloud
// Storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

// GCSGateway implements services.BlobGateway over a GCS bucket.
// Grounded on the teacher's FirebaseStorageUploader (firebase_uploader.go):
// same client construction and SignedURL usage, generalized from
// "upload audio bytes directly" (the teacher buffers the whole
// recording in memory and writes it server-side) to "issue the caller
// a write URL" — spec.md §4.1 makes the blob gateway a pure URL/probe
// wrapper, with the upload itself happening client to GCS directly.
type GCSGateway struct {
	client     *storage.Client
	bucketName string
}

// NewGCSGateway builds a gateway bound to bucketName. credentialsPath
// may be empty to use application-default credentials.
func NewGCSGateway(ctx context.Context, bucketName, credentialsPath string) (*GCSGateway, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs gateway: new client: %w", err)
	}
	return &GCSGateway{client: client, bucketName: bucketName}, nil
}

func (g *GCSGateway) GenerateWriteURL(ctx context.Context, path, contentType string, ttl time.Duration) (string, time.Time, error) {
	expiry := time.Now().Add(ttl)
	bucket := g.client.Bucket(g.bucketName)
	url, err := bucket.SignedURL(path, &storage.SignedURLOptions{
		Method:      "PUT",
		Expires:     expiry,
		ContentType: contentType,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("gcs gateway: sign write url: %w", err)
	}
	return url, expiry, nil
}

func (g *GCSGateway) Exists(ctx context.Context, path string) (bool, int64, error) {
	obj := g.client.Bucket(g.bucketName).Object(path)
	attrs, err := obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("gcs gateway: attrs: %w", err)
	}
	return true, attrs.Size, nil
}

func (g *GCSGateway) ReadURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	bucket := g.client.Bucket(g.bucketName)
	url, err := bucket.SignedURL(path, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs gateway: sign read url: %w", err)
	}
	return url, nil
}

var _ services.BlobGateway = (*GCSGateway)(nil)
