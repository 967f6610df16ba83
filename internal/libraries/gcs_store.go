package libraries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// GCSStore keeps uploaded images in a single bucket.
type GCSStore struct {
	bucket        *storage.BucketHandle
	bucketName    string
	publicBaseURL string
}

func NewGCSStore(client *storage.Client, bucketName, publicBaseURL string) *GCSStore {
	if publicBaseURL == "" && bucketName != "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucketName
	}
	return &GCSStore{
		bucket:        client.Bucket(bucketName),
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload writes a new object. Existing objects are never overwritten.
func (s *GCSStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(path).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := w.Write(data); err != nil {
		// cancelling the context aborts the resumable upload
		cancel()
		w.Close()
		return fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", path, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(path string) (string, error) {
	if s.publicBaseURL == "" || path == "" {
		return "", errors.New("public url unavailable")
	}
	return s.publicBaseURL + "/" + strings.TrimLeft(path, "/"), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}
