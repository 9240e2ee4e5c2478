// Package gcs implements driven.ObjectStore on the Cloud Storage JSON API.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// listFields limits list responses to what domain.Object needs.
const listFields = "nextPageToken,items(name,bucket,size,contentType,updated)"

// Store reads objects from Cloud Storage buckets.
type Store struct {
	svc     *storage.Service
	limiter *gcp.RateLimiter
}

// New creates a store using opts for authentication and endpoint.
func New(ctx context.Context, limiter *gcp.RateLimiter, opts ...option.ClientOption) (*Store, error) {
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &Store{svc: svc, limiter: limiter}, nil
}

// List returns every object under prefix, following pagination.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]domain.Object, error) {
	var objects []domain.Object
	pageToken := ""

	for {
		call := s.svc.Objects.List(bucket).Prefix(prefix).Fields(listFields).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := gcp.Call(ctx, s.limiter, func() (*storage.Objects, error) {
			return call.Do()
		})
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
		}

		for _, item := range page.Items {
			objects = append(objects, toObject(bucket, item))
		}

		if page.NextPageToken == "" {
			return objects, nil
		}
		pageToken = page.NextPageToken
	}
}

// Download streams the object media into w.
func (s *Store) Download(ctx context.Context, obj domain.Object, w io.Writer) error {
	resp, err := gcp.Call(ctx, s.limiter, func() (*http.Response, error) {
		return s.svc.Objects.Get(obj.Bucket, obj.Path).Context(ctx).Download()
	})
	if err != nil {
		return fmt.Errorf("download %s: %w", s.URI(obj), err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", s.URI(obj), err)
	}
	return nil
}

// URI returns gs://bucket/path.
func (s *Store) URI(obj domain.Object) string {
	return URI(obj.Bucket, obj.Path)
}

// URI formats a Cloud Storage object URI.
func URI(bucket, path string) string {
	return "gs://" + bucket + "/" + path
}

func toObject(bucket string, item *storage.Object) domain.Object {
	obj := domain.Object{
		Bucket:      bucket,
		Path:        item.Name,
		Size:        int64(item.Size),
		ContentType: item.ContentType,
	}
	if item.Bucket != "" {
		obj.Bucket = item.Bucket
	}
	if t, err := time.Parse(time.RFC3339, item.Updated); err == nil {
		obj.Updated = t
	}
	return obj
}
