// Package objectstore selects an object store by bucket address.
//
// Subpackages:
//   - gcs: Cloud Storage buckets (gs://name or a bare bucket name)
//   - local: directories addressed as file:///path
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/objectstore/local"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure Router implements the interfaces.
var (
	_ driven.ObjectStore    = (*Router)(nil)
	_ driven.WatchableStore = (*Router)(nil)
)

// RemoteFactory creates the store for non-local buckets on first use.
type RemoteFactory func(ctx context.Context) (driven.ObjectStore, error)

// Router dispatches file:// buckets to a local store and everything else
// to a remote store created on demand.
type Router struct {
	local *local.Store

	mu        sync.Mutex
	newRemote RemoteFactory
	remote    driven.ObjectStore
}

// NewRouter creates a router. newRemote may be nil, in which case remote
// buckets fail with domain.ErrBackendUnavailable.
func NewRouter(localStore *local.Store, newRemote RemoteFactory) *Router {
	return &Router{local: localStore, newRemote: newRemote}
}

// BucketName strips a gs:// scheme and trailing slashes from a remote
// bucket reference.
func BucketName(bucket string) string {
	return strings.TrimRight(strings.TrimPrefix(bucket, "gs://"), "/")
}

// List lists objects under prefix in bucket.
func (r *Router) List(ctx context.Context, bucket, prefix string) ([]domain.Object, error) {
	if local.IsLocalBucket(bucket) {
		return r.local.List(ctx, bucket, prefix)
	}
	remote, err := r.remoteStore(ctx)
	if err != nil {
		return nil, err
	}
	return remote.List(ctx, BucketName(bucket), prefix)
}

// Download writes the content of obj to w.
func (r *Router) Download(ctx context.Context, obj domain.Object, w io.Writer) error {
	if local.IsLocalBucket(obj.Bucket) {
		return r.local.Download(ctx, obj, w)
	}
	remote, err := r.remoteStore(ctx)
	if err != nil {
		return err
	}
	return remote.Download(ctx, obj, w)
}

// URI returns the backend URI of obj.
func (r *Router) URI(obj domain.Object) string {
	if local.IsLocalBucket(obj.Bucket) {
		return r.local.URI(obj)
	}
	return "gs://" + BucketName(obj.Bucket) + "/" + obj.Path
}

// Watch watches local buckets. Remote buckets return
// domain.ErrWatchUnsupported.
func (r *Router) Watch(ctx context.Context, bucket, prefix string, onChange func()) error {
	if !local.IsLocalBucket(bucket) {
		return fmt.Errorf("%w: %s", domain.ErrWatchUnsupported, bucket)
	}
	return r.local.Watch(ctx, bucket, prefix, onChange)
}

func (r *Router) remoteStore(ctx context.Context) (driven.ObjectStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remote != nil {
		return r.remote, nil
	}
	if r.newRemote == nil {
		return nil, fmt.Errorf("%w: no remote object store configured", domain.ErrBackendUnavailable)
	}

	store, err := r.newRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	r.remote = store
	return store, nil
}
