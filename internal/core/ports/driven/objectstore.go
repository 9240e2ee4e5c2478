package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// ObjectStore provides read access to a bucket of objects.
type ObjectStore interface {
	// List returns every object under prefix, in the order the backend
	// enumerates them.
	List(ctx context.Context, bucket, prefix string) ([]domain.Object, error)

	// Download streams the object content into w.
	Download(ctx context.Context, obj domain.Object, w io.Writer) error

	// URI returns the addressable location of the object, e.g.
	// gs://bucket/path or file:///dir/path.
	URI(obj domain.Object) string
}

// WatchableStore is an optional interface for object stores that can
// notify about changes under a prefix.
type WatchableStore interface {
	// Watch blocks until ctx is cancelled, calling onChange after each
	// burst of changes under prefix.
	Watch(ctx context.Context, bucket, prefix string, onChange func()) error
}
