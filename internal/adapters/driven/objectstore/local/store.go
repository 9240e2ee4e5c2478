// Package local implements driven.ObjectStore over a directory on disk.
// A bucket is addressed as file:///path/to/dir and objects are the
// regular files below it, named by their slash-separated relative path.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Scheme is the URI scheme of local buckets.
const Scheme = "file://"

// defaultDebounce collapses bursts of filesystem events into one reload.
const defaultDebounce = 500 * time.Millisecond

// Ensure Store implements the interfaces.
var (
	_ driven.ObjectStore    = (*Store)(nil)
	_ driven.WatchableStore = (*Store)(nil)
)

// Store reads objects from local directories.
type Store struct {
	debounce time.Duration
}

// New creates a local object store.
func New() *Store {
	return &Store{debounce: defaultDebounce}
}

// IsLocalBucket reports whether bucket is a file:// URI.
func IsLocalBucket(bucket string) bool {
	return strings.HasPrefix(bucket, Scheme)
}

// Root returns the directory a file:// bucket points to.
func Root(bucket string) (string, error) {
	if !IsLocalBucket(bucket) {
		return "", fmt.Errorf("%w: %q is not a %s URI", domain.ErrInvalidURI, bucket, Scheme)
	}
	root := strings.TrimPrefix(bucket, Scheme)
	if root == "" {
		return "", fmt.Errorf("%w: %q has no path", domain.ErrInvalidURI, bucket)
	}
	return filepath.FromSlash(root), nil
}

// List returns the regular files under prefix in lexical order. Hidden
// files and directories are skipped. A missing prefix directory yields no
// objects.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]domain.Object, error) {
	root, err := Root(bucket)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucket, err)
	}

	start := filepath.Join(root, filepath.FromSlash(prefix))
	var objects []domain.Object

	err = filepath.WalkDir(start, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == start {
				return fs.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != start && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, domain.Object{
			Bucket:  bucket,
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			Updated: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s%s: %w", bucket, prefix, err)
	}

	return objects, nil
}

// Download copies the file into w.
func (s *Store) Download(_ context.Context, obj domain.Object, w io.Writer) error {
	path, err := s.path(obj)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// URI returns file:// followed by the absolute slash path of the object.
func (s *Store) URI(obj domain.Object) string {
	path, err := s.path(obj)
	if err != nil {
		return obj.Bucket + "/" + obj.Path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Scheme + filepath.ToSlash(path)
}

func (s *Store) path(obj domain.Object) (string, error) {
	root, err := Root(obj.Bucket)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(obj.Path)), nil
}

// Watch calls onChange after each burst of file changes under prefix until
// ctx is cancelled. New subdirectories are watched as they appear.
func (s *Store) Watch(ctx context.Context, bucket, prefix string, onChange func()) error {
	root, err := Root(bucket)
	if err != nil {
		return err
	}
	start := filepath.Join(root, filepath.FromSlash(prefix))
	if err := os.MkdirAll(start, 0o755); err != nil {
		return fmt.Errorf("prepare watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, start); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(watcher, event) {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// relevant reports whether event should trigger a reload. Newly created
// directories are added to the watcher.
func (s *Store) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(watcher, event.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", event.Name, err)
			}
		}
	}
	return true
}

// addTree watches dir and every non-hidden directory below it.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
