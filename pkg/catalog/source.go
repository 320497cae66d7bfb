package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce batches the burst of events editors emit for a single save.
const reloadDebounce = 250 * time.Millisecond

// Compile-time interface guard.
var _ Source = (*FileSource)(nil)

// FileSource serves a catalog loaded from a YAML file on disk. The current
// snapshot is swapped atomically on reload, so in-flight queries keep the
// snapshot they started with.
type FileSource struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[[]Item]
}

// NewFileSource loads the catalog at path. It fails if the initial load fails;
// later reload failures keep the previous snapshot.
func NewFileSource(path string, logger *zap.Logger) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path %q: %w", path, err)
	}
	s := &FileSource{path: abs, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the catalog file.
func (s *FileSource) Path() string {
	return s.path
}

// Items returns a copy of the current snapshot.
func (s *FileSource) Items() ([]Item, error) {
	items := s.current.Load()
	if items == nil {
		return nil, fmt.Errorf("catalog %q not loaded", s.path)
	}
	return cloneItems(*items), nil
}

// Reload re-reads the catalog file. On error the previous snapshot is kept.
func (s *FileSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read catalog %q: %w", s.path, err)
	}
	items, err := Parse(data)
	if err != nil {
		return fmt.Errorf("load catalog %q: %w", s.path, err)
	}
	s.current.Store(&items)
	s.logger.Info("catalog loaded", zap.String("path", s.path), zap.Int("items", len(items)))
	return nil
}

// Watch reloads the catalog whenever the file changes and blocks until ctx is
// cancelled. The parent directory is watched so that atomic replace-by-rename
// saves are picked up.
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(s.path), err)
	}
	s.logger.Info("watching catalog for changes", zap.String("path", s.path))

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("catalog watcher error", zap.Error(err))

		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.logger.Error("catalog reload failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}
