package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNotLoaded is returned by DirSource for registries without a local file.
var ErrNotLoaded = errors.New("stats file not loaded")

// DirSource serves stats files from a local mirror directory and reloads
// them when they change on disk. Files use the upstream names, e.g.
// delegated-apnic-latest.
type DirSource struct {
	dir     string
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	stats map[Registry]string
}

// NewDirSource loads every known stats file found in dir and starts
// watching the directory.
func NewDirSource(dir string) (*DirSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s := &DirSource{
		dir:     dir,
		watcher: watcher,
		stats:   make(map[Registry]string),
	}
	for _, r := range Registries {
		s.reload(r)
	}
	return s, nil
}

// FileName returns the mirror file name used for r.
func FileName(r Registry) string {
	return path.Base(r.StatsURL())
}

// Stats returns the last loaded text for r.
func (s *DirSource) Stats(_ context.Context, r Registry) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.stats[r]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLoaded, FileName(r))
	}
	return text, nil
}

// Ready reports an error until at least one stats file is loaded.
func (s *DirSource) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.stats) == 0 {
		return fmt.Errorf("%w: no stats files in %s", ErrNotLoaded, s.dir)
	}
	return nil
}

// Run processes file system events until ctx is done.
func (s *DirSource) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			r, known := registryForFile(filepath.Base(event.Name))
			if !known {
				continue
			}
			slog.Debug("stats file changed", "file", event.Name, "op", event.Op.String())
			s.reload(r)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("stats watcher error", "dir", s.dir, "error", err)
		}
	}
}

// Close stops watching the directory.
func (s *DirSource) Close() error {
	return s.watcher.Close()
}

func (s *DirSource) reload(r Registry) {
	p := filepath.Join(s.dir, FileName(r))
	data, err := os.ReadFile(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if _, had := s.stats[r]; had || !errors.Is(err, os.ErrNotExist) {
			slog.Warn("stats file unavailable", "registry", r.String(), "path", p, "error", err)
		}
		delete(s.stats, r)
		return
	}
	s.stats[r] = string(data)
	slog.Info("stats file loaded", "registry", r.String(), "path", p, "bytes", len(data))
}

func registryForFile(name string) (Registry, bool) {
	for _, r := range Registries {
		if FileName(r) == name {
			return r, true
		}
	}
	return 0, false
}
