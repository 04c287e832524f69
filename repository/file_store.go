package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const fileStoreExt = ".json"

// FileStore keeps one JSON file per key inside a directory.
// Changes made by other processes are picked up through fsnotify and
// reported to subscribers.
type FileStore struct {
	dir string

	mu      sync.Mutex
	subs    subscribers
	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped bool
}

var (
	_ KeyValueStoreInterface  = (*FileStore)(nil)
	_ ChangeNotifierInterface = (*FileStore)(nil)
)

// NewFileStore creates the directory if needed and returns a FileStore rooted there
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir, done: make(chan struct{})}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileStoreExt)
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes to a temporary file and renames it over the target
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Subscribe registers fn for key changes. The directory watch starts with the first subscriber.
func (s *FileStore) Subscribe(fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.subs.add(fn)
	if s.watcher == nil && !s.stopped {
		if err := s.startWatch(); err != nil {
			log.Printf("⚠️ FileStore: could not watch %s: %v", s.dir, err)
		}
	}

	return func() {
		s.mu.Lock()
		s.subs.remove(id)
		s.mu.Unlock()
	}
}

// startWatch must be called with s.mu held
func (s *FileStore) startWatch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return err
	}
	s.watcher = w

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				key, ok := s.keyFromPath(event.Name)
				if !ok {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					s.mu.Lock()
					fns := s.subs.snapshot()
					s.mu.Unlock()
					for _, fn := range fns {
						fn(key)
					}
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ FileStore: watch error: %v", err)

			case <-s.done:
				return
			}
		}
	}()
	return nil
}

func (s *FileStore) keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileStoreExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(base, fileStoreExt))
	if err != nil {
		return "", false
	}
	return key, true
}

// Close stops the directory watch. Safe to call multiple times.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
