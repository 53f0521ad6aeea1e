package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider loads secrets from one file per secret in a directory, the
// layout Kubernetes uses for mounted secrets. Files must be mode 0600 or
// 0400.
type FileProvider struct {
	basePath string

	watcher  *fsnotify.Watcher
	onChange func(name string)
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// FileOption customizes a FileProvider.
type FileOption func(*FileProvider)

// WithChangeHandler watches the directory and calls fn with the secret name
// whenever a file in it is written, created, renamed or removed.
func WithChangeHandler(fn func(name string)) FileOption {
	return func(p *FileProvider) {
		p.onChange = fn
	}
}

// NewFileProvider creates a file-based secret provider for basePath.
func NewFileProvider(basePath string, opts ...FileOption) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", basePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve secrets directory: %w", err)
	}

	p := &FileProvider{
		basePath: abs,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.onChange == nil {
		close(p.done)
		slog.Info("file secret provider started", "path", abs, "watch", false)
		return p, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(abs); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch secrets directory: %w", err)
	}
	p.watcher = watcher
	go p.watchLoop()

	slog.Info("file secret provider started", "path", abs, "watch", true)
	return p, nil
}

// GetSecret reads <basePath>/<name>, trimming surrounding whitespace.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	path := filepath.Join(p.basePath, name)
	if filepath.Dir(path) != p.basePath {
		return "", fmt.Errorf("invalid secret name %q: must be a plain file name", name)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s (file)", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}
	if mode := info.Mode().Perm(); mode != 0o600 && mode != 0o400 {
		return "", fmt.Errorf("insecure permissions on secret %s: %o (expected 0600 or 0400)", name, mode)
	}

	// #nosec G304 - path is confined to basePath above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Name returns "file".
func (p *FileProvider) Name() string {
	return "file"
}

// Close stops the watcher, if any, and waits for it to exit.
func (p *FileProvider) Close() error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopCh)
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	<-p.done
	return err
}

func (p *FileProvider) watchLoop() {
	defer close(p.done)

	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&changed == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			slog.Debug("secret file changed", "file", name, "op", event.Op.String())
			p.onChange(name)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("secret file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}
