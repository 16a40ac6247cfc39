package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Provider supplies the policy for an activity. Implementations must be
// safe for concurrent use.
type Provider interface {
	// PolicyFor returns the policy governing the given activity.
	PolicyFor(activityID string) *Policy
}

// StaticProvider returns the same policy for every activity. Useful for
// tests and single-activity deployments.
type StaticProvider struct {
	policy *Policy
}

// NewStaticProvider creates a provider around a fixed policy.
func NewStaticProvider(p *Policy) *StaticProvider {
	if p == nil {
		p = Default()
	}
	return &StaticProvider{policy: p}
}

// PolicyFor returns the fixed policy.
func (s *StaticProvider) PolicyFor(string) *Policy {
	return s.policy
}

// FileProvider loads a multi-activity policy file and reloads it when the
// file changes on disk. Reloads are debounced to prevent reload storms, and
// a reload that fails validation keeps the previous policies in effect.
type FileProvider struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration

	mu         sync.RWMutex
	activities map[string]*Policy
	fallback   *Policy

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewFileProvider creates a provider for the given policy file and performs
// the initial load.
func NewFileProvider(path string, logger *slog.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fp := &FileProvider{
		path:     path,
		logger:   logger.With("component", "policy.provider"),
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	if err := fp.Reload(); err != nil {
		return nil, err
	}

	return fp, nil
}

// PolicyFor returns the policy for the activity, or the file's default
// policy when the activity has no specific entry.
func (fp *FileProvider) PolicyFor(activityID string) *Policy {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	if p, ok := fp.activities[activityID]; ok {
		return p
	}
	return fp.fallback
}

// Reload re-reads the policy file. On failure the previous policies remain
// in effect and the error is returned.
func (fp *FileProvider) Reload() error {
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return fmt.Errorf("failed to read policy file %s: %w", fp.path, err)
	}

	activities, fallback, err := LoadSet(data)
	if err != nil {
		return err
	}

	fp.mu.Lock()
	fp.activities = activities
	fp.fallback = fallback
	fp.mu.Unlock()

	fp.logger.Info("policies loaded",
		"path", fp.path,
		"activity_count", len(activities),
	)

	return nil
}

// Watch starts watching the policy file for changes. It blocks until the
// context is cancelled or Stop is called.
func (fp *FileProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()
	defer close(fp.doneCh)

	// Watch the directory: editors replace files on save, which drops the
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(fp.path)); err != nil {
		return fmt.Errorf("failed to watch policy directory: %w", err)
	}

	fp.logger.Info("policy watcher started", "path", fp.path)

	var timer *time.Timer
	reload := func() {
		if err := fp.Reload(); err != nil {
			fp.logger.Error("policy reload failed, keeping previous policies",
				"path", fp.path,
				"error", err,
			)
		}
	}

	for {
		select {
		case <-ctx.Done():
			fp.logger.Info("policy watcher stopped (context cancelled)")
			return nil

		case <-fp.stopCh:
			fp.logger.Info("policy watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(fp.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce rapid successive writes.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(fp.debounce, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fp.logger.Error("policy watcher error", "error", err)
		}
	}
}

// Stop stops the watcher if it is running.
func (fp *FileProvider) Stop() {
	close(fp.stopCh)
}
