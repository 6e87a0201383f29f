// Package watch reports changes to the files the docs page and index are built
// from. Bursts of filesystem events are coalesced into a single change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/logger"
)

// DefaultDebounce is how long the tree must stay quiet before a change is
// reported
const DefaultDebounce = 300 * time.Millisecond

// Config holds watcher settings
type Config struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively.
	Paths      []string
	IgnoreDirs []string
	// IgnoreFiles are exact files whose changes are never reported, such as
	// a log file written under a watched directory
	IgnoreFiles []string
	Debounce    time.Duration
}

// NewConfig returns a Config with default values
func NewConfig(paths ...string) Config {
	return Config{
		Paths:      paths,
		IgnoreDirs: []string{".git", "node_modules"},
		Debounce:   DefaultDebounce,
	}
}

// Validate returns an error if the config is unusable
func (c Config) Validate() error {
	if len(c.Paths) == 0 {
		return errors.New("no paths to watch")
	}
	if c.Debounce < 0 {
		return errors.Errorf("debounce time cannot be negative: %s", c.Debounce)
	}
	return nil
}

// Change describes a coalesced burst of events
type Change struct {
	// Path is the last file that changed
	Path   string
	Events int
	Time   time.Time
}

// Watcher watches the configured paths
type Watcher struct {
	config      Config
	watcher     *fsnotify.Watcher
	ignoreFiles map[string]struct{}
}

// New creates a watcher and registers every configured path. Missing paths
// are skipped so a file created later in a watched directory is still seen.
func New(ctx context.Context, config Config) (*Watcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	w := &Watcher{config: config, watcher: fw, ignoreFiles: map[string]struct{}{}}
	for _, f := range config.IgnoreFiles {
		if f == "" {
			continue
		}
		w.ignoreFiles[absPath(f)] = struct{}{}
	}
	for _, p := range config.Paths {
		if err := w.add(ctx, p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run delivers coalesced changes to onChange until ctx is done or the
// watcher is closed. onChange runs on the watcher goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) {
	log := logger.G(ctx).WithField("component", "watch")

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Change
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.ignored(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(ctx, event.Name); err != nil {
						log.WithError(err).WithField("directory", event.Name).Debug("failed to watch new directory")
					}
				}
			}

			pending.Path = event.Name
			pending.Events++
			pending.Time = time.Now()

			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.WithFields(map[string]interface{}{
				"file":   pending.Path,
				"events": pending.Events,
			}).Debug("change detected")
			onChange(pending)
			pending = Change{}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Error("error watching files")

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) add(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.G(ctx).WithField("path", root).Debug("skipping missing watch path")
			return nil
		}
		return errors.Wrapf(err, "failed to stat %s", root)
	}

	if !info.IsDir() {
		// Watch the parent so editors that replace files on save are seen
		return errors.Wrapf(w.watcher.Add(filepath.Dir(root)), "failed to watch %s", root)
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		logger.G(ctx).WithField("directory", path).Debug("adding directory to watcher")
		return errors.Wrapf(w.watcher.Add(path), "failed to watch %s", path)
	})
}

func (w *Watcher) ignored(path string) bool {
	if _, ok := w.ignoreFiles[absPath(path)]; ok {
		return true
	}
	for _, dir := range w.config.IgnoreDirs {
		if filepath.Base(path) == dir || strings.Contains(path, string(os.PathSeparator)+dir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
