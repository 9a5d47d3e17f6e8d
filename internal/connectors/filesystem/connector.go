// Package filesystem reads a markdown corpus from a local directory tree
// and watches it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/logger"
)

// Verify interface compliance.
var (
	_ driven.CorpusSource  = (*Connector)(nil)
	_ driven.CorpusWatcher = (*Connector)(nil)
)

// DefaultDebounce is the quiet period before a change batch is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Connector lists, reads and watches the markdown files below a root.
type Connector struct {
	rootPath string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithDebounce sets the quiet period for Watch. Zero emits every event
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *Connector) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// New creates a filesystem connector rooted at rootPath.
func New(rootPath string, opts ...Option) *Connector {
	c := &Connector{
		rootPath: rootPath,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the corpus root.
func (c *Connector) Root() string {
	return c.rootPath
}

// Validate checks that the root exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("corpus root does not exist: %s", c.rootPath)
		}
		return fmt.Errorf("cannot access corpus root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus root is not a directory: %s", c.rootPath)
	}
	return nil
}

// List walks the root and returns every markdown file, sorted.
// Hidden files and directories are skipped. Unreadable subdirectories are
// logged and skipped; only an unreadable root fails the listing.
func (c *Connector) List(ctx context.Context) ([]string, error) {
	if err := c.Validate(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnreadable, err)
	}

	var paths []string
	err := filepath.WalkDir(c.rootPath, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == c.rootPath {
				return err
			}
			logger.Warn("skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == c.rootPath {
			return nil
		}
		if isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || !isMarkdown(d.Name()) {
			return nil
		}
		if rel, ok := RelativePath(c.rootPath, p); ok {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnreadable, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Read returns the content of a corpus file.
func (c *Connector) Read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := ResolvePath(c.rootPath, rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Watch starts a recursive watch of the root. Markdown changes are
// batched until no event arrives for the debounce period. The channel is
// closed when ctx is done or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.CorpusChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connector is closed")
	}
	if c.watcher != nil {
		return nil, errors.New("connector is already watching")
	}
	if err := c.Validate(ctx); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addTree(w, c.rootPath); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", c.rootPath, err)
	}
	c.watcher = w

	changes := make(chan domain.CorpusChange, 1)
	go c.loop(ctx, w, changes)
	return changes, nil
}

func (c *Connector) loop(ctx context.Context, w *fsnotify.Watcher, out chan<- domain.CorpusChange) {
	defer close(out)

	pending := map[string]struct{}{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() bool {
		if len(pending) == 0 {
			return true
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		clear(pending)

		select {
		case out <- domain.CorpusChange{Paths: paths, At: time.Now()}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			rel, ok := c.handleFsEvent(w, event)
			if !ok {
				continue
			}
			pending[rel] = struct{}{}
			if c.debounce == 0 {
				if !flush() {
					return
				}
				continue
			}
			timer.Reset(c.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("corpus watcher: %v", err)
		case <-timer.C:
			if !flush() {
				return
			}
		}
	}
}

// handleFsEvent filters a raw event down to a corpus-relative path.
// New directories are added to the watch so the watch stays recursive.
func (c *Connector) handleFsEvent(w *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	rel, ok := RelativePath(c.rootPath, event.Name)
	if !ok || hiddenPath(rel) {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w != nil {
				if err := addTree(w, event.Name); err != nil {
					logger.Warn("corpus watcher: %v", err)
				}
			}
			return rel, true
		}
	}

	// Removed or renamed directories cannot be stat'ed; any path without
	// a markdown extension is only reported for those operations.
	if isMarkdown(rel) {
		return rel, true
	}
	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(rel) == "" {
		return rel, true
	}
	return "", false
}

// Close stops any active watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// addTree watches dir and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// isHidden reports whether a single path element is hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// hiddenPath reports whether any element of a slash path is hidden.
func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if isHidden(part) {
			return true
		}
	}
	return false
}
