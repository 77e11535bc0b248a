// Package watch reports debounced changes to a set of files.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/readstat/internal/logger"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultMaxBatch = 64
)

// Watcher watches the parent directories of its targets, so files replaced
// by editors through a rename keep being reported. A file is reported only
// when its content differs from what was last seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	maxBatch  int
	onChange  func([]string)
	files     map[string]bool
	dirs      map[string]bool
	sums      map[string][sha256.Size]byte
	log       zerolog.Logger
}

// New watches paths, each a file or a directory whose direct children are
// watched. onChange receives sorted absolute paths and runs on the Run
// goroutine.
func New(paths []string, debounce time.Duration, maxBatch int, onChange func([]string)) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		maxBatch:  maxBatch,
		onChange:  onChange,
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		sums:      make(map[string][sha256.Size]byte),
		log:       logger.ForComponent("watch"),
	}

	watched := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, err
		}
		dir := filepath.Dir(abs)
		if info.IsDir() {
			dir = abs
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
		}
		if watched[dir] {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
		w.log.Debug().Str("dir", dir).Msg("watching directory")
	}

	for _, path := range w.Targets() {
		if sum, err := fileSum(path); err == nil {
			w.sums[path] = sum
		}
	}
	return w, nil
}

// Targets lists the files currently covered: every file target plus the
// regular files directly inside directory targets. Paths are absolute and
// sorted.
func (w *Watcher) Targets() []string {
	seen := make(map[string]bool, len(w.files))
	for path := range w.files {
		seen[path] = true
	}
	for dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("failed to list directory")
			continue
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !ignored(e.Name()) {
				seen[filepath.Join(dir, e.Name())] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	slices.Sort(out)
	return out
}

// Run delivers changes until ctx is done or the watcher is closed. Changes
// are held until no event arrived for the debounce window, or until
// maxBatch distinct files are pending. Pending changes are delivered
// before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	b := newBatch(w.maxBatch)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var quiet <-chan time.Time

	flush := func() {
		timer.Stop()
		quiet = nil
		w.deliver(b.take())
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return nil

		case <-quiet:
			flush()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				flush()
				return nil
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file event")
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			if b.add(event.Name) {
				flush()
				continue
			}
			timer.Reset(w.debounce)
			quiet = timer.C

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				flush()
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// deliver drops files whose content is unchanged since they were last seen.
func (w *Watcher) deliver(paths []string) {
	changed := paths[:0]
	for _, path := range paths {
		sum, err := fileSum(path)
		if err != nil {
			w.log.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			delete(w.sums, path)
			continue
		}
		if prev, ok := w.sums[path]; ok && prev == sum {
			w.log.Debug().Str("path", path).Msg("content unchanged")
			continue
		}
		w.sums[path] = sum
		changed = append(changed, path)
	}
	if len(changed) > 0 && w.onChange != nil {
		w.onChange(changed)
	}
}

func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] || ignored(filepath.Base(path)) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// ignored reports editor swap, backup and hidden files inside watched
// directories.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasPrefix(name, "#")
}

func fileSum(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// batch collects distinct changed paths between deliveries.
type batch struct {
	limit   int
	pending map[string]struct{}
}

func newBatch(limit int) *batch {
	return &batch{limit: limit, pending: make(map[string]struct{})}
}

// add records path and reports whether the batch is full.
func (b *batch) add(path string) bool {
	b.pending[path] = struct{}{}
	return b.limit > 0 && len(b.pending) >= b.limit
}

// take empties the batch and returns its paths sorted.
func (b *batch) take() []string {
	if len(b.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	clear(b.pending)
	slices.Sort(paths)
	return paths
}
