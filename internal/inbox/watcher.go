// Package inbox watches a directory for résumé documents dropped into it.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumeparse/internal/domain"
)

// DefaultDebounce is the quiet period after the last write to a file before
// it is reported.
const DefaultDebounce = 500 * time.Millisecond

// Config holds watcher settings.
type Config struct {
	Dir         string
	InitialScan bool
	Debounce    time.Duration
}

// Watch reports the paths of supported documents created or written under
// cfg.Dir, recursively. Each path is reported once per burst of writes. The
// returned channel is closed when ctx is done.
func Watch(ctx context.Context, cfg Config) (<-chan string, error) {
	if cfg.Dir == "" {
		return nil, errors.New("inbox.Watch: no directory given")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("inbox.Watch: %w", err)
	}

	var existing []string
	err = filepath.WalkDir(cfg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && Supported(path) {
			existing = append(existing, path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("inbox.Watch: adding %s: %w", cfg.Dir, err)
	}

	out := make(chan string, 64)
	d := &debouncer{delay: cfg.Debounce, out: out, timers: make(map[string]*time.Timer)}

	go func() {
		defer close(out)
		defer func() { _ = w.Close() }()
		defer d.stop()

		for _, p := range existing {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					// New subdirectories are watched too; files fail Add and are ignored.
					_ = w.Add(ev.Name)
				}
				if Supported(ev.Name) && (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) {
					d.touch(ev.Name)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("inbox.Watch: watcher error: %v", err)
			}
		}
	}()

	return out, nil
}

// Supported reports whether a path has an extension the extractor accepts.
func Supported(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := domain.AllowedExtensions[ext]
	return ok
}

// debouncer emits a path once no event for it has arrived for delay.
type debouncer struct {
	delay time.Duration
	out   chan<- string

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func (d *debouncer) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.timers[path] = time.AfterFunc(d.delay, func() { d.fire(path) })
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	delete(d.timers, path)
	select {
	case d.out <- path:
	default:
		log.Printf("inbox.Watch: dropping %s, consumer is behind", path)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for _, t := range d.timers {
		t.Stop()
	}
}
