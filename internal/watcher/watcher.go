// Package watcher turns file-system events into autocrop trigger
// identities: new PNG files appearing under the watched folder.
package watcher

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/vault"
)

// Options configures a Watcher.
type Options struct {
	// Grace drops events arriving within this duration after Start. Vault
	// sync tools fire a storm of create events on startup; none of them are
	// genuinely new images.
	Grace time.Duration

	// Debounce collapses rapid successive events for the same path into a
	// single trigger (a file being written in chunks fires create then
	// several writes).
	Debounce time.Duration

	// Now is the clock used for the startup gate; nil defaults to
	// time.Now. Injected so the gate can be tested without sleeping.
	Now func() time.Time
}

// timer is the stoppable handle produced by the watcher's timer factory.
// Stop cannot cancel a callback that has already started running, which is
// why emits are additionally gated on the done channel.
type timer interface {
	Stop() bool
}

// Watcher monitors a folder tree for new PNG files.
type Watcher struct {
	root     string
	grace    time.Duration
	debounce time.Duration
	now      func() time.Time
	// after schedules a debounce callback; swapped out in tests so the
	// debounce can be exercised without real wall-clock delays.
	after func(d time.Duration, f func()) timer

	fs        *fsnotify.Watcher
	events    chan string
	done      chan struct{}
	startedAt time.Time

	mu     sync.Mutex
	closed bool
	timers map[string]timer
}

// New creates a watcher for the given folder. The folder must exist.
func New(root string, opts Options) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watched folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watched folder %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Watcher{
		root:     root,
		grace:    opts.Grace,
		debounce: opts.Debounce,
		now:      now,
		after: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		fs:     fsw,
		events: make(chan string, 100),
		done:   make(chan struct{}),
		timers: make(map[string]timer),
	}, nil
}

// Start begins monitoring the folder tree and opens the startup grace
// window.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) && path != w.root {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.startedAt = w.now()
	go w.loop()
	return nil
}

// Events returns the channel of triggered image identities.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Stop stops the watcher. The events channel is never closed: a debounce
// callback that already fired may still be blocked mid-send, and closing
// under it would panic. Pending sends are released through the done channel
// instead; callers stop reading Events after Stop returns.
func (w *Watcher) Stop() error {
	err := w.fs.Close()
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[autocrop] watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	// New subdirectories join the watch set (except backup folders).
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !skipDir(filepath.Base(event.Name)) {
				if err := w.fs.Add(event.Name); err != nil {
					log.Printf("[autocrop] watch %s: %v", event.Name, err)
				}
			}
			return
		}
	}

	if !w.eligible(event.Name) {
		return
	}
	if w.inGrace() {
		return
	}

	w.trigger(event.Name)
}

// inGrace reports whether the startup grace window is still open. Events in
// the window are dropped.
func (w *Watcher) inGrace() bool {
	return w.now().Sub(w.startedAt) < w.grace
}

// trigger emits the path after the debounce window, resetting the window if
// another event for the same path arrives first.
func (w *Watcher) trigger(path string) {
	if w.debounce <= 0 {
		w.emit(path)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = w.after(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.emit(path)
	})
}

// emit sends a path to the events channel unless the watcher has been
// stopped; a send blocked on a full buffer is released by Stop.
func (w *Watcher) emit(path string) {
	select {
	case w.events <- path:
	case <-w.done:
	}
}

// eligible applies the trigger filters: PNG extension, not hidden, not
// inside the backup convention.
func (w *Watcher) eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if !strings.EqualFold(filepath.Ext(base), ".png") {
		return false
	}
	return !vault.IsBackupPath(path)
}

// skipDir reports whether a directory should be excluded from the watch
// set: hidden folders and the backup convention.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == vault.BackupDirName
}
