package pipeline

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// defaultSelfTriggerWindow bounds how long a write-back is recognized as our
// own output. One minute comfortably covers event delivery latency while
// keeping the memory of past writes from growing with vault size.
const defaultSelfTriggerWindow = time.Minute

// Storage is the narrow contract the runner needs from the vault layer.
type Storage interface {
	// Read returns the current bytes of an identity.
	Read(path string) ([]byte, error)

	// Write replaces the bytes of an identity. Only called after a fully
	// successful encode.
	Write(path string, data []byte) error

	// EnsureBackup preserves a pristine copy of an identity before its
	// first processing. It must not overwrite an existing backup. Returns
	// true when a new backup was created.
	EnsureBackup(path string) (bool, error)

	// IsBackupPath reports whether an identity lies inside the backup
	// naming convention and must never be processed.
	IsBackupPath(path string) bool
}

// Runner connects the trigger surface to the pipeline: it filters incoming
// identities, enforces at-most-one run per identity, preserves backups and
// writes results back through storage.
type Runner struct {
	store    Storage
	pipe     *Pipeline
	inflight *Inflight

	// watchedFolder restricts processing to identities under this root;
	// empty means no restriction (one-shot CLI use).
	watchedFolder string
	keepBackup    bool
	verbose       bool

	// written remembers the content hash of the bytes last written per
	// identity, so the watch event caused by our own write-back is
	// recognized and skipped instead of re-processing the output. Entries
	// expire after window so the map stays bounded by recent activity.
	now     Clock
	window  time.Duration
	mu      sync.Mutex
	written map[string]writeRecord
}

// writeRecord is the content hash of a write-back and when it happened.
type writeRecord struct {
	hash uint64
	at   time.Time
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// WatchedFolder restricts processing to identities under this path.
	// Empty disables the restriction.
	WatchedFolder string

	// KeepBackup preserves a pristine copy under _originals before the
	// first processing of an identity.
	KeepBackup bool

	// Verbose logs one line per decision (processed, skipped, why).
	Verbose bool

	// SelfTriggerWindow is how long a write-back is recognized as the
	// runner's own output; zero defaults to one minute.
	SelfTriggerWindow time.Duration

	// Now is the clock used for write-back expiry; nil defaults to
	// time.Now.
	Now Clock
}

// NewRunner creates a runner. A nil pipe models an unavailable processing
// capability: every Handle call then fails with ErrUnavailable without
// touching storage.
func NewRunner(store Storage, pipe *Pipeline, inflight *Inflight, opts RunnerOptions) *Runner {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	window := opts.SelfTriggerWindow
	if window <= 0 {
		window = defaultSelfTriggerWindow
	}
	return &Runner{
		store:         store,
		pipe:          pipe,
		inflight:      inflight,
		watchedFolder: opts.WatchedFolder,
		keepBackup:    opts.KeepBackup,
		verbose:       opts.Verbose,
		now:           now,
		window:        window,
		written:       make(map[string]writeRecord),
	}
}

// Handle processes one image identity end to end.
//
// It returns (true, nil) when the identity was processed and written back,
// (false, nil) when the identity was filtered or another run for it is in
// flight, and (false, err) when processing failed. On failure the stored
// bytes are left untouched.
func (r *Runner) Handle(path string) (bool, error) {
	if !r.eligible(path) {
		return false, nil
	}

	if !r.inflight.TryAcquire(path) {
		r.logf("skip (in flight): %s", path)
		return false, nil
	}
	defer r.inflight.Release(path)

	if r.pipe == nil {
		return false, fmt.Errorf("%s: %w", path, ErrUnavailable)
	}

	data, err := r.store.Read(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	// Our own write-back re-triggers the watcher; recognize it by content.
	if r.wroteBytes(path, data) {
		r.logf("skip (own output): %s", path)
		return false, nil
	}

	if r.keepBackup {
		created, err := r.store.EnsureBackup(path)
		if err != nil {
			return false, fmt.Errorf("backup %s: %w", path, err)
		}
		if created {
			r.logf("backup created: %s", path)
		}
	}

	out, err := r.pipe.Process(data)
	if err != nil {
		return false, fmt.Errorf("process %s: %w", path, err)
	}

	r.rememberWrite(path, out)
	if err := r.store.Write(path, out); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	r.logf("processed: %s (%d -> %d bytes)", path, len(data), len(out))
	return true, nil
}

// eligible applies the trigger filters: PNG extension, inside the watched
// folder, outside the backup convention.
func (r *Runner) eligible(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return false
	}
	if r.store.IsBackupPath(path) {
		return false
	}
	if r.watchedFolder != "" {
		rel, err := filepath.Rel(r.watchedFolder, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func (r *Runner) wroteBytes(path string, data []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepWritten()
	rec, ok := r.written[path]
	return ok && rec.hash == xxhash.Sum64(data)
}

func (r *Runner) rememberWrite(path string, data []byte) {
	r.mu.Lock()
	r.sweepWritten()
	r.written[path] = writeRecord{hash: xxhash.Sum64(data), at: r.now()}
	r.mu.Unlock()
}

// sweepWritten evicts write records older than the self-trigger window.
// Callers must hold mu.
func (r *Runner) sweepWritten() {
	cutoff := r.now().Add(-r.window)
	for path, rec := range r.written {
		if rec.at.Before(cutoff) {
			delete(r.written, path)
		}
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.verbose {
		log.Printf("[autocrop] "+format, args...)
	}
}
