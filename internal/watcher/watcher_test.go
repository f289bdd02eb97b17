package watcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, opts Options) *Watcher {
	t.Helper()
	w, err := New(t.TempDir(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { w.fs.Close() })
	return w
}

func TestNew_RejectsMissingFolder(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), Options{})
	assert.Error(t, err)
}

func TestEligible(t *testing.T) {
	w := newTestWatcher(t, Options{})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"png", filepath.Join("vault", "art.png"), true},
		{"uppercase extension", filepath.Join("vault", "ART.PNG"), true},
		{"jpeg", filepath.Join("vault", "photo.jpg"), false},
		{"markdown", filepath.Join("vault", "note.md"), false},
		{"hidden file", filepath.Join("vault", ".art.png"), false},
		{"backup path", filepath.Join("vault", "_originals", "art.png"), false},
		{"nested backup path", filepath.Join("vault", "a", "_originals", "b.png"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.eligible(tt.path))
		})
	}
}

func TestSkipDir(t *testing.T) {
	assert.True(t, skipDir("_originals"))
	assert.True(t, skipDir(".obsidian"))
	assert.False(t, skipDir("attachments"))
}

func TestStartupGate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := newTestWatcher(t, Options{
		Grace: 3 * time.Second,
		Now:   func() time.Time { return now },
	})
	require.NoError(t, w.Start())

	assert.True(t, w.inGrace(), "events right after start must be gated")

	now = now.Add(2 * time.Second)
	assert.True(t, w.inGrace(), "still inside the grace window")

	now = now.Add(2 * time.Second)
	assert.False(t, w.inGrace(), "gate must open after the grace window")
}

// fakeTimer records Stop calls; its callback is fired manually by the test.
type fakeTimer struct {
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// installFakeTimers replaces the watcher's timer factory with one that
// collects timers instead of scheduling real callbacks.
func installFakeTimers(w *Watcher) *[]*fakeTimer {
	timers := &[]*fakeTimer{}
	w.after = func(d time.Duration, f func()) timer {
		ft := &fakeTimer{fire: f}
		*timers = append(*timers, ft)
		return ft
	}
	return timers
}

func TestTrigger_DebounceCollapsesRapidEvents(t *testing.T) {
	w := newTestWatcher(t, Options{Debounce: 500 * time.Millisecond})
	timers := installFakeTimers(w)

	// A file written in chunks: create followed quickly by a write.
	w.trigger("a.png")
	w.trigger("a.png")

	require.Len(t, *timers, 2)
	assert.True(t, (*timers)[0].stopped, "the first timer must be cancelled by the second event")
	assert.False(t, (*timers)[1].stopped)

	// Only the surviving timer fires.
	(*timers)[1].fire()

	select {
	case path := <-w.Events():
		assert.Equal(t, "a.png", path)
	default:
		t.Fatal("expected one event after the debounce window")
	}
	select {
	case path := <-w.Events():
		t.Fatalf("unexpected second event %q", path)
	default:
	}
}

func TestTrigger_DistinctPathsDebounceIndependently(t *testing.T) {
	w := newTestWatcher(t, Options{Debounce: 500 * time.Millisecond})
	timers := installFakeTimers(w)

	w.trigger("a.png")
	w.trigger("b.png")

	require.Len(t, *timers, 2)
	assert.False(t, (*timers)[0].stopped)
	assert.False(t, (*timers)[1].stopped)
}

func TestStop_ReleasesBlockedEmit(t *testing.T) {
	// A debounce callback that already fired can be blocked mid-send on a
	// full events buffer when Stop runs; Stop must release it instead of
	// panicking the process.
	w := newTestWatcher(t, Options{})

	for i := 0; i < cap(w.events); i++ {
		w.trigger("fill.png")
	}

	released := make(chan struct{})
	go func() {
		w.trigger("overflow.png")
		close(released)
	}()

	require.NoError(t, w.Stop())

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("emit stayed blocked after Stop")
	}
}

func TestTrigger_AfterStopIsDropped(t *testing.T) {
	w := newTestWatcher(t, Options{Debounce: 500 * time.Millisecond})
	timers := installFakeTimers(w)

	require.NoError(t, w.Stop())
	w.trigger("a.png")

	assert.Empty(t, *timers, "no debounce timer may be scheduled after Stop")
}

func TestStartupGate_ZeroGrace(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := newTestWatcher(t, Options{
		Now: func() time.Time { return now },
	})
	require.NoError(t, w.Start())

	assert.False(t, w.inGrace(), "zero grace never gates")
}
