package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory for a dump after a failure.
type RingTracer struct {
	leveled
	mu      sync.Mutex
	events  []Event
	written uint64 // total events ever stored
}

// NewRingTracer creates a ring holding capacity events (4096 when <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{leveled: leveled{level}, events: make([]Event, capacity)}
}

// Emit stores ev, overwriting the oldest event when full. At LevelError
// every event is kept so the dump shows what led to the failure.
func (t *RingTracer) Emit(ev *Event) {
	if t.level == LevelOff {
		return
	}
	if t.level > LevelError && ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	slot := &t.events[t.written%uint64(len(t.events))]
	*slot = *ev
	slot.Seq = NextSeq()
	t.written++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := uint64(len(t.events))
	n := min(t.written, size)
	out := make([]Event, 0, n)
	for i := t.written - n; i < t.written; i++ {
		out = append(out, t.events[i%size])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
