package trace

import (
	"io"
	"sync"
)

// leveled supplies Level and Enabled to the tracers.
type leveled struct{ level Level }

func (l leveled) Level() Level  { return l.level }
func (l leveled) Enabled() bool { return l.level > LevelOff }

type nopTracer struct{ leveled }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop records nothing. It is what FromContext returns without a tracer.
var Nop Tracer = nopTracer{}

// StreamTracer writes each event to w as soon as it is emitted, so a trace
// of a hung run ends at the point where it hung.
type StreamTracer struct {
	leveled
	mu     sync.Mutex
	w      io.Writer
	format Format
	runID  string
	buf    []byte
}

// NewStreamTracer stamps every event it writes with runID.
func NewStreamTracer(w io.Writer, level Level, format Format, runID string) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{leveled: leveled{level}, w: w, format: format, runID: runID}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	out := *ev
	out.Seq = NextSeq()
	out.RunID = t.runID

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatNDJSON {
		t.buf = appendJSON(t.buf[:0], &out)
	} else {
		t.buf = appendText(t.buf[:0], &out)
	}
	// ошибки записи трассы не должны ронять генерацию
	_, _ = t.w.Write(t.buf) //nolint:errcheck
}

// Flush flushes w when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w when it is an io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
