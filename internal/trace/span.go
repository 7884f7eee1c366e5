package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open interval of work. A disabled span (tracer off or scope
// filtered by the level) is still safe to use and records nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	file    string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.id != 0
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, parent, "")
}

// Start opens a span under the current span of ctx and returns a context in
// which the new span is current. The file of the parent carries over.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	b := bound(ctx)
	s := begin(b.tracer, scope, name, b.span.SpanID, b.span.File)
	if !s.live() {
		return ctx, s
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, File: s.file}), s
}

// StartFile is Start for the span covering one input file.
func StartFile(ctx context.Context, name, file string) (context.Context, *Span) {
	ctx = WithSpanContext(ctx, SpanContext{SpanID: CurrentSpan(ctx).SpanID, File: file})
	return Start(ctx, ScopeFile, name)
}

// wants reports whether t records events of scope. LevelError tracers take
// everything and keep it for the failure dump.
func wants(t Tracer, scope Scope) bool {
	if t == nil || !t.Enabled() {
		return false
	}
	return t.Level() == LevelError || t.Level().ShouldEmit(scope)
}

func begin(t Tracer, scope Scope, name string, parent uint64, file string) *Span {
	if !wants(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		scope:   scope,
		name:    name,
		file:    file,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "", nil)
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		File:     s.file,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// Child opens a span under s with the same tracer and file.
func (s *Span) Child(scope Scope, name string) *Span {
	if !s.live() {
		return &Span{}
	}
	return begin(s.tracer, scope, name, s.id, s.file)
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.started)
}

// WithExtra records a key-value pair for the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// Point emits an instant event inside s.
func (s *Span) Point(name, detail string) {
	if !s.live() || !wants(s.tracer, ScopeNode) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    ScopeNode,
		ParentID: s.id,
		File:     s.file,
		Name:     name,
		Detail:   detail,
	})
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !wants(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
