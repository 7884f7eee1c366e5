package trace

import "context"

// SpanContext is the span a context is currently inside of.
type SpanContext struct {
	SpanID uint64
	File   string
}

// binding is what a context carries: the tracer and the innermost span.
type binding struct {
	tracer Tracer
	span   SpanContext
}

type bindingKey struct{}

func bound(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(bindingKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return bound(ctx).tracer
}

// WithTracer attaches t to ctx, keeping the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	b := bound(ctx)
	b.tracer = t
	return context.WithValue(ctx, bindingKey{}, b)
}

// CurrentSpan returns the innermost span of ctx; zero when there is none.
func CurrentSpan(ctx context.Context) SpanContext {
	return bound(ctx).span
}

// WithSpanContext makes sc the current span of ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	b := bound(ctx)
	b.span = sc
	return context.WithValue(ctx, bindingKey{}, b)
}
