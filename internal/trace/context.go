package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, or Nop when none is attached.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, ctxKey{}, OrNop(t))
}
