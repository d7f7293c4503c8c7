package trace

import "context"

// SpanContext is what child spans inherit: the parent span and the .bib
// file the work belongs to. Parallel files are told apart by File.
type SpanContext struct {
	SpanID uint64
	File   string
}

// state хранит трассировщик и текущий спан под одним ключом контекста.
type state struct {
	tracer Tracer
	span   SpanContext
}

type stateKey struct{}

func load(ctx context.Context) state {
	if ctx != nil {
		if st, ok := ctx.Value(stateKey{}).(state); ok {
			return st
		}
	}
	return state{tracer: Nop}
}

func store(ctx context.Context, st state) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, stateKey{}, st)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t; a nil t means Nop. The current span is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := load(ctx)
	st.tracer = t
	return store(ctx, st)
}

// CurrentSpan returns the span context of ctx; zero when none was set.
func CurrentSpan(ctx context.Context) SpanContext {
	return load(ctx).span
}

// WithSpanContext replaces the current span context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	st := load(ctx)
	st.span = sc
	return store(ctx, st)
}

// WithFile tags every event started from the returned context with path.
func WithFile(ctx context.Context, path string) context.Context {
	st := load(ctx)
	st.span.File = path
	return store(ctx, st)
}

// Enabled reports whether events of scope would be written from ctx.
// Callers use it to skip building expensive details.
func Enabled(ctx context.Context, scope Scope) bool {
	t := load(ctx).tracer
	return t.Enabled() && t.Level().ShouldEmit(scope)
}
