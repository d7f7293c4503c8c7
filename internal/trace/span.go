package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

func nextSeq() uint64    { return globalSeq.Add(1) }
func nextSpanID() uint64 { return globalSpans.Add(1) }

// Span is an open begin/end pair. A disabled span has ID 0 and emits nothing.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	file     string
	started  time.Time
	extra    map[string]string
}

// Start begins a span under the one recorded in ctx and returns a context
// in which it is the current span. The file tag is inherited.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sc := CurrentSpan(ctx)
	span := begin(FromContext(ctx), scope, name, sc)
	if span.id != 0 {
		ctx = WithSpanContext(ctx, SpanContext{SpanID: span.id, File: sc.File})
	}
	return ctx, span
}

func begin(t Tracer, scope Scope, name string, sc SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().tracks(scope) {
		return &Span{tracer: Nop}
	}

	id := nextSpanID()
	now := time.Now()
	t.Emit(&Event{
		Time:     now,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   id,
		ParentID: sc.SpanID,
		File:     sc.File,
		Name:     name,
	})

	return &Span{
		tracer:   t,
		id:       id,
		parentID: sc.SpanID,
		scope:    scope,
		name:     name,
		file:     sc.File,
		started:  now,
	}
}

// End emits SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	return s.end(detail, "")
}

// Fail ends the span as failed. At LevelError failed spans are the only
// events written.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.end("", "")
	}
	return s.end("error", err.Error())
}

func (s *Span) end(detail, errText string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		File:     s.file,
		Name:     s.name,
		Detail:   detail,
		Err:      errText,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
// Returns the span for method chaining.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Mark emits an instant event under the current span of ctx.
func Mark(ctx context.Context, scope Scope, name, detail string) {
	point(FromContext(ctx), scope, name, detail, CurrentSpan(ctx))
}

func point(t Tracer, scope Scope, name, detail string, sc SpanContext) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: sc.SpanID,
		File:     sc.File,
		Name:     name,
		Detail:   detail,
	})
}
