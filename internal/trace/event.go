package trace

import "time"

// Kind is begin, end or point.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{"unknown", "begin", "end", "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; smaller is coarser. Levels admit
// scopes up to a bound, see Level.ShouldEmit.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI run over many files
	ScopeFile                    // one .bib file
	ScopePass                    // parse, dedupe, sort, align, render, verify
	ScopeEntry                   // a single record or diagnostic
)

var scopeNames = [...]string{"unknown", "driver", "file", "pass", "entry"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is one trace record. SpanID is zero for points; File is empty for
// driver-level events.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	File     string
	Name     string
	Detail   string
	Err      string // set by Span.Fail
	Extra    map[string]string
}
