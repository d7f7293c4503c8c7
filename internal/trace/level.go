package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only spans that failed
	LevelPhase               // driver run and per-file spans
	LevelDetail              // plus pipeline stages
	LevelDebug               // everything including entries
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are written at this level.
// LevelError writes no scope by itself, only failures (see Admits).
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeFile
	case LevelDetail:
		return scope <= ScopePass
	case LevelDebug:
		return true
	}
	return false
}

// tracks reports whether spans of scope must be opened at all; at
// LevelError every span is opened so that Fail can report it.
func (l Level) tracks(scope Scope) bool {
	return l == LevelError || l.ShouldEmit(scope)
}

// Admits is the final filter applied by every tracer.
func (l Level) Admits(ev *Event) bool {
	if l == LevelError {
		return ev.Err != ""
	}
	return l.ShouldEmit(ev.Scope)
}
