// Package observ measures engine stages and aggregates the measurements
// across files.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timer записывает длительности стадий одного документа.
// Не потокобезопасен: один Timer на вызов движка.
type Timer struct {
	now    func() time.Time
	phases []PhaseReport
	total  time.Duration
}

func NewTimer() *Timer {
	return &Timer{now: time.Now, phases: make([]PhaseReport, 0, 6)}
}

// Measure starts a stage and returns the function that stops it with an
// optional note.
func (t *Timer) Measure(name string) func(note string) {
	start := t.now()
	stopped := false
	return func(note string) {
		if stopped {
			return
		}
		stopped = true
		d := t.now().Sub(start)
		t.total += d
		ms := millis(d)
		t.phases = append(t.phases, PhaseReport{Name: name, DurationMS: ms, MaxMS: ms, Count: 1, Note: note})
	}
}

// Report returns the stages in the order they finished.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	return Report{TotalMS: millis(t.total), Phases: append([]PhaseReport(nil), t.phases...)}
}

// PhaseReport is one stage. After Merge, DurationMS is the sum over all
// merged reports, Count how many of them had the stage and MaxMS the
// slowest single run.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	MaxMS      float64 `json:"max_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Merge folds other into r by stage name, keeping first-seen order.
// Notes are per document and are dropped from merged stages.
func (r *Report) Merge(other Report) {
	for _, p := range other.Phases {
		i := r.index(p.Name)
		if i < 0 {
			p.Note = ""
			r.Phases = append(r.Phases, p)
			continue
		}
		cur := &r.Phases[i]
		cur.DurationMS += p.DurationMS
		cur.Count += p.Count
		cur.MaxMS = max(cur.MaxMS, p.MaxMS)
		cur.Note = ""
	}
	r.TotalMS += other.TotalMS
}

func (r *Report) index(name string) int {
	for i := range r.Phases {
		if r.Phases[i].Name == name {
			return i
		}
	}
	return -1
}

// Summary renders a table for --timings. Count and max columns appear only
// for stages measured more than once.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  x%-4d max %.2f ms", p.Count, p.MaxMS)
		}
		if p.Note != "" {
			b.WriteString("  (" + p.Note + ")")
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}
