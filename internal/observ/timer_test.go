package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	stop := tm.Measure("parse")
	stop("3 entries")
	stop("ignored")
	tm.Measure("render")("")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "3 entries" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[0].DurationMS != 1 || r.TotalMS != 2 || r.Phases[1].Count != 1 {
		t.Fatalf("unexpected durations %+v", r)
	}
	sum := tm.Report().Summary()
	if !strings.Contains(sum, "(3 entries)") || !strings.Contains(sum, "total") {
		t.Fatalf("summary = %q", sum)
	}
}

func TestReportMerge(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{
		{Name: "parse", DurationMS: 1, MaxMS: 1, Count: 1, Note: "x"},
		{Name: "render", DurationMS: 2, MaxMS: 2, Count: 1},
	}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{
		{Name: "sort", DurationMS: 1, MaxMS: 1, Count: 1, Note: "y"},
		{Name: "parse", DurationMS: 4, MaxMS: 4, Count: 1},
	}}
	a.Merge(b)

	if a.TotalMS != 8 || len(a.Phases) != 3 || a.Phases[2].Name != "sort" {
		t.Fatalf("unexpected merge %+v", a)
	}
	parse := a.Phases[0]
	if parse.DurationMS != 5 || parse.MaxMS != 4 || parse.Count != 2 || parse.Note != "" {
		t.Fatalf("merged parse = %+v", parse)
	}
	if a.Phases[2].Note != "" {
		t.Fatalf("notes must not survive a merge: %+v", a.Phases[2])
	}
	if !strings.Contains(a.Summary(), "x2") {
		t.Fatalf("summary should show the count:\n%s", a.Summary())
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}
}
