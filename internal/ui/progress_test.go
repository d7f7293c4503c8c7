package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bibfmt/internal/driver"
)

func TestApplyEventUpdatesRows(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("bibfmt fmt", []string{"a.bib", "b.bib", "c.bib"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.bib", Stage: driver.StageFormat, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.bib", Stage: driver.StageLoad, Status: driver.StatusCached, Elapsed: 3 * time.Millisecond})
	m.applyEvent(driver.Event{File: "unknown.bib", Stage: driver.StageFormat, Status: driver.StatusDone})

	if got := m.rows[0].label(); got != "formatting" {
		t.Fatalf("a.bib label = %q", got)
	}
	if got := m.rows[1].label(); got != "cached" {
		t.Fatalf("b.bib label = %q", got)
	}
	if got := m.rows[2].label(); got != "queued" {
		t.Fatalf("c.bib label = %q", got)
	}
	if got, want := m.fraction(), 1.5/3; got != want {
		t.Fatalf("fraction = %v, want %v", got, want)
	}
	view := m.View()
	for _, want := range []string{"bibfmt fmt", "a.bib", "formatting", "cached", "1/3 files", "3ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestVisibleRowsPrefersActiveFiles(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.bib", i)
	}
	m := NewProgressModel("t", files, nil).(*progressModel)
	last := len(files) - 1
	m.applyEvent(driver.Event{File: files[last], Stage: driver.StageFormat, Status: driver.StatusWorking})

	rows := m.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("visible rows = %d, want %d", len(rows), maxRows)
	}
	if rows[0] != last {
		t.Fatalf("first visible row = %d, want the working file %d", rows[0], last)
	}
	if !strings.Contains(m.View(), "+5 more") {
		t.Fatalf("view should fold hidden rows:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"refs.bib", 20, "refs.bib"},
		{"very/long/path/refs.bib", 12, ".../refs.bib"},
		{"日本語/x.bib", 8, "...x.bib"},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCtrlCMarksInterrupted(t *testing.T) {
	m := NewProgressModel("t", []string{"a.bib"}, nil).(*progressModel)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.Interrupted() {
		t.Fatal("Ctrl+C should quit and mark the model interrupted")
	}
}
