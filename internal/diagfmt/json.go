package diagfmt

import (
	"io"

	"github.com/goccy/go-json"

	"bibfmt/internal/diag"
	"bibfmt/internal/source"
)

// Position is a 1-based line and byte column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location is a byte range in a file; Start and End positions are filled
// only when JSONOpts.IncludePositions is set.
type Location struct {
	File      string    `json:"file"`
	StartByte uint32    `json:"start_byte"`
	EndByte   uint32    `json:"end_byte"`
	Start     *Position `json:"start,omitempty"`
	End       *Position `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Location Location   `json:"location"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root object of a JSON diagnostics dump.
// Counters cover every diagnostic, including those cut by JSONOpts.Max.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Infos       int              `json:"infos"`
	Truncated   bool             `json:"truncated,omitempty"`
}

type locator struct {
	fs   *source.FileSet
	mode PathMode
	pos  bool
}

func (l locator) at(span source.Span) Location {
	loc := Location{
		File:      formatPath(l.fs.Get(span.File), l.fs, l.mode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if l.pos {
		start, end := l.fs.Resolve(span)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildDiagnostics converts at most opts.Max diagnostics.
func BuildDiagnostics(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	loc := locator{fs: fs, mode: opts.PathMode, pos: opts.IncludePositions}
	out := make([]DiagnosticJSON, len(items))
	for i, d := range items {
		out[i] = DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: loc.at(d.Primary),
		}
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			out[i].Notes = append(out[i].Notes, NoteJSON{Message: n.Msg, Location: loc.at(n.Span)})
		}
	}
	return out
}

func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: BuildDiagnostics(items, fs, opts)}
	out.Count = len(out.Diagnostics)
	out.Truncated = out.Count < len(items)
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		default:
			out.Infos++
		}
	}
	return out
}

// JSON пишет диагностики bag одним JSON-объектом.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encode(w, BuildDiagnosticsOutput(bag, fs, opts))
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
