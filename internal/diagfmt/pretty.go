package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bibfmt/internal/diag"
	"bibfmt/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	location *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		location: mk(color.Bold),
		gutter:   mk(color.FgBlue),
		caret:    mk(color.FgGreen, color.Bold),
		note:     mk(color.FgCyan),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	sevColor := pal.sev[d.Severity]
	if sevColor == nil {
		sevColor = pal.location
	}
	fmt.Fprintf(w, "%s %s %s: %s\n",
		pal.location.Sprintf("%s:%d:%d:", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		sevColor.Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)

	if f != nil && len(f.Content) > 0 {
		writeSnippet(w, f, fs, d.Primary, opts.Context, pal)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
	}
}

// writeSnippet печатает строку спана с контекстом и подчёркиванием.
// Многострочный спан подчёркивается до конца первой строки.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, context int8, pal palette) {
	start, end := fs.Resolve(sp)
	first := start.Line
	last := start.Line
	ctx := uint32(max(context, 0))
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last += ctx
	if lines, err := safecast.Conv[uint32](len(f.LineIdx) + 1); err == nil {
		last = min(last, lines)
	}
	gutterWidth := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := strings.ReplaceAll(f.Line(line), "\t", "    ")
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, line), text)
		if line != start.Line {
			continue
		}

		raw := f.Line(line)
		col := int(start.Col) - 1
		col = min(max(col, 0), len(raw))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(max(int(end.Col)-1, col), len(raw))
		}
		pad := displayWidth(raw[:col])
		width := max(displayWidth(raw[col:stop]), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			pal.caret.Sprint(underline))
	}
}

func displayWidth(s string) int {
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", "    "))
}
