package engine

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"bibfmt/internal/align"
	"bibfmt/internal/bib"
	"bibfmt/internal/dedupe"
	"bibfmt/internal/diag"
	"bibfmt/internal/format"
	"bibfmt/internal/observ"
	"bibfmt/internal/order"
	"bibfmt/internal/parser"
	"bibfmt/internal/source"
	"bibfmt/internal/trace"
)

// Op selects the pipeline.
type Op uint8

const (
	// OpFormat: Parse → (Dedupe → Sort if enabled) → Align → Serialize.
	OpFormat Op = iota
	// OpSort: Parse → Dedupe → Sort → Serialize.
	OpSort
	// OpAlign: Parse → Align (field reordering forced) → Serialize.
	OpAlign
)

func (o Op) String() string {
	switch o {
	case OpFormat:
		return "fmt"
	case OpSort:
		return "sort"
	case OpAlign:
		return "align"
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text        []byte
	Diagnostics []diag.Diagnostic
	// Changed reports whether Text differs from the input.
	Changed bool
	Timings observ.Report
	Entries int
}

// Format reformats text.
func Format(text string, cfg Config) (Result, error) {
	return runText(OpFormat, text, cfg)
}

// Sort resolves duplicates and sorts the entries of text.
func Sort(text string, cfg Config) (Result, error) {
	return runText(OpSort, text, cfg)
}

// Align reorders the fields of every entry of text.
func Align(text string, cfg Config) (Result, error) {
	return runText(OpAlign, text, cfg)
}

func runText(op Op, text string, cfg Config) (Result, error) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("<input>", []byte(text)))
	return Run(context.Background(), op, sf, cfg)
}

// Run executes op over an already loaded file. Stage spans go to the tracer
// in ctx, under its current span.
func Run(ctx context.Context, op Op, sf *source.File, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	st := stages{
		ctx:   ctx,
		timer: observ.NewTimer(),
	}
	bag := diag.NewBag(cfg.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}

	var db *bib.Database
	st.run("parse", func() string {
		db = parser.Parse(sf, parser.Options{Reporter: reporter})
		return fmt.Sprintf("%d nodes, %d entries", len(db.Nodes), db.Count(bib.NodeEntry))
	})

	if op == OpSort || (op == OpFormat && cfg.Sort.Enabled) {
		st.run("dedupe", func() string {
			before := db.Count(bib.NodeEntry)
			dedupe.Resolve(db, cfg.Sort.Duplicates, reporter)
			return fmt.Sprintf("policy %s, %d commented out", cfg.Sort.Duplicates, before-db.Count(bib.NodeEntry))
		})
		st.run("sort", func() string {
			moved := order.Sort(db, order.Build(cfg.Sort.Keys, cfg.Sort.TypePriority))
			return "moved=" + strconv.FormatBool(moved)
		})
	}

	reorder := op == OpAlign || (op == OpFormat && cfg.Align.Enabled)
	if reorder || cfg.Style.AlignEquals {
		st.run("align", func() string {
			reordered := 0
			for _, e := range db.Entries() {
				if reorder && align.Fields(e, cfg.Align) {
					reordered++
				}
				if cfg.Style.AlignEquals {
					align.Padding(e, format.PadUnit(e, cfg.Style))
				}
			}
			return fmt.Sprintf("%d entries reordered", reordered)
		})
	}

	var out []byte
	st.run("render", func() string {
		out = format.Render(db, cfg.Style, reporter)
		return strconv.Itoa(len(out)) + " bytes"
	})

	if cfg.Verify {
		st.run("verify", func() string {
			ok, msg := format.CheckRoundTrip(db, out, cfg.maxDiagnostics())
			if !ok {
				diag.Error(diag.FmtRoundTripFailed, source.Span{File: sf.ID},
					msg+"; input kept unchanged").To(reporter)
				out = bytes.Clone(sf.Content)
			}
			return msg
		})
	}

	bag.Sort()
	if trace.Enabled(ctx, trace.ScopeEntry) {
		for _, d := range bag.Items() {
			trace.Mark(ctx, trace.ScopeEntry, d.Code.ID(), fmt.Sprintf("@%d: %s", d.Primary.Start, d.Message))
		}
	}
	return Result{
		Text:        out,
		Diagnostics: bag.Items(),
		Changed:     !bytes.Equal(out, sf.Content),
		Timings:     st.timer.Report(),
		Entries:     db.Count(bib.NodeEntry),
	}, nil
}

// stages измеряет и трассирует каждую стадию конвейера.
type stages struct {
	ctx   context.Context
	timer *observ.Timer
}

func (s *stages) run(name string, fn func() string) {
	_, span := trace.Start(s.ctx, trace.ScopePass, name)
	stop := s.timer.Measure(name)
	note := fn()
	stop(note)
	span.End(note)
}
