package fuzztests

import (
	"context"
	"testing"
	"time"

	"bibfmt/internal/diag"
	"bibfmt/internal/parser"
	"bibfmt/internal/source"
	"bibfmt/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserSpanInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.bib", input))

		bag := diag.NewBag(128)
		db := parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 128})
		if err := testkit.CheckSpanInvariants(db, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang checks that error recovery always makes progress.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("@article{a, title = {x} year = 1}"))  // missing comma
	f.Add([]byte("@article{a, title = \"x}"))           // quote never closed
	f.Add([]byte("@{}@{}@{}"))                          // records without type
	f.Add([]byte("@misc{a, = {x}}"))                    // field without name
	f.Add([]byte("@misc(a, x = {)})"))                  // paren record with brace value
	f.Add([]byte("@misc{a, x = {{{{{{{{{{}}}}}}}}}}}")) // deep nesting

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.bib", input))
			_ = parser.Parse(file, parser.Options{Reporter: diag.Nop})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
