package diagfmt

import (
	"io"

	"bibfmt/internal/driver"
	"bibfmt/internal/observ"
)

// FileResultJSON is one file of a driver run.
type FileResultJSON struct {
	Path        string           `json:"path"`
	Changed     bool             `json:"changed"`
	Cached      bool             `json:"cached,omitempty"`
	Entries     int              `json:"entries"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// RunJSON is the machine-readable outcome of `bibfmt fmt|sort|align`.
type RunJSON struct {
	Operation string           `json:"operation"`
	Files     []FileResultJSON `json:"files"`
	Changed   int              `json:"changed"`
	Failed    int              `json:"failed"`
	Timings   *observ.Report   `json:"timings,omitempty"`
}

// BuildRun converts a driver report. Timings are included when withTimings.
func BuildRun(op string, rep *driver.Report, opts JSONOpts, withTimings bool) RunJSON {
	out := RunJSON{
		Operation: op,
		Files:     make([]FileResultJSON, 0, len(rep.Results)),
		Changed:   rep.Changed(),
		Failed:    rep.Failed(),
	}
	for _, res := range rep.Results {
		fr := FileResultJSON{
			Path:        res.Path,
			Changed:     res.Changed,
			Cached:      res.Cached,
			Entries:     res.Entries,
			Diagnostics: BuildDiagnostics(res.Diagnostics, rep.FileSet, opts),
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		out.Files = append(out.Files, fr)
	}
	if withTimings {
		t := rep.Timings
		out.Timings = &t
	}
	return out
}

// Run writes the JSON form of a driver report.
func Run(w io.Writer, op string, rep *driver.Report, opts JSONOpts, withTimings bool) error {
	return encode(w, BuildRun(op, rep, opts, withTimings))
}
