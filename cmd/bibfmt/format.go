package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bibfmt/internal/config"
	"bibfmt/internal/diag"
	"bibfmt/internal/diagfmt"
	"bibfmt/internal/driver"
	"bibfmt/internal/engine"
)

var formatShort = map[engine.Op]string{
	engine.OpFormat: "Reformat BibTeX files (and sort them when [sort] enabled = true)",
	engine.OpSort:   "Sort entries and resolve duplicate keys",
	engine.OpAlign:  "Reorder fields inside entries",
}

// newFormatCmd builds `bibfmt fmt`, `bibfmt sort` and `bibfmt align`; they
// differ only in the engine operation.
func newFormatCmd(op engine.Op) *cobra.Command {
	cmd := &cobra.Command{
		Use:   op.String() + " [flags] [path...]",
		Short: formatShort[op],
		Long: `Paths may be files or directories (searched recursively for *.bib).
With no path the current directory is used; "-" reads stdin and writes stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, op, args)
		},
	}

	f := cmd.Flags()
	f.Bool("check", false, "report files that would change without rewriting them")
	f.Bool("stdout", false, "print the result to stdout instead of rewriting files")
	f.String("format", "text", "output format (text|json)")
	f.Int("jobs", 0, "files processed in parallel (0: number of CPUs)")
	f.String("ui", "auto", "progress view (auto|on|off)")
	f.Bool("no-cache", false, "do not consult or fill the result cache")

	f.String("tab", "", `indent: "tab", a number of spaces or "keep"`)
	f.String("surround", "", "value delimiter (braces|quotes|keep)")
	f.String("case", "", "entry type case (lower|upper|keep)")
	f.String("trailing-comma", "", "comma after the last field (add|remove|keep)")
	f.Bool("align-equal", true, "pad field names so that = line up")
	f.Bool("verify", true, "re-parse the output and keep the input if it does not round-trip")

	if op != engine.OpAlign {
		f.StringSlice("sort-by", nil, "sort keys, e.g. year-desc,author,key")
		f.StringSlice("first", nil, "entry types placed before all others")
		f.String("duplicates", "", "duplicate keys (ignore|comment)")
	}
	if op != engine.OpSort {
		f.StringSlice("fields-order", nil, "fields placed first inside an entry")
		f.Bool("fields-sort", false, "sort the remaining fields alphabetically")
	}
	if op == engine.OpFormat {
		f.Bool("sort", false, "sort entries as part of formatting")
		f.Bool("align", false, "reorder fields as part of formatting")
	}
	return cmd
}

type formatFlags struct {
	check     bool
	stdout    bool
	output    string
	jobs      int
	ui        string
	noCache   bool
	quiet     bool
	timings   bool
	overrides config.Overrides
}

func readFormatFlags(cmd *cobra.Command, op engine.Op) (formatFlags, error) {
	var ff formatFlags
	var err error
	f := cmd.Flags()
	if ff.check, err = f.GetBool("check"); err != nil {
		return ff, err
	}
	if ff.stdout, err = f.GetBool("stdout"); err != nil {
		return ff, err
	}
	if ff.output, err = f.GetString("format"); err != nil {
		return ff, err
	}
	if ff.jobs, err = f.GetInt("jobs"); err != nil {
		return ff, err
	}
	if ff.ui, err = f.GetString("ui"); err != nil {
		return ff, err
	}
	if ff.noCache, err = f.GetBool("no-cache"); err != nil {
		return ff, err
	}
	root := cmd.Root().PersistentFlags()
	if ff.quiet, err = root.GetBool("quiet"); err != nil {
		return ff, err
	}
	if ff.timings, err = root.GetBool("timings"); err != nil {
		return ff, err
	}

	switch ff.output {
	case "text", "json":
	default:
		return ff, fmt.Errorf("%s: unsupported --format %q (expected text|json)", op, ff.output)
	}
	if ff.stdout && ff.check {
		return ff, fmt.Errorf("%s: --stdout cannot be used with --check", op)
	}
	if ff.stdout && ff.output != "text" {
		return ff, fmt.Errorf("%s: --stdout is only supported with text output", op)
	}
	if ff.jobs < 0 {
		return ff, fmt.Errorf("%s: --jobs must not be negative", op)
	}

	o := &ff.overrides
	o.Tab = stringFlag(cmd, "tab")
	o.Surround = stringFlag(cmd, "surround")
	o.Case = stringFlag(cmd, "case")
	o.TrailingComma = stringFlag(cmd, "trailing-comma")
	o.AlignEqual = boolFlag(cmd, "align-equal")
	o.Verify = boolFlag(cmd, "verify")
	o.SortEnabled = boolFlag(cmd, "sort")
	o.SortBy = sliceFlag(cmd, "sort-by")
	o.First = sliceFlag(cmd, "first")
	o.Duplicates = stringFlag(cmd, "duplicates")
	o.AlignEnabled = boolFlag(cmd, "align")
	o.FieldsOrder = sliceFlag(cmd, "fields-order")
	o.FieldsSort = boolFlag(cmd, "fields-sort")
	if o.MaxDiagnostics, err = maxDiagnostics(cmd); err != nil {
		return ff, err
	}
	return ff, nil
}

// Флаги, не заданные явно, не перекрывают значения из bibfmt.toml.

func stringFlag(cmd *cobra.Command, name string) *string {
	f := cmd.Flags()
	if f.Lookup(name) == nil || !f.Changed(name) {
		return nil
	}
	v, err := f.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	f := cmd.Flags()
	if f.Lookup(name) == nil || !f.Changed(name) {
		return nil
	}
	v, err := f.GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// sliceFlag returns nil when the flag is unset and an empty, non-nil slice
// when it was set to "". Items may also be separated by spaces.
func sliceFlag(cmd *cobra.Command, name string) []string {
	f := cmd.Flags()
	if f.Lookup(name) == nil || !f.Changed(name) {
		return nil
	}
	v, err := f.GetStringSlice(name)
	if err != nil {
		return nil
	}
	out := []string{}
	for _, item := range v {
		out = append(out, config.SplitList(item)...)
	}
	return out
}

func runFormat(cmd *cobra.Command, op engine.Op, args []string) error {
	ff, err := readFormatFlags(cmd, op)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg, err = ff.overrides.Apply(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := driver.Options{
		Op:     op,
		Config: cfg,
		Check:  ff.check,
		Stdout: ff.stdout,
		Jobs:   ff.jobs,
	}

	var rep *driver.Report
	if len(args) == 1 && args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("%s: failed to read stdin: %w", op, err)
		}
		if !ff.check {
			opts.Stdout = true
			ff.stdout = true
		}
		rep, err = driver.FormatBytes(ctx, "<stdin>", content, opts)
		if err != nil {
			return err
		}
	} else {
		if len(args) == 0 {
			args = []string{"."}
		}
		if !ff.noCache && !ff.stdout {
			// кэш необязателен, ошибки игнорируются
			if cache, err := driver.OpenCache("bibfmt"); err == nil {
				opts.Cache = cache
			}
		}
		mode, err := readUIMode(ff.ui)
		if err != nil {
			return err
		}
		files, err := driver.CollectFiles(ctx, args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return driver.ErrNoFiles
		}
		if ff.output == "text" && !ff.stdout && !ff.quiet && shouldUseTUI(mode, len(files)) {
			rep, err = runWithUI(ctx, "bibfmt "+op.String(), files, opts)
		} else {
			rep, err = driver.FormatPaths(ctx, files, opts)
		}
		if err != nil {
			return err
		}
	}

	if ff.output == "json" {
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode(cmd),
			IncludeNotes:     true,
		}
		// машинному выводу нужны стабильные пути
		if jsonOpts.PathMode == diagfmt.PathModeAuto {
			jsonOpts.PathMode = diagfmt.PathModeRelative
		}
		if err := diagfmt.Run(cmd.OutOrStdout(), op.String(), rep, jsonOpts, ff.timings); err != nil {
			return err
		}
	} else {
		renderFormatText(cmd, rep, ff)
	}
	return formatExit(op, rep, ff.check)
}

func renderFormatText(cmd *cobra.Command, rep *driver.Report, ff formatFlags) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	bag := diag.NewBag(1 << 16)
	for _, res := range rep.Results {
		for _, d := range res.Diagnostics {
			if ff.quiet && d.Severity < diag.SevError {
				continue
			}
			bag.Add(d)
		}
	}
	printDiagnostics(errOut, bag, rep.FileSet, pathMode(cmd))

	for _, res := range rep.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(errOut, "error: %s: %v\n", res.Path, res.Err)
		case ff.stdout:
			if _, err := out.Write(res.Formatted); err != nil {
				fmt.Fprintf(errOut, "error: %s: %v\n", res.Path, err)
			}
		case ff.check && res.Changed:
			fmt.Fprintln(out, res.Path)
		case res.Changed && !ff.quiet:
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}

	if ff.timings {
		fmt.Fprint(errOut, rep.Timings.Summary())
	}
	if !ff.quiet && !ff.stdout && !ff.check {
		fmt.Fprintln(errOut, summaryLine(rep))
	}
}

func summaryLine(rep *driver.Report) string {
	var parts []string
	cached := 0
	for _, res := range rep.Results {
		if res.Cached {
			cached++
		}
	}
	parts = append(parts, fmt.Sprintf("%d reformatted", rep.Changed()))
	parts = append(parts, fmt.Sprintf("%d unchanged", len(rep.Results)-rep.Changed()-rep.Failed()))
	if cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", cached))
	}
	if n := rep.Failed(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	return strings.Join(parts, ", ")
}

// formatExit turns a finished run into the command's error: failed files
// and, in check mode, files that need changes fail the command.
func formatExit(op engine.Op, rep *driver.Report, check bool) error {
	if n := rep.Failed(); n > 0 {
		return fmt.Errorf("%s: %d file(s) could not be processed", op, n)
	}
	if check {
		if n := rep.Changed(); n > 0 {
			return fmt.Errorf("%s: %d file(s) need reformatting", op, n)
		}
	}
	return nil
}
