package main

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"bibfmt/internal/diag"
	"bibfmt/internal/diagfmt"
	"bibfmt/internal/parser"
	"bibfmt/internal/source"
	"bibfmt/internal/trace"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.bib|->",
		Short: "Parse a BibTeX file and print its node tree",
		Long: `Parse reads a .bib file (or stdin with "-") and prints the nodes the
formatter sees: entries with their fields, comments, preambles, @string
macros and raw spans that could not be parsed.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("parse: unsupported --format %q (expected pretty|json)", format)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	limit := 256
	if n, err := maxDiagnostics(cmd); err != nil {
		return err
	} else if n != nil && *n > 0 {
		limit = *n
	}

	fs := source.NewFileSet()
	var id source.FileID
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("parse: failed to read stdin: %w", err)
		}
		id = fs.LoadBytes("<stdin>", content)
	} else {
		if id, err = fs.Load(path); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
	}
	sf := fs.Get(id)

	_, span := trace.Start(trace.WithFile(cmd.Context(), sf.Path), trace.ScopeFile, "parse")
	bag := diag.NewBag(limit)
	maxErrors, err := safecast.Conv[uint](limit)
	if err != nil {
		return err
	}
	db := parser.Parse(sf, parser.Options{MaxErrors: maxErrors, Reporter: diag.BagReporter{Bag: bag}})
	span.End(fmt.Sprintf("nodes=%d", len(db.Nodes)))

	if !quiet {
		printDiagnostics(cmd.ErrOrStderr(), bag, fs, pathMode(cmd))
	}
	if format == "json" {
		return diagfmt.FormatDatabaseJSON(cmd.OutOrStdout(), db, sf, fs)
	}
	return diagfmt.FormatDatabasePretty(cmd.OutOrStdout(), db, sf, fs)
}
