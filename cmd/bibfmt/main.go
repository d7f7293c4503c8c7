package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bibfmt/internal/diagfmt"
	"bibfmt/internal/engine"
	"bibfmt/internal/version"
)

// finishTracing is replaced by setupRoot once the tracer exists.
var finishTracing = func(error) {}

// newRootCmd builds the command tree with its global flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bibfmt",
		Short: "BibTeX formatter, sorter and aligner",
		Long: `bibfmt reformats BibTeX databases: it normalizes delimiters, indentation
and entry-type case, sorts entries, comments out duplicates and aligns fields.
Configuration is read from bibfmt.toml found upwards from the working directory.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupRoot,
	}

	root.AddCommand(newFormatCmd(engine.OpFormat))
	root.AddCommand(newFormatCmd(engine.OpSort))
	root.AddCommand(newFormatCmd(engine.OpAlign))
	root.AddCommand(newParseCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCleanCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0: from config)")
	pf.String("config", "", "path to bibfmt.toml (default: search upwards from the working directory)")
	pf.Bool("no-config", false, "ignore configuration files and use built-in defaults")
	paths := diagfmt.PathModeAuto
	pf.Var(&paths, "paths", "how diagnostics print file paths (auto|absolute|relative|basename)")
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

// main runs the root command and exits with status 1 when it fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	finishTracing(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bibfmt: %v\n", err)
		os.Exit(1)
	}
}

func setupRoot(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	finish, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return err
	}
	finishTracing = func(runErr error) {
		finish(runErr)
		stopProfiling()
	}
	return nil
}

func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
		// fatih/color уже проверил stdout и NO_COLOR
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
