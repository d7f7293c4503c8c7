package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bibfmt/internal/config"
	"bibfmt/internal/diag"
	"bibfmt/internal/diagfmt"
	"bibfmt/internal/engine"
	"bibfmt/internal/source"
	"bibfmt/internal/trace"
)

// loadConfig resolves the configuration for cmd: --no-config gives the
// defaults, --config names a file, otherwise bibfmt.toml is searched upwards
// from the working directory. Config warnings are printed to stderr.
func loadConfig(cmd *cobra.Command) (engine.Config, error) {
	flags := cmd.Root().PersistentFlags()
	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return engine.Config{}, err
	}
	path, err := flags.GetString("config")
	if err != nil {
		return engine.Config{}, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return engine.Config{}, err
	}
	if noConfig {
		return config.Default(), nil
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return engine.Config{}, err
		}
		found, ok, err := config.Find(wd)
		if err != nil {
			return engine.Config{}, err
		}
		if !ok {
			return config.Default(), nil
		}
		path = found
	}

	trace.Mark(cmd.Context(), trace.ScopeDriver, "config", path)
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	cfg, err := config.Load(fs, path, diag.BagReporter{Bag: bag})
	if !quiet {
		printDiagnostics(cmd.ErrOrStderr(), bag, fs, pathMode(cmd))
	}
	return cfg, err
}

// pathMode returns the --paths value.
func pathMode(cmd *cobra.Command) diagfmt.PathMode {
	if f := cmd.Root().PersistentFlags().Lookup("paths"); f != nil {
		if m, ok := f.Value.(*diagfmt.PathMode); ok {
			return *m
		}
	}
	return diagfmt.PathModeAuto
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode diagfmt.PathMode) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   1,
		PathMode:  mode,
		ShowNotes: true,
	})
}

// maxDiagnostics returns the --max-diagnostics override, if set.
func maxDiagnostics(cmd *cobra.Command) (*int, error) {
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("max-diagnostics") {
		return nil, nil
	}
	n, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return &n, nil
}
