package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"bibfmt/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
		hash   bool
		date   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show bibfmt version and build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := buildPayload(hash || full, date || full, full)
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			case "pretty", "":
				writeVersionPretty(cmd.OutOrStdout(), p)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&hash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&date, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "show all recorded build metadata")
	return cmd
}

// buildPayload собирает метаданные. Пустые ldflags-переменные добираются
// из debug.BuildInfo (go install кладёт туда vcs.revision и vcs.time).
func buildPayload(withHash, withDate, withGo bool) versionPayload {
	p := versionPayload{Tool: "bibfmt", Version: strings.TrimSpace(version.Version)}
	commit := strings.TrimSpace(version.GitCommit)
	built := strings.TrimSpace(version.BuildDate)

	if info, ok := debug.ReadBuildInfo(); ok {
		if p.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			p.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && built == "":
				built = s.Value
			}
		}
		if withGo {
			p.GoVersion = info.GoVersion
		}
	}
	if p.Version == "" {
		p.Version = "dev"
	}
	if withHash {
		p.GitCommit = orUnknown(commit)
	}
	if withDate {
		p.BuildDate = orUnknown(built)
	}
	return p
}

func writeVersionPretty(w io.Writer, p versionPayload) {
	fmt.Fprintf(w, "bibfmt %s\n", version.Colored(p.Version))
	if p.GitCommit != "" {
		fmt.Fprintf(w, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(w, "built:  %s\n", p.BuildDate)
	}
	if p.GoVersion != "" {
		fmt.Fprintf(w, "go:     %s\n", p.GoVersion)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
