package config

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"bibfmt/internal/dedupe"
	"bibfmt/internal/diag"
	"bibfmt/internal/engine"
	"bibfmt/internal/format"
	"bibfmt/internal/order"
	"bibfmt/internal/source"
)

// File mirrors the TOML layout.
type File struct {
	Format FormatSection `toml:"format"`
	Sort   SortSection   `toml:"sort"`
	Align  AlignSection  `toml:"align"`
	Output OutputSection `toml:"output"`
}

type FormatSection struct {
	Tab           string `toml:"tab"`
	Surround      string `toml:"surround"`
	Case          string `toml:"case"`
	TrailingComma bool   `toml:"trailing-comma"`
	AlignEqual    bool   `toml:"align-equal"`
	Verify        bool   `toml:"verify"`
}

type SortSection struct {
	Enabled    bool     `toml:"enabled"`
	SortBy     []string `toml:"sort-by"`
	First      []string `toml:"first"`
	Duplicates string   `toml:"duplicates"`
}

type AlignSection struct {
	Enabled     bool     `toml:"enabled"`
	FieldsOrder []string `toml:"fields-order"`
	FieldsSort  bool     `toml:"fields-sort"`
}

type OutputSection struct {
	MaxDiagnostics int `toml:"max-diagnostics"`
}

// Default is the configuration used when no file is found: two-space
// indent, braces, lowercase types, no trailing comma, aligned '=' signs,
// sorting by year descending when sorting is requested.
func Default() engine.Config {
	return engine.Config{
		Sort: engine.SortConfig{
			Keys:       order.Spec{{Field: "year", Descending: true}},
			Duplicates: dedupe.Ignore,
		},
		Style: format.StyleSpec{
			Indent:            format.Indent{Spaces: 2},
			Delimiter:         format.DelimBraces,
			Case:              format.CaseLower,
			TrailingSeparator: format.TrailingRemove,
			AlignEquals:       true,
		},
		MaxDiagnostics: 256,
		Verify:         true,
	}
}

// Load reads path into fs and applies it on top of Default. Keys the file
// does not know are reported to r as warnings; a value that cannot be
// understood is an error.
func Load(fs *source.FileSet, path string, r diag.Reporter) (engine.Config, error) {
	id, err := fs.Load(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Decode(fs.Get(id), r)
}

// Decode applies the TOML content of f on top of Default.
func Decode(f *source.File, r diag.Reporter) (engine.Config, error) {
	if r == nil {
		r = diag.Nop
	}
	var file File
	meta, err := toml.Decode(string(f.Content), &file)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return engine.Config{}, fmt.Errorf("%s:%d: failed to parse TOML: %s", f.Path, perr.Position.Line, perr.Message)
		}
		return engine.Config{}, fmt.Errorf("%s: failed to parse TOML: %w", f.Path, err)
	}
	for _, key := range meta.Undecoded() {
		diag.Warning(diag.CfgUnknownOption, keySpan(f, key),
			fmt.Sprintf("unknown option %q ignored", key.String())).To(r)
	}

	cfg, err := file.apply(meta, Default())
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", f.Path, err)
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", f.Path, err)
	}
	return cfg, nil
}

func (file *File) apply(meta toml.MetaData, cfg engine.Config) (engine.Config, error) {
	var err error
	defined := func(keys ...string) bool { return meta.IsDefined(keys...) }

	fs := file.Format
	if defined("format", "tab") {
		if cfg.Style.Indent, err = ParseIndent(fs.Tab); err != nil {
			return cfg, fmt.Errorf("[format].tab: %w", err)
		}
	}
	if defined("format", "surround") {
		if cfg.Style.Delimiter, err = ParseDelimiter(fs.Surround); err != nil {
			return cfg, fmt.Errorf("[format].surround: %w", err)
		}
	}
	if defined("format", "case") {
		if cfg.Style.Case, err = ParseCase(fs.Case); err != nil {
			return cfg, fmt.Errorf("[format].case: %w", err)
		}
	}
	if defined("format", "trailing-comma") {
		cfg.Style.TrailingSeparator = format.TrailingRemove
		if fs.TrailingComma {
			cfg.Style.TrailingSeparator = format.TrailingAdd
		}
	}
	if defined("format", "align-equal") {
		cfg.Style.AlignEquals = fs.AlignEqual
	}
	if defined("format", "verify") {
		cfg.Verify = fs.Verify
	}

	ss := file.Sort
	if defined("sort", "enabled") {
		cfg.Sort.Enabled = ss.Enabled
	}
	if defined("sort", "sort-by") {
		if cfg.Sort.Keys, err = order.ParseSortKeys(ss.SortBy); err != nil {
			return cfg, fmt.Errorf("[sort].sort-by: %w", err)
		}
	}
	if defined("sort", "first") {
		cfg.Sort.TypePriority = trimAll(ss.First)
	}
	if defined("sort", "duplicates") {
		if cfg.Sort.Duplicates, err = ParseDuplicates(ss.Duplicates); err != nil {
			return cfg, fmt.Errorf("[sort].duplicates: %w", err)
		}
	}

	as := file.Align
	if defined("align", "enabled") {
		cfg.Align.Enabled = as.Enabled
	}
	if defined("align", "fields-order") {
		cfg.Align.FieldOrder = trimAll(as.FieldsOrder)
	}
	if defined("align", "fields-sort") {
		cfg.Align.SortAlphabetically = as.FieldsSort
	}

	if defined("output", "max-diagnostics") {
		cfg.MaxDiagnostics = file.Output.MaxDiagnostics
	}
	return cfg, nil
}

func trimAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}

// keySpan ищет первое вхождение последней части ключа; позиций toml не даёт.
func keySpan(f *source.File, key toml.Key) source.Span {
	sp := source.Span{File: f.ID}
	if len(key) == 0 {
		return sp
	}
	name := key[len(key)-1]
	idx := strings.Index(string(f.Content), name)
	if idx < 0 {
		return sp
	}
	start, err := safecast.Conv[uint32](idx)
	if err != nil {
		return sp
	}
	end, err := safecast.Conv[uint32](idx + len(name))
	if err != nil {
		return sp
	}
	sp.Start, sp.End = start, end
	return sp
}
