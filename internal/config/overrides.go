package config

import (
	"fmt"

	"bibfmt/internal/engine"
	"bibfmt/internal/order"
)

// Overrides are command-line values applied on top of a loaded config.
// A nil field leaves the config unchanged.
type Overrides struct {
	Tab           *string
	Surround      *string
	Case          *string
	TrailingComma *string
	AlignEqual    *bool
	Verify        *bool

	SortEnabled *bool
	SortBy      []string
	First       []string
	Duplicates  *string

	AlignEnabled *bool
	FieldsOrder  []string
	FieldsSort   *bool

	MaxDiagnostics *int
}

// Apply returns cfg with every set override applied and validated.
func (o Overrides) Apply(cfg engine.Config) (engine.Config, error) {
	var err error
	if o.Tab != nil {
		if cfg.Style.Indent, err = ParseIndent(*o.Tab); err != nil {
			return cfg, fmt.Errorf("--tab: %w", err)
		}
	}
	if o.Surround != nil {
		if cfg.Style.Delimiter, err = ParseDelimiter(*o.Surround); err != nil {
			return cfg, fmt.Errorf("--surround: %w", err)
		}
	}
	if o.Case != nil {
		if cfg.Style.Case, err = ParseCase(*o.Case); err != nil {
			return cfg, fmt.Errorf("--case: %w", err)
		}
	}
	if o.TrailingComma != nil {
		if cfg.Style.TrailingSeparator, err = ParseTrailing(*o.TrailingComma); err != nil {
			return cfg, fmt.Errorf("--trailing-comma: %w", err)
		}
	}
	if o.AlignEqual != nil {
		cfg.Style.AlignEquals = *o.AlignEqual
	}
	if o.Verify != nil {
		cfg.Verify = *o.Verify
	}

	if o.SortEnabled != nil {
		cfg.Sort.Enabled = *o.SortEnabled
	}
	if o.SortBy != nil {
		if cfg.Sort.Keys, err = order.ParseSortKeys(o.SortBy); err != nil {
			return cfg, fmt.Errorf("--sort-by: %w", err)
		}
	}
	if o.First != nil {
		cfg.Sort.TypePriority = trimAll(o.First)
	}
	if o.Duplicates != nil {
		if cfg.Sort.Duplicates, err = ParseDuplicates(*o.Duplicates); err != nil {
			return cfg, fmt.Errorf("--duplicates: %w", err)
		}
	}

	if o.AlignEnabled != nil {
		cfg.Align.Enabled = *o.AlignEnabled
	}
	if o.FieldsOrder != nil {
		cfg.Align.FieldOrder = trimAll(o.FieldsOrder)
	}
	if o.FieldsSort != nil {
		cfg.Align.SortAlphabetically = *o.FieldsSort
	}
	if o.MaxDiagnostics != nil {
		cfg.MaxDiagnostics = *o.MaxDiagnostics
	}
	return cfg, cfg.Validate()
}
