// Package config loads bibfmt.toml into an engine.Config.
//
// The file is optional. Keys that are absent keep their defaults, so
// `toml.MetaData.IsDefined` decides what a file overrides rather than the
// zero value of the decoded field. Enumerations accept the canonical
// spellings ("braces", "upper") as well as the editor-settings spellings
// ("Curly braces", "UPPERCASE", "Comment Duplicates", "2 spaces").
package config
