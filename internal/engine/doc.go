// Package engine runs the bibfmt pipeline over one document:
//
//	Parsed → DuplicateResolved? → Sorted? → Aligned? → Serialized
//
// Format, Sort and Align are pure functions of (text, Config). The engine
// keeps no state between calls; independent calls may run concurrently.
// Malformed configuration is the only error and is reported before parsing.
package engine
