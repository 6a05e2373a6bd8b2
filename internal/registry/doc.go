// Package registry owns the identity of provenance entities within one run.
//
// Processing steps are keyed by rule name, files by path, tools by name and
// parameters by their structural value (kind, label, value, unit), so that
// every later reference to the same thing resolves to the same instance.
// Each category has its own counter, consumed only when an entity is
// actually created; identifiers are therefore dense and stable within a run.
// Fields are the exception: one is minted for every parameter occurrence
// and they are never deduplicated.
package registry
