// Package config manages user-level settings stored at ~/.provcrate/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the extractor to load, the vocabulary context URL and the namespace base,
// and resolves them into the Settings used by a report run.
package config
