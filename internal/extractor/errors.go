package extractor

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrScriptNotFound indicates the configured extractor path does not exist
	// or is not a regular file.
	ErrScriptNotFound = errors.New("extractor script not found")

	// ErrNoImplementation indicates the extractor loaded but provides no
	// implementation of both operations under the requested name.
	ErrNoImplementation = errors.New("no extractor implementation found")

	// ErrAmbiguousImplementation indicates more than one conforming
	// implementation and no name to choose between them.
	ErrAmbiguousImplementation = errors.New("ambiguous extractor implementation")

	// ErrInterpreterNotFound indicates the program an extractor script is run
	// with is not installed.
	ErrInterpreterNotFound = errors.New("extractor interpreter not found")

	// ErrDuplicateExtractor indicates a name registered twice.
	ErrDuplicateExtractor = errors.New("duplicate extractor name")

	// ErrContractViolation indicates an extractor returned malformed data.
	ErrContractViolation = errors.New("contract violation")
)

// ConfigurationError is a fatal problem locating or loading the extractor.
// It is raised before any graph work starts.
type ConfigurationError struct {
	Path string
	Name string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	target := e.Path
	if target == "" {
		target = e.Name
	} else if e.Name != "" {
		target = fmt.Sprintf("%s (%s)", e.Path, e.Name)
	}
	return fmt.Sprintf("configuration error: extractor %s: %v", target, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ContractViolation reports an extractor result that does not match the
// contract. Entity is the offending parameter or tool name, Key the
// offending entry key.
type ContractViolation struct {
	Extractor string
	Operation string
	Rule      string
	Source    string
	Entity    string
	Key       string
	Msg       string
}

func (e *ContractViolation) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: extractor %q %s(rule %q, %s)", ErrContractViolation.Error(), e.Extractor, e.Operation, e.Rule, e.Source)
	if e.Entity != "" {
		msg += fmt.Sprintf(": entry %q", e.Entity)
	}
	if e.Key != "" {
		msg += fmt.Sprintf(": key %q", e.Key)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *ContractViolation) Unwrap() error { return ErrContractViolation }

// ExtractionError is a failure inside the extractor itself.
type ExtractionError struct {
	Extractor string
	Operation string
	Rule      string
	Source    string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("extractor %q %s(rule %q, %s): %v", e.Extractor, e.Operation, e.Rule, e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsFileAccess reports whether err stems from reading a file that is missing
// or unreadable. Such failures are isolated to the one file.
func IsFileAccess(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
