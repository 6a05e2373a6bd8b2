package extractor

import (
	"fmt"
	"os"
)

// Load resolves the extractor a run uses.
//
//   - no path and no name: no extractor; the returned Checked yields empty
//     results.
//   - name only: the implementation registered under name.
//   - path: an external executable, see ProcessExtractor. It must describe
//     exactly one implementation of both operations, or one named name.
//
// Every failure is a *ConfigurationError and happens before any extraction.
func Load(reg *Registry, path, name string) (*Checked, error) {
	if path == "" && name == "" {
		return NewChecked("", nil), nil
	}

	if path == "" {
		f, ok := reg.Lookup(name)
		if !ok {
			return nil, &ConfigurationError{Name: name, Err: fmt.Errorf("%w: no registered extractor named %q (available: %v)", ErrNoImplementation, name, reg.Names())}
		}
		impl := f()
		if impl == nil {
			return nil, &ConfigurationError{Name: name, Err: fmt.Errorf("%w: factory for %q returned nil", ErrNoImplementation, name)}
		}
		return NewChecked(name, impl), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Name: name, Err: fmt.Errorf("%w: %v", ErrScriptNotFound, err)}
	}
	if !info.Mode().IsRegular() {
		return nil, &ConfigurationError{Path: path, Name: name, Err: fmt.Errorf("%w: not a regular file", ErrScriptNotFound)}
	}

	proc, err := NewProcessExtractor(path, name)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Name: name, Err: err}
	}
	return NewChecked(proc.Name(), proc), nil
}
