package provgraph

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/m4i-labs/provcrate/internal/registry"
)

// tools resolves the tools declared by one environment. Each distinct
// environment text is handed to the extractor once; jobs sharing it share
// the resolved list.
func (st *build) tools(rule, envText string) ([]*registry.Tool, error) {
	if cached, ok := st.envTools[envText]; ok {
		return cached, nil
	}
	if !st.Extractor.Enabled() {
		st.envTools[envText] = nil
		return nil, nil
	}

	declared, err := st.Extractor.Tools(rule, envText)
	if err != nil {
		return nil, fmt.Errorf("extracting tools for rule %s: %w", rule, err)
	}

	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make([]*registry.Tool, 0, len(names))
	for _, name := range names {
		version := ""
		if v := declared[name]; v != nil {
			version = *v
		}
		tool, created := st.reg.Tool(name, version)
		if !created && conflicting(tool.Version, version) {
			st.warn(name, fmt.Sprintf("version %s declared for rule %s ignored, keeping %s", version, rule, tool.Version))
		}
		resolved = append(resolved, tool)
	}
	st.envTools[envText] = resolved
	return resolved, nil
}

// conflicting reports whether two pinned versions name different releases.
// An unpinned side never conflicts, and versions that are equal as semantic
// versions (1.2 and 1.2.0) are the same release.
func conflicting(kept, declared string) bool {
	if kept == "" || declared == "" || kept == declared {
		return false
	}
	a, errA := semver.NewVersion(kept)
	b, errB := semver.NewVersion(declared)
	if errA != nil || errB != nil {
		return true
	}
	return !a.Equal(b)
}
