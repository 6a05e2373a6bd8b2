package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Dependency is one entry of an environment declaration.
type Dependency struct {
	Name    string
	Version string // comparator stripped; empty when unpinned
}

// depPattern matches "name", "name=1.2", "name>=1.2", "name==1.2", "name 1.2".
var depPattern = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*(?:([=<>!~]=?=?)\s*|\s+)?(.*)$`)

type condaEnv struct {
	Dependencies []any `yaml:"dependencies"`
}

// ParseCondaDependencies reads the dependencies of a conda environment
// declaration, including the nested pip list. Entries that do not look
// like name[comparator version] are skipped.
func ParseCondaDependencies(envText string) ([]Dependency, error) {
	var env condaEnv
	if err := yaml.Unmarshal([]byte(envText), &env); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	var deps []Dependency
	for _, entry := range env.Dependencies {
		switch e := entry.(type) {
		case string:
			if d, ok := parseDependency(e, true); ok {
				deps = append(deps, d)
			}
		case map[string]any:
			pip, _ := e["pip"].([]any)
			for _, p := range pip {
				if s, ok := p.(string); ok {
					if d, ok := parseDependency(s, false); ok {
						deps = append(deps, d)
					}
				}
			}
		}
	}
	return deps, nil
}

func parseDependency(spec string, conda bool) (Dependency, bool) {
	spec = strings.TrimSpace(spec)
	if i := strings.Index(spec, "::"); i >= 0 {
		spec = spec[i+2:]
	}
	m := depPattern.FindStringSubmatch(spec)
	if m == nil {
		return Dependency{}, false
	}
	version := strings.TrimSpace(m[3])
	if version != "" && m[2] == "" && !strings.ContainsAny(spec[len(m[1]):], " \t") {
		return Dependency{}, false
	}
	// conda's name=version=build: drop the build string.
	if conda {
		if i := strings.Index(version, "="); i >= 0 {
			version = version[:i]
		}
	}
	version = strings.TrimLeft(version, "=<>!~ ")
	if i := strings.IndexAny(version, ", ;"); i >= 0 {
		version = version[:i]
	}
	return Dependency{Name: m[1], Version: version}, true
}
