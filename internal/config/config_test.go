package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestResolveDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	s, err := resolveFrom(v)
	if err != nil {
		t.Fatalf("resolveFrom: %v", err)
	}
	if s.ContextURL != DefaultContextURL {
		t.Errorf("ContextURL = %q, want %q", s.ContextURL, DefaultContextURL)
	}
	if s.NamespaceLength != DefaultNamespaceLength {
		t.Errorf("NamespaceLength = %d, want %d", s.NamespaceLength, DefaultNamespaceLength)
	}
	if s.WorkflowFile != "Snakefile" {
		t.Errorf("WorkflowFile = %q, want %q", s.WorkflowFile, "Snakefile")
	}
	if s.ExtractorPath != "" || s.ExtractorName != "" {
		t.Errorf("extractor should be unset by default, got path=%q name=%q", s.ExtractorPath, s.ExtractorName)
	}
}

func TestResolveNamespaceBaseGetsTrailingSlash(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set(KeyNamespaceBase, "https://example.org/runs")

	s, err := resolveFrom(v)
	if err != nil {
		t.Fatalf("resolveFrom: %v", err)
	}
	if s.NamespaceBase != "https://example.org/runs/" {
		t.Errorf("NamespaceBase = %q, want trailing slash", s.NamespaceBase)
	}
}

func TestResolveRejectsNamespaceLength(t *testing.T) {
	for _, n := range []int{0, 4, 65} {
		v := viper.New()
		setDefaults(v)
		v.Set(KeyNamespaceLength, n)
		if _, err := resolveFrom(v); err == nil {
			t.Errorf("namespace length %d: expected error, got nil", n)
		}
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PROVCRATE_EXTRACTOR_NAME", "json-parameters")
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if got := Get(KeyExtractorName); got != "json-parameters" {
		t.Errorf("Get(%q) = %q, want %q", KeyExtractorName, got, "json-parameters")
	}
}
