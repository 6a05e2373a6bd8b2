package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4i-labs/provcrate/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the report command.
const (
	KeyExtractorPath   = "extractor.path"
	KeyExtractorName   = "extractor.name"
	KeyContextURL      = "context.url"
	KeyNamespaceBase   = "namespace.base"
	KeyNamespaceLength = "namespace.length"
	KeyOutputDir       = "output.dir"
	KeyWorkflowFile    = "workflow.file"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

// Defaults for keys that must always resolve to something usable.
const (
	DefaultContextURL      = "https://git.rwth-aachen.de/nfdi4ing/metadata4ing/metadata4ing/-/raw/1.3.1/m4i_context.jsonld"
	DefaultNamespaceBase   = "https://local-domain.org/"
	DefaultNamespaceLength = 16
	DefaultOutputDir       = "" // the work directory
	DefaultWorkflowFile    = "Snakefile"
)

// Settings is the resolved configuration for one report run.
type Settings struct {
	ExtractorPath   string
	ExtractorName   string
	ContextURL      string
	NamespaceBase   string
	NamespaceLength int
	OutputDir       string
	WorkflowFile    string
	LogLevel        string
	LogFormat       string
}

// Dir returns the path to the config directory (~/.provcrate/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.provcrate/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to env vars with underscores, e.g. extractor.path is
// read from PROVCRATE_EXTRACTOR_PATH.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyContextURL, DefaultContextURL)
	v.SetDefault(KeyNamespaceBase, DefaultNamespaceBase)
	v.SetDefault(KeyNamespaceLength, DefaultNamespaceLength)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyWorkflowFile, DefaultWorkflowFile)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Resolve reads the current Viper state into Settings and checks the values
// that would otherwise fail late in a run.
func Resolve() (*Settings, error) {
	return resolveFrom(viper.GetViper())
}

func resolveFrom(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		ExtractorPath:   v.GetString(KeyExtractorPath),
		ExtractorName:   v.GetString(KeyExtractorName),
		ContextURL:      v.GetString(KeyContextURL),
		NamespaceBase:   v.GetString(KeyNamespaceBase),
		NamespaceLength: v.GetInt(KeyNamespaceLength),
		OutputDir:       v.GetString(KeyOutputDir),
		WorkflowFile:    v.GetString(KeyWorkflowFile),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
	}

	if s.NamespaceLength < 8 || s.NamespaceLength > 64 {
		return nil, fmt.Errorf("%s must be between 8 and 64, got %d", KeyNamespaceLength, s.NamespaceLength)
	}
	if !strings.HasSuffix(s.NamespaceBase, "/") && !strings.HasSuffix(s.NamespaceBase, "#") {
		s.NamespaceBase += "/"
	}
	return s, nil
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
