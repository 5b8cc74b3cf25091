package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonlayer/internal/diff"
	"github.com/mcncl/jsonlayer/internal/errors"
)

// Config represents the complete configuration for jsonlayer
type Config struct {
	Format FormatConfig `yaml:"format" toml:"format"`
	Diff   DiffConfig   `yaml:"diff" toml:"diff"`
	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Output OutputConfig `yaml:"output" toml:"output"`
	Dev    DevConfig    `yaml:"dev" toml:"dev"`
}

// FormatConfig controls JSON serialization
type FormatConfig struct {
	Compact bool `yaml:"compact" toml:"compact"`
}

// DiffConfig controls the diff engine
type DiffConfig struct {
	// MaxLines caps the combined line count of a diff. Zero selects the
	// built-in default.
	MaxLines int `yaml:"max_lines" toml:"max_lines"`
	Context  int `yaml:"context" toml:"context"`
}

// ScanConfig controls which string classes the scanner reports
type ScanConfig struct {
	UUIDs      bool          `yaml:"uuids" toml:"uuids"`
	Timestamps bool          `yaml:"timestamps" toml:"timestamps"`
	Patterns   []ScanPattern `yaml:"patterns" toml:"patterns"`
}

// ScanPattern is a named regular expression matched against string values
type ScanPattern struct {
	Name    string `yaml:"name" toml:"name"`
	Pattern string `yaml:"pattern" toml:"pattern"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// OutputConfig controls terminal output
type OutputConfig struct {
	Color   bool `yaml:"color" toml:"color"`
	Summary bool `yaml:"summary" toml:"summary"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug" toml:"debug"`
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Compact: false,
		},
		Diff: DiffConfig{
			MaxLines: diff.DefaultMaxLines,
			Context:  diff.DefaultContextLines,
		},
		Scan: ScanConfig{
			UUIDs:      true,
			Timestamps: true,
			Patterns:   []ScanPattern{},
		},
		Output: OutputConfig{
			Color:   true,
			Summary: true,
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported config file extension %q", ext), nil)
	}
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, errors.NewConfigError("failed to compile scan patterns", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configNames lists the file names FindConfigFile looks for, in order
var configNames = []string{
	".jsonlayer.yml",
	".jsonlayer.yaml",
	".jsonlayer.toml",
	"jsonlayer.yml",
	"jsonlayer.yaml",
	"jsonlayer.toml",
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate rejects settings no component can honour
func (c *Config) Validate() error {
	if c.Diff.MaxLines < 0 {
		return errors.NewConfigError(fmt.Sprintf("diff.max_lines must not be negative, got %d", c.Diff.MaxLines), nil)
	}
	if c.Diff.Context < 0 {
		return errors.NewConfigError(fmt.Sprintf("diff.context must not be negative, got %d", c.Diff.Context), nil)
	}
	for _, p := range c.Scan.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			return errors.NewConfigError(fmt.Sprintf("scan pattern '%s' has no name", p.Pattern), nil)
		}
	}
	return nil
}

// compilePatterns compiles all regex patterns in the config and normalises
// their names to snake_case, the form used for report labels.
func (c *Config) compilePatterns() error {
	for i := range c.Scan.Patterns {
		pattern := &c.Scan.Patterns[i]
		pattern.Name = strcase.ToSnake(pattern.Name)
		regex, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return fmt.Errorf("invalid scan pattern '%s': %w", pattern.Pattern, err)
		}
		pattern.regex = regex
	}
	return nil
}

// Matches checks if the pattern matches the given string value
func (sp *ScanPattern) Matches(s string) bool {
	if sp.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(sp.Pattern)
		if err != nil {
			return false
		}
		sp.regex = regex
	}
	return sp.regex.MatchString(s)
}

// MatchPattern returns the name of the first scan pattern matching s
func (c *Config) MatchPattern(s string) (string, bool) {
	for i := range c.Scan.Patterns {
		if c.Scan.Patterns[i].Matches(s) {
			return c.Scan.Patterns[i].Name, true
		}
	}
	return "", false
}

// DiffEngine builds a diff engine from the diff settings
func (c *Config) DiffEngine() *diff.Engine {
	return diff.NewEngine(diff.Options{
		MaxLines:     c.Diff.MaxLines,
		ContextLines: c.Diff.Context,
	})
}

// Overrides carries values given on the command line. Nil pointers and
// false booleans leave the config untouched.
type Overrides struct {
	Compact  *bool
	MaxLines *int
	Context  *int
	NoColor  bool
	Debug    bool
}

// Apply merges CLI overrides into the config
func (c *Config) Apply(o Overrides) {
	if o.Compact != nil {
		c.Format.Compact = *o.Compact
	}
	if o.MaxLines != nil {
		c.Diff.MaxLines = *o.MaxLines
	}
	if o.Context != nil {
		c.Diff.Context = *o.Context
	}
	if o.NoColor {
		c.Output.Color = false
	}
	if o.Debug {
		c.Dev.Debug = true
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// An empty configPath falls back to FindConfigFile; when no file is found
// the defaults are used.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
