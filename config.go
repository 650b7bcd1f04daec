package snappage

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the snappage configuration
type Config struct {
	InputDir   string           `yaml:"input_dir"`
	Attributes AttributeConfig  `yaml:"attributes"`
	SMAP       SMAPConfig       `yaml:"smap"`
	Functions  FunctionsConfig  `yaml:"functions"`
	Messages   MessagesConfig   `yaml:"messages"`
	Generation GenerationConfig `yaml:"generation"`
}

// AttributeConfig controls how quoted attribute values are unquoted
type AttributeConfig struct {
	// Quote attribute EL: decode escapes inside ${...} of attribute values as well
	QuoteAttributeEL bool `yaml:"quote_attribute_el"`
	// Strict quoting: an unescaped quote character inside a value is an error
	StrictQuoteEscaping bool `yaml:"strict_quote_escaping"`
	ELIgnored           bool `yaml:"el_ignored"`
	// Deferred syntax (#{...}) is plain text rather than an expression
	DeferredSyntaxAllowedAsLiteral bool `yaml:"deferred_syntax_allowed_as_literal"`
}

// SMAPConfig represents debug information (source map) settings
type SMAPConfig struct {
	Disabled       *bool  `yaml:"disabled"` // nil means enabled
	Dump           bool   `yaml:"dump"`
	BreakAtLF      bool   `yaml:"break_at_lf"`
	DefaultStratum string `yaml:"default_stratum"`
	OutputDir      string `yaml:"output_dir"`
}

// IsEnabled returns true unless SMAP generation is explicitly disabled
func (s *SMAPConfig) IsEnabled() bool {
	return s.Disabled == nil || !*s.Disabled
}

// FunctionsConfig lists the function libraries used to resolve prefix:name references
type FunctionsConfig struct {
	Libraries []string `yaml:"libraries"`
}

// MessagesConfig represents message catalog settings
type MessagesConfig struct {
	Language string `yaml:"language"`
	File     string `yaml:"file"`
}

// GenerationConfig represents settings of the generated function map source
type GenerationConfig struct {
	Package        string `yaml:"package"`
	MapNamePrefix  string `yaml:"map_name_prefix"`
	RuntimePackage string `yaml:"runtime_package"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data, validates it and applies defaults
func ParseConfig(data []byte) (*Config, error) {
	// Settings missing from the file keep their default values
	config := *DefaultConfig()

	// Parse YAML with strict mode to detect unknown fields
	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.SMAP.DefaultStratum != "" {
		if !stratumNamePattern.MatchString(config.SMAP.DefaultStratum) {
			return fmt.Errorf("%w: smap.default_stratum '%s' must be a single word", ErrConfigValidation, config.SMAP.DefaultStratum)
		}
	}

	if config.SMAP.Dump && !config.SMAP.IsEnabled() {
		return fmt.Errorf("%w: smap.dump requires smap generation to be enabled", ErrConfigValidation)
	}

	if config.Generation.MapNamePrefix != "" && !identPattern.MatchString(config.Generation.MapNamePrefix) {
		return fmt.Errorf("%w: generation.map_name_prefix '%s' is not a valid identifier", ErrConfigValidation, config.Generation.MapNamePrefix)
	}

	if config.Generation.Package != "" && !identPattern.MatchString(config.Generation.Package) {
		return fmt.Errorf("%w: generation.package '%s' is not a valid identifier", ErrConfigValidation, config.Generation.Package)
	}

	for i, lib := range config.Functions.Libraries {
		if lib == "" {
			return fmt.Errorf("%w: functions.libraries[%d]: path is required", ErrConfigValidation, i)
		}
	}

	return nil
}

var (
	stratumNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	identPattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		InputDir: "./units",
		Attributes: AttributeConfig{
			QuoteAttributeEL:    true,
			StrictQuoteEscaping: true,
		},
		SMAP: SMAPConfig{
			Disabled:       nil, // Enabled by default
			Dump:           false,
			BreakAtLF:      false,
			DefaultStratum: "JSP",
			OutputDir:      "./generated",
		},
		Functions: FunctionsConfig{
			Libraries: []string{},
		},
		Messages: MessagesConfig{
			Language: "en",
		},
		Generation: GenerationConfig{
			Package:        "pages",
			MapNamePrefix:  "_fnmap_",
			RuntimePackage: "github.com/shibukawa/snappage/runtime/fnmap",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.InputDir == "" {
		config.InputDir = defaults.InputDir
	}

	if config.SMAP.DefaultStratum == "" {
		config.SMAP.DefaultStratum = defaults.SMAP.DefaultStratum
	}

	if config.SMAP.OutputDir == "" {
		config.SMAP.OutputDir = defaults.SMAP.OutputDir
	}

	if config.Functions.Libraries == nil {
		config.Functions.Libraries = []string{}
	}

	if config.Messages.Language == "" {
		config.Messages.Language = defaults.Messages.Language
	}

	if config.Generation.Package == "" {
		config.Generation.Package = defaults.Generation.Package
	}

	if config.Generation.MapNamePrefix == "" {
		config.Generation.MapNamePrefix = defaults.Generation.MapNamePrefix
	}

	if config.Generation.RuntimePackage == "" {
		config.Generation.RuntimePackage = defaults.Generation.RuntimePackage
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}

// expandConfigEnvVars expands environment variables in path settings
func expandConfigEnvVars(config *Config) {
	config.InputDir = expandEnvVars(config.InputDir)
	config.SMAP.OutputDir = expandEnvVars(config.SMAP.OutputDir)
	config.Messages.File = expandEnvVars(config.Messages.File)

	for i, lib := range config.Functions.Libraries {
		config.Functions.Libraries[i] = expandEnvVars(lib)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
