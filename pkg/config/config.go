package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Language LanguageConfig `yaml:"language"`
	Datasets DatasetsConfig `yaml:"datasets"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	// ProgressInterval is the number of dump lines between progress log entries.
	ProgressInterval int `yaml:"progress_interval"`
}

// LanguageConfig holds the per-language wiki profile. The URI prefixes must
// match the extraction run that produced the dumps.
type LanguageConfig struct {
	Code              string `yaml:"code"`
	TemplateNamespace string `yaml:"template_namespace"`
	TemplatePredicate string `yaml:"template_predicate"`
	ResourcePrefix    string `yaml:"resource_prefix"`
	PropertyPrefix    string `yaml:"property_prefix"`
}

// DatasetsConfig holds the paths of the five input dumps. Paths ending in
// .gz or .bz2 are decompressed on the fly.
type DatasetsConfig struct {
	Redirects           string `yaml:"redirects"`
	TemplateUsage       string `yaml:"template_usage"`
	PropertyDefinitions string `yaml:"property_definitions"`
	PropertyOccurrences string `yaml:"property_occurrences"`
	PageProperties      string `yaml:"page_properties"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration, set up for the English
// Wikipedia against the generic extraction namespaces.
func DefaultConfig() *Config {
	return &Config{
		Language: LanguageConfig{
			Code:              "en",
			TemplateNamespace: "Template:",
			TemplatePredicate: "http://dbpedia.org/ontology/wikiPageUsesTemplate",
			ResourcePrefix:    "http://dbpedia.org/resource/",
			PropertyPrefix:    "http://dbpedia.org/property/",
		},
		Datasets: DatasetsConfig{
			Redirects:           "data/redirects_en.nt",
			TemplateUsage:       "data/article_templates_en.nt",
			PropertyDefinitions: "data/template_parameters_en.nt",
			PropertyOccurrences: "data/infobox_test_en.nt",
			PageProperties:      "data/infobox_properties_en.nt",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/wikistats.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/wikistats.db",
		},
		ProgressInterval: 1_000_000,
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		// If file does not exist, save defaults
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	// Env overrides apply on every run, including the one that just
	// created the default file (useful for batch runs over several languages)
	if code := os.Getenv("WIKISTATS_LANGUAGE"); code != "" {
		cfg.Language.Code = code
	}
	if dbPath := os.Getenv("WIKISTATS_DB"); dbPath != "" {
		cfg.DB.Path = dbPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !isValidLanguage(c.Language.Code) {
		return fmt.Errorf("invalid language code %q: must be a lowercase wiki code (e.g. 'en', 'de', 'pt-br')", c.Language.Code)
	}
	if c.Language.ResourcePrefix == "" || c.Language.PropertyPrefix == "" {
		return fmt.Errorf("resource_prefix and property_prefix must be set for language %q", c.Language.Code)
	}
	return nil
}

func isValidLanguage(s string) bool {
	matched, _ := regexp.MatchString(`^[a-z]{2,8}(-[a-z]{2,8})?$`, s)
	return matched
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# wikistats configuration
# -----------------------
# Datasets may be plain, .gz or .bz2 compressed triple dumps.
# URI prefixes must match the extraction run that produced them.

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
