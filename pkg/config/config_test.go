package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Language.Code != "en" {
		t.Errorf("Code = %q, want en", cfg.Language.Code)
	}
	if cfg.Language.TemplateNamespace != "Template:" {
		t.Errorf("TemplateNamespace = %q", cfg.Language.TemplateNamespace)
	}
	if cfg.ProgressInterval != 1_000_000 {
		t.Errorf("ProgressInterval = %d", cfg.ProgressInterval)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "wikistats.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Language.Code != "en" {
		t.Errorf("Code = %q, want en", cfg.Language.Code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikistats.yaml")
	partial := `
language:
  code: de
  template_namespace: "Vorlage:"
  resource_prefix: "http://de.dbpedia.org/resource/"
  property_prefix: "http://de.dbpedia.org/property/"
`
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Language.Code != "de" {
		t.Errorf("Code = %q, want de", cfg.Language.Code)
	}
	if cfg.Language.TemplateNamespace != "Vorlage:" {
		t.Errorf("TemplateNamespace = %q", cfg.Language.TemplateNamespace)
	}
	// Unset keys fall back to defaults.
	if cfg.Language.TemplatePredicate != "http://dbpedia.org/ontology/wikiPageUsesTemplate" {
		t.Errorf("TemplatePredicate = %q", cfg.Language.TemplatePredicate)
	}
	if cfg.DB.Path == "" {
		t.Error("DB.Path fell back to empty")
	}
}

func TestLoadAppliesEnvOnFirstRun(t *testing.T) {
	// No config file yet: the run that creates the defaults must still
	// honor the env overrides.
	t.Setenv("WIKISTATS_LANGUAGE", "de")
	t.Setenv("WIKISTATS_DB", "/tmp/override.db")
	path := filepath.Join(t.TempDir(), "wikistats.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Language.Code != "de" {
		t.Errorf("Code = %q, want de", cfg.Language.Code)
	}
	if cfg.DB.Path != "/tmp/override.db" {
		t.Errorf("DB.Path = %q, want /tmp/override.db", cfg.DB.Path)
	}

	// The file on disk keeps the defaults; the override is per-process.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if reloaded.Language.Code != "de" {
		t.Errorf("reloaded Code = %q, want de (env still set)", reloaded.Language.Code)
	}
}

func TestLoadRejectsBadEnvLanguage(t *testing.T) {
	t.Setenv("WIKISTATS_LANGUAGE", "NOT VALID")
	path := filepath.Join(t.TempDir(), "wikistats.yaml")

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid language code from env")
	}
}

func TestLoadRejectsBadLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikistats.yaml")
	bad := `
language:
  code: "EN US"
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid language code")
	}
}

func TestIsValidLanguage(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"en", true},
		{"de", true},
		{"pt-br", true},
		{"simple", true},
		{"EN", false},
		{"", false},
		{"e", false},
	}

	for _, tt := range tests {
		if got := isValidLanguage(tt.code); got != tt.ok {
			t.Errorf("isValidLanguage(%q) = %v, want %v", tt.code, got, tt.ok)
		}
	}
}
