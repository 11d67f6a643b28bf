package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gerunddev/mdcards/internal/export"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NotesDir == "" {
		t.Error("Expected NotesDir to be set")
	}
	if cfg.OutputDir == "" {
		t.Error("Expected OutputDir to be set")
	}
	if cfg.Format != export.FormatTSV {
		t.Errorf("Expected Format to be tsv, got %q", cfg.Format)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Expected Interval to be 30s, got %v", cfg.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			NotesDir:  "/notes",
			OutputDir: "/out",
			Format:    export.FormatTSV,
			Interval:  30 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "json format",
			mutate:  func(c *Config) { c.Format = export.FormatJSON },
			wantErr: false,
		},
		{
			name:    "empty notes_dir",
			mutate:  func(c *Config) { c.NotesDir = "" },
			wantErr: true,
		},
		{
			name:    "empty output_dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Interval = -5 * time.Second },
			wantErr: true,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Format = "apkg" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormatError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "apkg"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func overrideConfigPath(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	original := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = original
	})
	return path
}

func TestSaveAndLoad(t *testing.T) {
	overrideConfigPath(t)

	testCfg := &Config{
		NotesDir:        "/test/vault",
		ResourceDir:     "/test/vault/attachments",
		OutputDir:       "/test/decks",
		LogFile:         "/tmp/mdcards-test.log",
		LogLevel:        "debug",
		Format:          export.FormatJSON,
		Interval:        45 * time.Second,
		ExcludePatterns: []string{"templates", "*.excalidraw.md"},
		Workers:         3,
		ImageCacheSize:  64,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !reflect.DeepEqual(loaded, testCfg) {
		t.Errorf("Loaded config = %+v, want %+v", loaded, testCfg)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	overrideConfigPath(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadInvalidInterval(t *testing.T) {
	path := overrideConfigPath(t)
	if err := os.WriteFile(path, []byte(`{"interval": "soon"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid interval")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := overrideConfigPath(t)
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"NOTES_DIR", "/env/notes")
	t.Setenv(EnvPrefix+"FORMAT", "json")
	t.Setenv(EnvPrefix+"INTERVAL", "1m")
	t.Setenv(EnvPrefix+"WORKERS", "2")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.NotesDir != "/env/notes" {
		t.Errorf("NotesDir = %q", cfg.NotesDir)
	}
	if cfg.Format != export.FormatJSON {
		t.Errorf("Format = %q", cfg.Format)
	}
	if cfg.Interval != time.Minute {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv(EnvPrefix+"WORKERS", "many")

	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("Expected error for invalid workers")
	}
}

func TestCheckDirs(t *testing.T) {
	notes := t.TempDir()

	cfg := DefaultConfig()
	cfg.NotesDir = notes
	if err := cfg.CheckDirs(); err != nil {
		t.Errorf("CheckDirs failed: %v", err)
	}
	if cfg.ImageDir() != notes {
		t.Errorf("ImageDir = %q, want notes dir", cfg.ImageDir())
	}

	cfg.ResourceDir = filepath.Join(notes, "attachments")
	if err := cfg.CheckDirs(); !errors.Is(err, ErrResourceDirMissing) {
		t.Errorf("Expected ErrResourceDirMissing, got %v", err)
	}

	cfg.NotesDir = filepath.Join(notes, "absent")
	if err := cfg.CheckDirs(); !errors.Is(err, ErrNotesDirMissing) {
		t.Errorf("Expected ErrNotesDirMissing, got %v", err)
	}
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := DefaultConfig()
	cfg.NotesDir = "~/vault"
	cfg.OutputDir = "decks"

	if err := cfg.ExpandPaths(); err != nil {
		t.Fatalf("ExpandPaths failed: %v", err)
	}

	if cfg.NotesDir != filepath.Join(home, "vault") {
		t.Errorf("NotesDir = %q", cfg.NotesDir)
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		t.Errorf("OutputDir should be absolute, got %q", cfg.OutputDir)
	}
	if cfg.ResourceDir != "" {
		t.Errorf("Empty ResourceDir should stay empty, got %q", cfg.ResourceDir)
	}
}

func TestStateFilePathPerNotesDir(t *testing.T) {
	a := StateFilePath("/notes/a")
	b := StateFilePath("/notes/b")

	if a == b {
		t.Errorf("Different notes directories share a state file: %s", a)
	}
	if StateFilePath("/notes/a/") != a {
		t.Error("Equivalent notes paths should share a state file")
	}
	if filepath.Ext(a) != ".json" {
		t.Errorf("Unexpected state file %s", a)
	}
}
