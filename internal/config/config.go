package config

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/gerunddev/mdcards/internal/export"
)

var (
	// ErrNotesDirMissing is returned when the notes directory does not exist
	ErrNotesDirMissing = errors.New("notes directory does not exist")
	// ErrResourceDirMissing is returned when the image resource directory does not exist
	ErrResourceDirMissing = errors.New("resource directory does not exist")
	// ErrInvalidFormat is returned for an unsupported export format
	ErrInvalidFormat = errors.New("invalid format")
)

// EnvPrefix prefixes environment overrides, e.g. MDCARDS_NOTES_DIR
const EnvPrefix = "MDCARDS_"

// Config represents the mdcards configuration
type Config struct {
	NotesDir        string        `json:"notes_dir"`
	ResourceDir     string        `json:"resource_dir,omitempty"` // defaults to NotesDir
	OutputDir       string        `json:"output_dir"`
	LogFile         string        `json:"log_file,omitempty"`
	LogLevel        string        `json:"log_level,omitempty"`
	Format          export.Format `json:"format"`
	Interval        time.Duration `json:"-"` // Custom JSON handling below
	ExcludePatterns []string      `json:"exclude_patterns,omitempty"`
	Workers         int           `json:"workers,omitempty"`
	ImageCacheSize  int           `json:"image_cache_size,omitempty"`
}

// rawConfig is the on-disk form, with the interval as a duration string
type rawConfig struct {
	NotesDir        string   `json:"notes_dir"`
	ResourceDir     string   `json:"resource_dir,omitempty"`
	OutputDir       string   `json:"output_dir"`
	LogFile         string   `json:"log_file,omitempty"`
	LogLevel        string   `json:"log_level,omitempty"`
	Format          string   `json:"format"`
	Interval        string   `json:"interval"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	Workers         int      `json:"workers,omitempty"`
	ImageCacheSize  int      `json:"image_cache_size,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		NotesDir:        ".",
		OutputDir:       "decks",
		LogLevel:        "info",
		Format:          export.FormatTSV,
		Interval:        30 * time.Second,
		ExcludePatterns: []string{},
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "mdcards", "config.json")
	}
	return filepath.Join(home, ".config", "mdcards", "config.json")
}

// StateFilePath returns the path to the build state file of a notes directory
// Uses platform-specific XDG data directory, one file per notes directory
// Can be overridden for testing
var StateFilePath = func(notesDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(notesDir)))
	return filepath.Join(xdg.DataHome, "mdcards", "state", fmt.Sprintf("%x.json", sum[:8]))
}

// Load reads the config file, then applies .env and environment overrides.
// A missing config file yields the defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		cfg, err = parse(data)
		if err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()

	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		cfg.Interval = interval
	}

	if raw.NotesDir != "" {
		cfg.NotesDir = raw.NotesDir
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = raw.OutputDir
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.Format != "" {
		cfg.Format = export.Format(raw.Format)
	}
	if raw.ExcludePatterns != nil {
		cfg.ExcludePatterns = raw.ExcludePatterns
	}

	cfg.ResourceDir = raw.ResourceDir
	cfg.LogFile = raw.LogFile
	cfg.Workers = raw.Workers
	cfg.ImageCacheSize = raw.ImageCacheSize

	return cfg, nil
}

// ApplyEnv overrides fields from MDCARDS_* environment variables
func (c *Config) ApplyEnv() error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}

	str("NOTES_DIR", &c.NotesDir)
	str("RESOURCE_DIR", &c.ResourceDir)
	str("OUTPUT_DIR", &c.OutputDir)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)

	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "FORMAT")); v != "" {
		c.Format = export.Format(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "INTERVAL")); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sINTERVAL '%s': %w", EnvPrefix, v, err)
		}
		c.Interval = interval
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "WORKERS")); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS '%s': %w", EnvPrefix, v, err)
		}
		c.Workers = workers
	}

	return nil
}

// Save writes configuration to the config path
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := rawConfig{
		NotesDir:        c.NotesDir,
		ResourceDir:     c.ResourceDir,
		OutputDir:       c.OutputDir,
		LogFile:         c.LogFile,
		LogLevel:        c.LogLevel,
		Format:          string(c.Format),
		Interval:        c.Interval.String(),
		ExcludePatterns: c.ExcludePatterns,
		Workers:         c.Workers,
		ImageCacheSize:  c.ImageCacheSize,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// It does not touch the filesystem; see CheckDirs.
func (c *Config) Validate() error {
	if c.NotesDir == "" {
		return fmt.Errorf("notes_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.ImageCacheSize < 0 {
		return fmt.Errorf("image_cache_size cannot be negative")
	}

	if _, err := export.NewWriter(c.Format); err != nil {
		return fmt.Errorf("%w '%s': must be one of: tsv, json", ErrInvalidFormat, c.Format)
	}

	return nil
}

// CheckDirs verifies the notes and resource directories exist.
// It must pass before any note is parsed.
func (c *Config) CheckDirs() error {
	if !isDir(c.NotesDir) {
		return fmt.Errorf("%w: %s", ErrNotesDirMissing, c.NotesDir)
	}
	if !isDir(c.ImageDir()) {
		return fmt.Errorf("%w: %s", ErrResourceDirMissing, c.ImageDir())
	}
	return nil
}

// ImageDir returns the directory images are resolved against
func (c *Config) ImageDir() string {
	if c.ResourceDir != "" {
		return c.ResourceDir
	}
	return c.NotesDir
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.NotesDir, err = expandPath(c.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to expand notes_dir: %w", err)
	}

	c.ResourceDir, err = expandPath(c.ResourceDir)
	if err != nil {
		return fmt.Errorf("failed to expand resource_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
