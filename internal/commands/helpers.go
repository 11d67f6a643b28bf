package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gerunddev/mdcards/internal/build"
	"github.com/gerunddev/mdcards/internal/config"
	"github.com/gerunddev/mdcards/internal/export"
	"github.com/gerunddev/mdcards/internal/logger"
	"github.com/gerunddev/mdcards/internal/state"
)

// globalOptions holds the flags shared by every command.
// Flags override the config file and the environment.
type globalOptions struct {
	NotesDir    string
	ResourceDir string
	OutputDir   string
	Format      string
	LogFile     string
	Workers     int
	Debug       bool
}

func bindGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVarP(&o.NotesDir, "notes", "n", "", "Notes directory")
	fs.StringVarP(&o.ResourceDir, "resources", "r", "", "Directory images are resolved against (default: notes directory)")
	fs.StringVarP(&o.OutputDir, "out", "o", "", "Output directory for deck exports")
	fs.StringVarP(&o.Format, "format", "f", "", "Export format (tsv, json)")
	fs.StringVar(&o.LogFile, "log-file", "", "Append logs to this file")
	fs.IntVarP(&o.Workers, "workers", "w", 0, "Notes parsed in parallel (0 = number of CPUs)")
	fs.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
}

// apply copies every flag the user set onto cfg
func (o *globalOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("notes") {
		cfg.NotesDir = o.NotesDir
	}
	if fs.Changed("resources") {
		cfg.ResourceDir = o.ResourceDir
	}
	if fs.Changed("out") {
		cfg.OutputDir = o.OutputDir
	}
	if fs.Changed("format") {
		cfg.Format = export.Format(o.Format)
	}
	if fs.Changed("log-file") {
		cfg.LogFile = o.LogFile
	}
	if fs.Changed("workers") {
		cfg.Workers = o.Workers
	}
	if o.Debug {
		cfg.LogLevel = "debug"
	}
}

// loadConfig loads the config file, applies flag overrides and expands paths
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	globals.apply(fs, cfg)

	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg.
// The returned cleanup closes the log file, if any.
func newLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(cfg.LogLevel)

	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return l, cleanup, nil
	}

	return logger.NewWithLevel(os.Stderr, level), func() {}, nil
}

// session is everything a command needs to build decks
type session struct {
	cfg     *config.Config
	log     *logger.Logger
	state   *state.State
	builder *build.Builder
	close   func()
}

// openSession loads config, logger and build state. Callers must call close.
func openSession(fs *pflag.FlagSet) (*session, error) {
	cfg, err := loadConfig(fs)
	if err != nil {
		return nil, err
	}

	l, cleanup, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	l.ConfigLoaded(cfg.NotesDir, cfg.ImageDir(), cfg.OutputDir)

	st, err := state.Load(config.StateFilePath(cfg.NotesDir))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("error loading state: %w", err)
	}

	b, err := build.NewBuilder(cfg, st, l)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &session{
		cfg:     cfg,
		log:     l,
		state:   st,
		builder: b,
		close:   cleanup,
	}, nil
}

// saveState persists the build state, logging rather than failing
func (s *session) saveState() {
	if err := s.state.Save(config.StateFilePath(s.cfg.NotesDir)); err != nil {
		s.log.StateError("save", err)
	}
}
