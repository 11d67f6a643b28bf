package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to stderr and appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(io.MultiWriter(os.Stderr, f), level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *Logger) *Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel maps a level name to a log level, defaulting to info
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// NoteParsed logs a parsed note
func (l *Logger) NoteParsed(path, deck string, cards int) {
	l.Debug("note parsed",
		"path", path,
		"deck", deck,
		"cards", cards)
}

// FrontMatterDefaulted logs a note whose deck name fell back to the default
func (l *Logger) FrontMatterDefaulted(path, deck string) {
	l.Debug("front matter missing or malformed",
		"path", path,
		"deck", deck)
}

// ImageMissing logs an image reference that could not be found
func (l *Logger) ImageMissing(path string) {
	l.Warn("image not found",
		"path", path)
}

// ImageOutsideResources logs an image reference that escapes the resource directory
func (l *Logger) ImageOutsideResources(ref string) {
	l.Warn("image outside resource directory",
		"ref", ref)
}

// ImageUndecodable logs an image that exists but could not be re-encoded
func (l *Logger) ImageUndecodable(path string, err error) {
	l.Warn("image could not be embedded",
		"path", path,
		"error", err)
}

// DeckWritten logs a written deck export
func (l *Logger) DeckWritten(deck, path string, cards int) {
	l.Info("deck written",
		"deck", deck,
		"path", path,
		"cards", cards)
}

// DeckSkipped logs a deck that needed no rebuild
func (l *Logger) DeckSkipped(deck, reason string) {
	l.Debug("deck skipped",
		"deck", deck,
		"reason", reason)
}

// BuildCompleted logs the completion of a build
func (l *Logger) BuildCompleted(notes, decks, written int, duration time.Duration) {
	l.Info("build completed",
		"notes", notes,
		"decks", decks,
		"written", written,
		"duration", duration.Round(time.Millisecond))
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(notesDir, resourceDir, outputDir string) {
	l.Debug("config loaded",
		"notes_dir", notesDir,
		"resource_dir", resourceDir,
		"output_dir", outputDir)
}
