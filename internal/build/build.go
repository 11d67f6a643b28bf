package build

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gerunddev/mdcards/internal/config"
	"github.com/gerunddev/mdcards/internal/convert"
	"github.com/gerunddev/mdcards/internal/deck"
	"github.com/gerunddev/mdcards/internal/export"
	"github.com/gerunddev/mdcards/internal/logger"
	"github.com/gerunddev/mdcards/internal/state"
)

// Builder turns a notes directory into deck exports
type Builder struct {
	config   *config.Config
	state    *state.State
	log      *logger.Logger
	writer   export.Writer
	pipeline *convert.Pipeline
}

// NewBuilder validates the configuration and prepares the card pipeline.
// Missing directories are reported here, before any note is read.
func NewBuilder(cfg *config.Config, st *state.State, log *logger.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.CheckDirs(); err != nil {
		return nil, err
	}

	writer, err := export.NewWriter(cfg.Format)
	if err != nil {
		return nil, err
	}

	log = logger.OrDiscard(log)
	images, err := convert.NewImageEmbedder(cfg.ImageDir(), cfg.ImageCacheSize, log)
	if err != nil {
		return nil, err
	}

	if st == nil {
		st = state.NewState()
	}
	if err := st.Bind(cfg.NotesDir); err != nil {
		return nil, err
	}

	return &Builder{
		config:   cfg,
		state:    st,
		log:      log,
		writer:   writer,
		pipeline: convert.NewPipeline(images),
	}, nil
}

// Pipeline returns the card text pipeline
func (b *Builder) Pipeline() *convert.Pipeline {
	return b.pipeline
}

// Writer returns the export writer
func (b *Builder) Writer() export.Writer {
	return b.writer
}

// Options controls a build
type Options struct {
	// Force rewrites every deck, changed or not
	Force bool
}

// Result represents the result of a build
type Result struct {
	Notes     int
	Decks     int
	Written   []string
	Skipped   []string
	Orphaned  []string // decks that lost all their notes
	StartTime time.Time
	EndTime   time.Time
}

// Collect parses every note and groups the cards into decks
func (b *Builder) Collect(ctx context.Context) ([]*deck.Note, []*deck.Deck, error) {
	notes, err := deck.Collect(ctx, deck.Options{
		NotesDir:        b.config.NotesDir,
		ExcludePatterns: b.config.ExcludePatterns,
		Workers:         b.config.Workers,
		Pipeline:        b.pipeline,
		Log:             b.log,
	})
	if err != nil {
		return nil, nil, err
	}
	return notes, deck.Group(notes), nil
}

// Targets returns the export path of every deck
func (b *Builder) Targets(decks []*deck.Deck) (map[string]string, error) {
	names := make([]string, 0, len(decks))
	for _, d := range decks {
		names = append(names, d.Name)
	}
	return export.Paths(b.config.OutputDir, b.writer, names)
}

// Build renders every deck and writes those whose export differs from the
// last build, then records the new note state. Comparing rendered exports
// catches changes to embedded images as well as to notes.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
	}

	notes, decks, err := b.Collect(ctx)
	if err != nil {
		return nil, err
	}
	result.Notes = len(notes)
	result.Decks = len(decks)

	targets, err := b.Targets(decks)
	if err != nil {
		return nil, err
	}

	live := make(map[string]bool, len(decks))
	for _, d := range decks {
		live[d.Name] = true
		target := targets[d.Name]

		data, err := b.writer.Render(d)
		if err != nil {
			return nil, fmt.Errorf("failed to render deck %s: %w", d.Name, err)
		}
		hash := state.HashBytes(data)

		prev := b.state.Decks[d.Name]
		if !opts.Force && prev != nil && prev.Hash == hash && prev.Path == target && fileExists(target) {
			b.log.DeckSkipped(d.Name, "unchanged")
			result.Skipped = append(result.Skipped, d.Name)
			continue
		}

		if err := export.Write(target, data); err != nil {
			return nil, fmt.Errorf("failed to export deck %s: %w", d.Name, err)
		}
		b.log.DeckWritten(d.Name, target, len(d.Cards))

		b.state.Decks[d.Name] = &state.DeckState{
			Path:  target,
			Hash:  hash,
			Cards: len(d.Cards),
		}
		result.Written = append(result.Written, d.Name)
	}

	for name := range b.state.Decks {
		if !live[name] {
			result.Orphaned = append(result.Orphaned, name)
			delete(b.state.Decks, name)
		}
	}
	sort.Strings(result.Orphaned)

	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		paths = append(paths, n.Path)
	}
	for _, path := range b.state.Removed(paths) {
		b.state.Forget(path)
	}
	for _, n := range notes {
		if err := b.state.Update(n.Path, n.Deck, len(n.Cards)); err != nil {
			b.log.StateError("update", err)
		}
	}

	result.EndTime = time.Now()
	b.log.BuildCompleted(result.Notes, result.Decks, len(result.Written), result.EndTime.Sub(result.StartTime))

	return result, nil
}

// Pending lists notes changed or removed since the last build
func (b *Builder) Pending() (changed, removed []string, err error) {
	paths, err := deck.ScanNotes(b.config.NotesDir, b.config.ExcludePatterns)
	if err != nil {
		return nil, nil, err
	}

	for _, path := range paths {
		isChanged, err := b.state.HasChanged(path)
		if err != nil {
			return nil, nil, err
		}
		if isChanged {
			changed = append(changed, path)
		}
	}

	return changed, b.state.Removed(paths), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// String returns a human-readable summary of the build result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d notes, %d decks, %d written, %d unchanged (took %v)",
		r.Notes,
		r.Decks,
		len(r.Written),
		len(r.Skipped),
		duration.Round(time.Millisecond),
	)
}
