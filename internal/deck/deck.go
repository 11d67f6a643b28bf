// Package deck gathers the cards of many notes into named decks.
package deck

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/mdcards/internal/card"
	"github.com/gerunddev/mdcards/internal/convert"
	"github.com/gerunddev/mdcards/internal/logger"
	"github.com/gerunddev/mdcards/internal/parser"
)

// NoteExt is the extension of note files
const NoteExt = ".md"

// guidNamespace scopes card GUIDs so they do not collide with other generators
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gerunddev/mdcards/card"))

// Note is the result of parsing one note file
type Note struct {
	Path          string
	Deck          string
	Cards         []card.Card
	FrontMatterOK bool
}

// Entry is a card placed in a deck
type Entry struct {
	card.Card
	GUID   string `json:"guid"`
	Source string `json:"source"`
}

// Deck is a named collection of cards
type Deck struct {
	Name    string   `json:"name"`
	Cards   []Entry  `json:"cards"`
	Sources []string `json:"sources"`
}

// Options controls Collect
type Options struct {
	NotesDir        string
	ExcludePatterns []string
	Workers         int
	Pipeline        *convert.Pipeline
	Log             *logger.Logger
}

// GUID returns a stable identifier for a card in a deck.
// occurrence separates cards that share a front; the first one is 0.
func GUID(deckName, front string, occurrence int) string {
	name := deckName + "\x00" + front
	if occurrence > 0 {
		name += fmt.Sprintf("\x00%d", occurrence)
	}
	return uuid.NewSHA1(guidNamespace, []byte(name)).String()
}

// ScanNotes finds note files below dir, skipping hidden directories and
// anything matching an exclude pattern. Paths are returned sorted.
func ScanNotes(dir string, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if path != dir && isExcluded(rel, d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != NoteExt || isExcluded(rel, d.Name(), exclude) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isExcluded matches a pattern against the relative path and the base name
func isExcluded(rel, name string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ParseNote reads a note file and builds its cards
func ParseNote(path string, p *convert.Pipeline) (*Note, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note %s: %w", path, err)
	}

	doc := parser.Parse(string(content))

	return &Note{
		Path:          path,
		Deck:          doc.Deck(),
		Cards:         card.FromDocument(doc, p),
		FrontMatterOK: doc.FrontMatterOK,
	}, nil
}

// Collect parses every note below opts.NotesDir. Notes are parsed in
// parallel; each parse is independent and the pipeline is only read.
// The returned notes keep the sorted path order.
func Collect(ctx context.Context, opts Options) ([]*Note, error) {
	log := logger.OrDiscard(opts.Log)

	paths, err := ScanNotes(opts.NotesDir, opts.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", opts.NotesDir, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	notes := make([]*Note, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			note, err := ParseNote(path, opts.Pipeline)
			if err != nil {
				log.FileError(path, err)
				return err
			}
			if !note.FrontMatterOK {
				log.FrontMatterDefaulted(path, note.Deck)
			}
			log.NoteParsed(path, note.Deck, len(note.Cards))

			notes[i] = note
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return notes, nil
}

// Group merges notes into decks by deck name.
// Decks are sorted by name and cards keep note order.
func Group(notes []*Note) []*Deck {
	byName := make(map[string]*Deck)
	seen := make(map[string]map[string]int)

	for _, note := range notes {
		d, ok := byName[note.Deck]
		if !ok {
			d = &Deck{Name: note.Deck}
			byName[note.Deck] = d
			seen[note.Deck] = make(map[string]int)
		}

		d.Sources = append(d.Sources, note.Path)
		for _, c := range note.Cards {
			occurrence := seen[note.Deck][c.Front]
			seen[note.Deck][c.Front]++

			d.Cards = append(d.Cards, Entry{
				Card:   c,
				GUID:   GUID(note.Deck, c.Front, occurrence),
				Source: note.Path,
			})
		}
	}

	decks := make([]*Deck, 0, len(byName))
	for _, d := range byName {
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool {
		return decks[i].Name < decks[j].Name
	})

	return decks
}
