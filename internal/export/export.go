// Package export serialises decks into files Anki and other tools can import.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gerunddev/mdcards/internal/deck"
)

// Format names an export format
type Format string

const (
	// FormatTSV is Anki's text import format
	FormatTSV Format = "tsv"
	// FormatJSON is a plain JSON dump of the deck
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for unsupported format names
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatTSV, FormatJSON}
}

// Writer renders a deck into bytes
type Writer interface {
	Ext() string
	Render(d *deck.Deck) ([]byte, error)
}

// NewWriter returns the writer for a format
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatTSV:
		return TSVWriter{}, nil
	case FormatJSON:
		return JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TSVWriter writes Anki's tab separated import format with file headers.
// Newlines inside fields become <br> since the fields are imported as HTML.
type TSVWriter struct{}

// Ext returns the file extension
func (TSVWriter) Ext() string {
	return ".txt"
}

// Render returns the deck as Anki import text
func (TSVWriter) Render(d *deck.Deck) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#separator:tab\n")
	buf.WriteString("#html:true\n")
	buf.WriteString("#notetype:Basic\n")
	buf.WriteString("#deck:" + d.Name + "\n")
	buf.WriteString("#guid column:1\n")
	buf.WriteString("#columns:GUID\tFront\tBack\n")

	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	for _, e := range d.Cards {
		record := []string{e.GUID, toHTML(e.Front), toHTML(e.Back)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write card %s: %w", e.GUID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush deck %s: %w", d.Name, err)
	}

	return buf.Bytes(), nil
}

func toHTML(field string) string {
	field = strings.ReplaceAll(field, "\r\n", "\n")
	return strings.ReplaceAll(field, "\n", "<br>")
}

// JSONWriter writes the deck as indented JSON
type JSONWriter struct{}

// Ext returns the file extension
func (JSONWriter) Ext() string {
	return ".json"
}

// Render returns the deck as JSON
func (JSONWriter) Render(d *deck.Deck) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deck %s: %w", d.Name, err)
	}
	return append(data, '\n'), nil
}

// FileName returns a file name for a deck that is safe on common filesystems
func FileName(deckName, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, strings.TrimSpace(deckName))

	if name == "" || name == "." || name == ".." {
		name = "deck"
	}
	return name + ext
}

// fileNamespace seeds the suffix that separates decks sharing a file name
var fileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gerunddev/mdcards/export"))

// ErrFileNameClash is returned when two decks cannot be given distinct files
var ErrFileNameClash = errors.New("deck file names clash")

// FileNames assigns every deck a distinct file name. When several decks
// sanitise to the same name, the deck whose name needed no change keeps it
// and the others get a suffix derived from their own name, so the mapping
// only depends on the set of names.
func FileNames(deckNames []string, ext string) (map[string]string, error) {
	groups := make(map[string][]string)
	for _, name := range deckNames {
		base := FileName(name, ext)
		groups[base] = append(groups[base], name)
	}

	names := make(map[string]string, len(deckNames))
	for base, members := range groups {
		for _, name := range members {
			if len(members) == 1 || name+ext == base {
				names[name] = base
				continue
			}
			suffix := uuid.NewSHA1(fileNamespace, []byte(name)).String()[:8]
			names[name] = strings.TrimSuffix(base, ext) + "-" + suffix + ext
		}
	}

	owners := make(map[string]string, len(names))
	for name, file := range names {
		if other, taken := owners[file]; taken {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrFileNameClash, other, name, file)
		}
		owners[file] = name
	}

	return names, nil
}

// Paths returns where every deck is written inside dir
func Paths(dir string, w Writer, deckNames []string) (map[string]string, error) {
	names, err := FileNames(deckNames, w.Ext())
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(names))
	for deckName, file := range names {
		paths[deckName] = filepath.Join(dir, file)
	}
	return paths, nil
}

// Write writes rendered deck data to path, creating its directory
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write deck file: %w", err)
	}

	return nil
}
