package state

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrOtherNotesDir is returned when a state recorded for one notes
// directory is used with another
var ErrOtherNotesDir = errors.New("state belongs to another notes directory")

// NoteState records a note as of the last build
type NoteState struct {
	MTime int64  `json:"mtime"` // nanoseconds
	Size  int64  `json:"size"`
	Hash  string `json:"hash"`
	Deck  string `json:"deck"`
	Cards int    `json:"cards"`
}

// DeckState records an exported deck as of the last build
type DeckState struct {
	Path  string `json:"path"`
	Hash  string `json:"hash"` // hash of the rendered export
	Cards int    `json:"cards"`
}

// State represents the build state of one notes directory
type State struct {
	NotesDir string                `json:"notes_dir"`
	Notes    map[string]*NoteState `json:"notes"`
	Decks    map[string]*DeckState `json:"decks"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Notes: make(map[string]*NoteState),
		Decks: make(map[string]*DeckState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if state.Notes == nil {
		state.Notes = make(map[string]*NoteState)
	}
	if state.Decks == nil {
		state.Decks = make(map[string]*DeckState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashBytes hashes data in the same format as ComputeHash
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// Bind ties the state to notesDir. A state that is already bound to a
// different directory is left alone and ErrOtherNotesDir is returned.
func (s *State) Bind(notesDir string) error {
	notesDir = filepath.Clean(notesDir)
	if s.NotesDir == "" {
		s.NotesDir = notesDir
		return nil
	}
	if filepath.Clean(s.NotesDir) != notesDir {
		return fmt.Errorf("%w: %s, not %s", ErrOtherNotesDir, s.NotesDir, notesDir)
	}
	return nil
}

// HasChanged checks if a note has changed since the last build
// Uses hybrid mtime + size + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	noteState, exists := s.Notes[path]
	if !exists {
		// New note
		return true, nil
	}

	// Fast path: same mtime and size
	if info.ModTime().UnixNano() == noteState.MTime && info.Size() == noteState.Size {
		return false, nil
	}

	// mtime or size changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != noteState.Hash, nil
}

// Update records the current state of a note
func (s *State) Update(path, deck string, cards int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Notes[path] = &NoteState{
		MTime: info.ModTime().UnixNano(),
		Size:  info.Size(),
		Hash:  hash,
		Deck:  deck,
		Cards: cards,
	}

	return nil
}

// Forget removes a note from the state
func (s *State) Forget(path string) {
	delete(s.Notes, path)
}

// Removed returns tracked notes that are not in current, sorted
func (s *State) Removed(current []string) []string {
	present := make(map[string]bool, len(current))
	for _, path := range current {
		present[path] = true
	}

	var removed []string
	for path := range s.Notes {
		if !present[path] {
			removed = append(removed, path)
		}
	}
	sort.Strings(removed)
	return removed
}
