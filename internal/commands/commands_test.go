package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/gerunddev/mdcards/internal/build"
	"github.com/gerunddev/mdcards/internal/config"
	"github.com/gerunddev/mdcards/internal/convert"
	"github.com/gerunddev/mdcards/internal/export"
	"github.com/gerunddev/mdcards/internal/state"
)

func TestGlobalOptionsApply(t *testing.T) {
	var o globalOptions
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindGlobalFlags(fs, &o)

	if err := fs.Parse([]string{"--notes", "/vault", "-f", "json", "--workers", "3", "--debug"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg := config.DefaultConfig()
	o.apply(fs, cfg)

	if cfg.NotesDir != "/vault" {
		t.Errorf("NotesDir = %q", cfg.NotesDir)
	}
	if cfg.Format != export.FormatJSON {
		t.Errorf("Format = %q", cfg.Format)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	// Unset flags keep the configured value
	if cfg.OutputDir != config.DefaultConfig().OutputDir {
		t.Errorf("OutputDir = %q, should be untouched", cfg.OutputDir)
	}
}

func TestRenderPreviewRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	content := "---\ncards-deck: Biology\n---\n# Cell\n## Membrane\nLipid $bilayer$\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write note: %v", err)
	}

	var buf bytes.Buffer
	if err := renderPreview(&buf, path, convert.NewPipeline(nil), previewOptions{Raw: true}); err != nil {
		t.Fatalf("renderPreview failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Biology", "Cell > Membrane", `Lipid \(bilayer\)`, "2/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Preview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPreviewNoCards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	if err := os.WriteFile(path, []byte("just text\n"), 0644); err != nil {
		t.Fatalf("Failed to write note: %v", err)
	}

	var buf bytes.Buffer
	if err := renderPreview(&buf, path, nil, previewOptions{Raw: true}); err != nil {
		t.Fatalf("renderPreview failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No cards") {
		t.Errorf("Expected 'No cards', got:\n%s", buf.String())
	}
}

func TestRenderPreviewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := renderPreview(&buf, filepath.Join(t.TempDir(), "absent.md"), nil, previewOptions{Raw: true})
	if err == nil {
		t.Error("Expected error for missing note")
	}
}

func TestPrintStatus(t *testing.T) {
	st := state.NewState()
	st.Decks["Physics"] = &state.DeckState{Path: "/out/Physics.txt", Cards: 2}

	var buf bytes.Buffer
	printStatus(&buf, "/vault", st, []string{"/vault/a.md"}, []string{"/vault/old/b.md"})

	out := buf.String()
	for _, want := range []string{"Physics", "M a.md", "D " + filepath.Join("old", "b.md"), "1 changed, 1 removed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Status missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printStatus(&buf, "/vault", st, nil, nil)
	if !strings.Contains(buf.String(), "No note changes") {
		t.Errorf("Expected clean status, got:\n%s", buf.String())
	}
}

func TestWatchBuildsUntilCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.NotesDir = filepath.Join(tmpDir, "vault")
	cfg.OutputDir = filepath.Join(tmpDir, "decks")
	if err := os.MkdirAll(cfg.NotesDir, 0755); err != nil {
		t.Fatalf("Failed to create vault: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.NotesDir, "a.md"), []byte("# Q\nA\n"), 0644); err != nil {
		t.Fatalf("Failed to write note: %v", err)
	}

	b, err := build.NewBuilder(cfg, state.NewState(), nil)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	builds := 0
	var written []string

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		watch(ctx, b, 10*time.Millisecond, func(r *build.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				return
			}
			builds++
			written = append(written, r.Written...)
			if builds == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if builds < 3 {
		t.Errorf("Expected at least 3 builds, got %d", builds)
	}
	// Only the first build writes, later ticks find nothing changed
	if len(written) != 1 || written[0] != "default" {
		t.Errorf("Written = %v, want [default]", written)
	}
}
