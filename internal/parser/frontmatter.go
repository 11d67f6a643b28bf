package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDeck is used when a note has no usable cards-deck key
const DefaultDeck = "default"

// FrontMatter holds the recognised front matter fields of a note
type FrontMatter struct {
	CardsDeck string `yaml:"cards-deck"`
}

// ParseFrontMatter reads the front matter block located by ClassifyLines.
// Absent or malformed metadata yields the default deck; it is never an error.
// The second return value is false when the block was missing or unparseable.
func ParseFrontMatter(lines []string, block *LineRange) (FrontMatter, bool) {
	fm := FrontMatter{CardsDeck: DefaultDeck}
	if block == nil || block.Start > block.End || block.End > len(lines) {
		return fm, false
	}

	yamlContent := strings.Join(lines[block.Start:block.End], "\n")

	var raw struct {
		CardsDeck any `yaml:"cards-deck"`
	}
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		return fm, false
	}

	// Only scalar values name a deck; numbers are accepted as written
	switch v := raw.CardsDeck.(type) {
	case string:
		if name := strings.TrimSpace(v); name != "" {
			fm.CardsDeck = name
		}
	case int, float64, bool:
		fm.CardsDeck = strings.TrimSpace(yamlScalar(v))
	default:
		return fm, false
	}

	return fm, true
}

func yamlScalar(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return DefaultDeck
	}
	return string(out)
}
