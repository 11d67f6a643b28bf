package parser

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty text",
			input:    "",
			expected: nil,
		},
		{
			name:     "trailing newline",
			input:    "a\nb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "no trailing newline",
			input:    "a\nb",
			expected: []string{"a", "b"},
		},
		{
			name:     "crlf endings",
			input:    "a\r\nb\r\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "blank lines kept",
			input:    "a\n\n\nb",
			expected: []string{"a", "", "", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := SplitLines(tt.input)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestClassifyLinesHeadings(t *testing.T) {
	lines := SplitLines("# One\ntext\n## Two\nA line about C# syntax\nplain")

	c := ClassifyLines(lines)

	expected := []int{0, 2, 3, 5}
	if !reflect.DeepEqual(c.HeadingIndices, expected) {
		t.Errorf("HeadingIndices = %v, want %v", c.HeadingIndices, expected)
	}
	if got := c.Headings(); !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Errorf("Headings() = %v, want [0 2 3]", got)
	}
}

func TestClassifyLinesNoHeadings(t *testing.T) {
	lines := SplitLines("just\nsome text")

	c := ClassifyLines(lines)

	if !reflect.DeepEqual(c.HeadingIndices, []int{2}) {
		t.Errorf("HeadingIndices = %v, want [2]", c.HeadingIndices)
	}
	if len(c.Headings()) != 0 {
		t.Errorf("Expected no headings, got %v", c.Headings())
	}
}

func TestClassifyLinesFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *LineRange
	}{
		{
			name:     "leading block",
			input:    "---\ncards-deck: Physics\n---\n# Heading\ncontent",
			expected: &LineRange{Start: 1, End: 2},
		},
		{
			name:     "longer delimiters",
			input:    "-----\ncards-deck: Physics\nother: x\n-----\n# Heading",
			expected: &LineRange{Start: 1, End: 3},
		},
		{
			name:     "unclosed block",
			input:    "---\ncards-deck: Physics\n# Heading\n---",
			expected: nil,
		},
		{
			name:     "rule after first heading",
			input:    "# Heading\n---\ntext\n---",
			expected: nil,
		},
		{
			name:     "no block",
			input:    "# Heading\ncontent",
			expected: nil,
		},
		{
			name:     "blank lines before block",
			input:    "\n  \n---\ncards-deck: Physics\n---\n# Heading",
			expected: &LineRange{Start: 3, End: 4},
		},
		{
			name:     "text before block",
			input:    "intro\n---\ncards-deck: Physics\n---\n# Heading",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifyLines(SplitLines(tt.input))
			if !reflect.DeepEqual(c.FrontMatter, tt.expected) {
				t.Errorf("FrontMatter = %+v, want %+v", c.FrontMatter, tt.expected)
			}
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDeck string
		wantOK   bool
	}{
		{
			name:     "deck present",
			input:    "---\ncards-deck: Physics\n---\n# A\nb",
			wantDeck: "Physics",
			wantOK:   true,
		},
		{
			name:     "numeric deck",
			input:    "---\ncards-deck: 2024\n---\n# A\nb",
			wantDeck: "2024",
			wantOK:   true,
		},
		{
			name:     "key absent",
			input:    "---\ntitle: Notes\n---\n# A\nb",
			wantDeck: DefaultDeck,
			wantOK:   false,
		},
		{
			name:     "malformed yaml",
			input:    "---\ncards-deck: [unclosed\n---\n# A\nb",
			wantDeck: DefaultDeck,
			wantOK:   false,
		},
		{
			name:     "block after text",
			input:    "intro\n---\ncards-deck: X\n---\n# A\nb",
			wantDeck: DefaultDeck,
			wantOK:   false,
		},
		{
			name:     "no front matter",
			input:    "# A\nb",
			wantDeck: DefaultDeck,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := SplitLines(tt.input)
			fm, ok := ParseFrontMatter(lines, ClassifyLines(lines).FrontMatter)
			if fm.CardsDeck != tt.wantDeck {
				t.Errorf("CardsDeck = %q, want %q", fm.CardsDeck, tt.wantDeck)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}
