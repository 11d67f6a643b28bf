package parser

import (
	"strings"
)

// HeadingMarker is the character that marks a heading line
const HeadingMarker = '#'

// LineRange is a half-open range of line indices [Start, End)
type LineRange struct {
	Start int
	End   int
}

// Classification is the result of scanning a document's lines
type Classification struct {
	// HeadingIndices holds the zero-based index of every heading line,
	// followed by a synthetic terminal index equal to the line count.
	HeadingIndices []int

	// FrontMatter is the range of lines strictly between the two
	// delimiter lines of a leading metadata block, or nil.
	FrontMatter *LineRange
}

// Headings returns the heading line indices without the terminal boundary
func (c Classification) Headings() []int {
	if len(c.HeadingIndices) == 0 {
		return nil
	}
	return c.HeadingIndices[:len(c.HeadingIndices)-1]
}

// SplitLines splits text into lines, dropping the line terminator.
// A trailing newline does not produce an extra empty line and a
// carriage return before the newline is removed.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// IsHeadingLine reports whether a line contains the heading marker.
// The marker may appear anywhere in the line, so "C# syntax" counts.
func IsHeadingLine(line string) bool {
	return strings.ContainsRune(line, HeadingMarker)
}

// IsFrontMatterDelimiter reports whether a line is a run of three or more hyphens
func IsFrontMatterDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 3 && strings.Trim(trimmed, "-") == ""
}

// ClassifyLines tags heading lines and locates the front matter block
func ClassifyLines(lines []string) Classification {
	var c Classification

	for i, line := range lines {
		if IsHeadingLine(line) {
			c.HeadingIndices = append(c.HeadingIndices, i)
		}
	}

	firstHeading := len(lines)
	if len(c.HeadingIndices) > 0 {
		firstHeading = c.HeadingIndices[0]
	}

	// Every heading needs a closing boundary
	c.HeadingIndices = append(c.HeadingIndices, len(lines))

	// The block must open on the first non-blank line
	open := 0
	for open < firstHeading && strings.TrimSpace(lines[open]) == "" {
		open++
	}
	if open >= firstHeading || !IsFrontMatterDelimiter(lines[open]) {
		return c
	}

	for i := open + 1; i < firstHeading; i++ {
		if IsFrontMatterDelimiter(lines[i]) {
			c.FrontMatter = &LineRange{Start: open + 1, End: i}
			break
		}
	}

	return c
}
