package convert

import (
	"regexp"
	"strings"
)

// wikilinkPattern matches [[label]] and, through the optional leading "!",
// embeds that must be left for the image stage.
var wikilinkPattern = regexp.MustCompile(`(!?)\[\[(.*?)\]\]`)

// ConvertObsidianLinks unwraps Obsidian links to their label text
// [[Term]] → Term
// [[Note|Alias]] → Alias
// ![[embed.png]] is left untouched
func ConvertObsidianLinks(text string) string {
	return wikilinkPattern.ReplaceAllStringFunc(text, func(match string) string {
		submatches := wikilinkPattern.FindStringSubmatch(match)
		if len(submatches) < 3 || submatches[1] == "!" {
			return match
		}

		label := submatches[2]
		if target, alias, ok := strings.Cut(label, "|"); ok {
			if alias = strings.TrimSpace(alias); alias != "" {
				return alias
			}
			return target
		}
		return label
	})
}
