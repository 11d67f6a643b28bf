package convert

import (
	"regexp"
)

var (
	mathBlockPattern  = regexp.MustCompile(`\$\$(.*?)\$\$`)
	mathInlinePattern = regexp.MustCompile(`\$(.*?)\$`)
)

// ConvertMath rewrites TeX delimiters to the MathJax forms Anki understands
// $$x$$ → \[x\]
// $x$ → \(x\)
// Block math is rewritten first so its delimiters are not read as two inline pairs.
func ConvertMath(text string) string {
	text = mathBlockPattern.ReplaceAllString(text, `\[$1\]`)
	return mathInlinePattern.ReplaceAllString(text, `\($1\)`)
}
