// Package convert turns note markup into card text.
//
// Each stage is a plain text-to-text function; Pipeline runs them in a
// fixed order: links are unwrapped, images embedded, then math delimiters
// rewritten.
package convert

// Stage is one text substitution
type Stage func(string) string

// Pipeline applies the card text stages in order
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds the standard pipeline around an image embedder.
// A nil embedder skips image embedding.
func NewPipeline(images *ImageEmbedder) *Pipeline {
	stages := []Stage{ConvertObsidianLinks}
	if images != nil {
		stages = append(stages, images.Convert)
	}
	stages = append(stages, ConvertMath)

	return &Pipeline{stages: stages}
}

// Apply runs every stage over text. A nil pipeline returns text unchanged.
func (p *Pipeline) Apply(text string) string {
	if p == nil {
		return text
	}
	for _, stage := range p.stages {
		text = stage(text)
	}
	return text
}
