package extract

import "regexp"

// grammar pairs a pattern with a parser for whatever the pattern
// captures. Grammars are kept in explicit ordered lists so the
// precedence between competing forms is auditable in one place.
type grammar[T any] struct {
	pattern *regexp.Regexp
	parse   func(match []string) (T, bool)
}

// firstMatch runs the grammars in order against text and returns the
// parsed value from the first grammar whose pattern matches and whose
// parser accepts the captures. Only the first occurrence in document
// order is considered for each grammar; later occurrences are ignored.
func firstMatch[T any](text string, grammars []grammar[T]) (T, bool) {
	for _, g := range grammars {
		match := g.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if v, ok := g.parse(match); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
