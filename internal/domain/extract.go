package domain

import (
	"iter"
	"strings"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// Extract yields literal values from the token stream, lazily and in source
// order. The sequence is finite and intended for a single consumption.
//
// A template literal with substitutions is not one token but a run from its
// start piece to its matching end piece; the run is re-concatenated from
// the covered tokens so interior whitespace survives verbatim, then the
// surrounding backticks are stripped like string quotes.
func Extract(tokens []m.Token, opts m.ExtractOptions) iter.Seq[string] {
	opts = opts.Effective()

	return func(yield func(string) bool) {
		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]

			var (
				value string
				keep  bool
			)

			switch tok.Type {
			case m.TokenString:
				value, keep = stripQuotes(tok.Value), opts.Strings
			case m.TokenTemplate:
				value, keep = stripQuotes(tok.Value), opts.Templates
			case m.TokenTemplateStart:
				end := templateRunEnd(tokens, i)
				value, keep = stripQuotes(joinTokens(tokens[i:end+1])), opts.Templates
				i = end
			case m.TokenComment:
				value, keep = stripCommentMarkers(tok.Value), opts.Comments
			case m.TokenRegexp:
				value, keep = tok.Value, opts.Regexps
			default:
				continue
			}

			if !keep || !passes(value, opts) {
				continue
			}

			if !yield(value) {
				return
			}
		}
	}
}

func passes(value string, opts m.ExtractOptions) bool {
	if len(value) < opts.MinLen {
		return false
	}

	if opts.MaxLen > 0 && len(value) > opts.MaxLen {
		return false
	}

	if opts.Match != nil && !opts.Match.MatchString(value) {
		return false
	}

	return true
}

// templateRunEnd returns the index of the template-end token matching the
// start at index i, accounting for templates nested inside substitution
// expressions. Falls back to the last token on malformed input.
func templateRunEnd(tokens []m.Token, i int) int {
	depth := 0

	for j := i; j < len(tokens); j++ {
		switch tokens[j].Type {
		case m.TokenTemplateStart:
			depth++
		case m.TokenTemplateEnd:
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return len(tokens) - 1
}

func joinTokens(tokens []m.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Value)
	}

	return sb.String()
}

func stripQuotes(v string) string {
	if len(v) >= 2 {
		switch v[0] {
		case '\'', '"', '`':
			return v[1 : len(v)-1]
		}
	}

	return v
}

func stripCommentMarkers(v string) string {
	switch {
	case strings.HasPrefix(v, "//"):
		return strings.TrimPrefix(v, "//")
	case strings.HasPrefix(v, "/*"):
		return strings.TrimSuffix(strings.TrimPrefix(v, "/*"), "*/")
	default:
		return v
	}
}
