// Package adapter contains infrastructure adapters for the jsretk CLI. It
// intentionally hides the lexer, parser and process-spawn details so the
// domain layer can be tested without them.
package adapter

import (
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// Lexer produces the ordered token stream for one source buffer version.
// Consecutive tokens cover every byte of the input exactly once.
type Lexer interface {
	Tokenize(src string) ([]m.Token, error)
}

// JSLexer is the concrete Lexer backed by tdewolff/parse. It resolves the
// slash ambiguity itself: a '/' in expression position is re-lexed as a
// regular expression literal.
type JSLexer struct{}

// NewJSLexer constructs a JSLexer.
func NewJSLexer() *JSLexer {
	return &JSLexer{}
}

// Tokenize lexes src into model tokens with byte ranges.
func (jl *JSLexer) Tokenize(src string) ([]m.Token, error) {
	lex := js.NewLexer(parse.NewInputString(src))

	var tokens []m.Token

	offset := 0

	for {
		tt, data := lex.Next()
		if tt == js.ErrorToken {
			if err := lex.Err(); err != nil && err != io.EOF {
				return tokens, fmt.Errorf("lex error at offset %d: %w", offset, err)
			}

			return tokens, nil
		}

		if (tt == js.DivToken || tt == js.DivEqToken) && regexpAllowed(tokens) {
			if rt, rdata := lex.RegExp(); rt == js.RegExpToken {
				tt, data = rt, rdata
			}
		}

		typ := classify(tt)

		tokens = append(tokens, m.Token{
			Type:  typ,
			Value: string(data),
			Start: offset,
			End:   offset + len(data),
		})
		offset += len(data)
	}
}

// classify maps lexer token types onto the coarse model classes.
func classify(tt js.TokenType) m.TokenType {
	switch tt {
	case js.WhitespaceToken:
		return m.TokenWhitespace
	case js.LineTerminatorToken:
		return m.TokenLineTerminator
	case js.CommentToken, js.CommentLineTerminatorToken:
		return m.TokenComment
	case js.StringToken:
		return m.TokenString
	case js.RegExpToken:
		return m.TokenRegexp
	case js.TemplateToken:
		return m.TokenTemplate
	case js.TemplateStartToken:
		return m.TokenTemplateStart
	case js.TemplateMiddleToken:
		return m.TokenTemplateMiddle
	case js.TemplateEndToken:
		return m.TokenTemplateEnd
	case js.IdentifierToken:
		return m.TokenIdentifier
	}

	switch {
	case js.IsNumeric(tt):
		return m.TokenNumber
	case js.IsReservedWord(tt):
		return m.TokenKeyword
	case js.IsIdentifier(tt):
		// Contextual keywords (async, of, get, ...) lex as their own types
		// but are plain identifiers for renaming purposes.
		return m.TokenIdentifier
	case js.IsPunctuator(tt) || js.IsOperator(tt):
		return m.TokenPunctuator
	default:
		return m.TokenOther
	}
}

// regexpAllowed reports whether a '/' at the current position starts a
// regular expression rather than a division, judged from the previous
// significant token.
func regexpAllowed(tokens []m.Token) bool {
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		if t.IsLayout() {
			continue
		}

		switch t.Type {
		case m.TokenIdentifier, m.TokenNumber, m.TokenString, m.TokenRegexp,
			m.TokenTemplate, m.TokenTemplateEnd:
			return false
		case m.TokenKeyword:
			switch t.Value {
			case "this", "true", "false", "null", "super":
				return false
			}

			return true
		case m.TokenPunctuator:
			switch t.Value {
			case ")", "]", "}", "++", "--":
				return false
			}

			return true
		default:
			return true
		}
	}

	// Start of input.
	return true
}
