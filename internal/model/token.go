package model

// TokenType is the coarse lexical class of a source token. The engine only
// distinguishes classes it acts on; everything else is TokenOther.
type TokenType int

const (
	TokenOther TokenType = iota
	TokenIdentifier
	TokenKeyword
	TokenPunctuator
	TokenNumber
	TokenString
	TokenTemplate
	TokenTemplateStart
	TokenTemplateMiddle
	TokenTemplateEnd
	TokenComment
	TokenRegexp
	TokenWhitespace
	TokenLineTerminator
)

// Token is a lexed source token with its byte range in the buffer it was
// lexed from. Start/End are offsets into that exact buffer version; any
// mutation of the buffer invalidates them.
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
}

// IsLayout reports whether the token carries no program meaning.
func (t Token) IsLayout() bool {
	switch t.Type {
	case TokenWhitespace, TokenLineTerminator, TokenComment:
		return true
	}
	return false
}

// IsTemplatePart reports whether the token belongs to a template literal,
// including the substitution-bearing start/middle/end pieces.
func (t Token) IsTemplatePart() bool {
	switch t.Type {
	case TokenTemplate, TokenTemplateStart, TokenTemplateMiddle, TokenTemplateEnd:
		return true
	}
	return false
}
