package adapter

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/generator"
	"github.com/t14raptor/go-fast/parser"
)

// Parser abstracts the external JS parser and code generator so the domain
// layer never imports them directly. A failed Parse is the fatal
// external-tool boundary for the file being processed.
type Parser interface {
	Parse(src string) (*ast.Program, error)
	Generate(prog *ast.Program) string
}

// GoFastParser is the concrete Parser backed by go-fAST.
type GoFastParser struct{}

// NewGoFastParser constructs a GoFastParser.
func NewGoFastParser() *GoFastParser {
	return &GoFastParser{}
}

// Parse builds the AST for one buffer version.
func (p *GoFastParser) Parse(src string) (*ast.Program, error) {
	prog, err := parser.ParseFile(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return prog, nil
}

// Generate serializes the AST back to formatted source text.
func (p *GoFastParser) Generate(prog *ast.Program) string {
	return generator.Generate(prog)
}
