// Package scope resolves byte offsets in a source buffer to lexical
// bindings using the go-fAST parser and resolver.
package scope

import (
	"errors"
	"fmt"
	"sort"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"
	"github.com/t14raptor/go-fast/resolver"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// ErrNoBinding reports that no binding occurrence starts at the probed
// offset. Distinguished from parse failures so the character-order engine
// can advance quietly.
var ErrNoBinding = errors.New("no binding at offset")

// Resolver maps a byte offset into one specific source version to the
// binding whose occurrence starts there. Results are only valid against the
// exact text they were resolved from; after any mutation the caller must
// resolve again.
type Resolver interface {
	ResolveAt(src string, offset int) (m.Binding, error)
}

// ASTResolver is the concrete Resolver. It parses the buffer, runs the
// go-fAST scope resolver so same-named identifiers in disjoint scopes get
// distinct identities, and groups identifier occurrences per binding.
//
// The resolver is owned by a single file-processing run; it caches the
// occurrence table for the most recent source text because the engine asks
// about many offsets of the same version between mutations.
type ASTResolver struct {
	lastSrc string
	lastTab *bindingTable
}

// NewASTResolver constructs an ASTResolver.
func NewASTResolver() *ASTResolver {
	return &ASTResolver{}
}

// ResolveAt returns the binding whose occurrence begins at offset, or an
// error when the buffer does not parse or no binding starts there.
func (r *ASTResolver) ResolveAt(src string, offset int) (m.Binding, error) {
	tab, err := r.table(src)
	if err != nil {
		return m.Binding{}, err
	}

	id, ok := tab.byStart[offset]
	if !ok {
		return m.Binding{}, fmt.Errorf("%w: %d", ErrNoBinding, offset)
	}

	entry := tab.bindings[id]

	ranges := make([]m.Range, len(entry.ranges))
	copy(ranges, entry.ranges)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	return m.Binding{Name: entry.name, Ranges: ranges}, nil
}

// Bindings returns every binding of the given source, sorted by first
// occurrence.
func (r *ASTResolver) Bindings(src string) ([]m.Binding, error) {
	tab, err := r.table(src)
	if err != nil {
		return nil, err
	}

	out := make([]m.Binding, 0, len(tab.bindings))

	for _, entry := range tab.bindings {
		ranges := make([]m.Range, len(entry.ranges))
		copy(ranges, entry.ranges)
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
		out = append(out, m.Binding{Name: entry.name, Ranges: ranges})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ranges[0].Start < out[j].Ranges[0].Start })

	return out, nil
}

func (r *ASTResolver) table(src string) (*bindingTable, error) {
	if r.lastTab != nil && r.lastSrc == src {
		return r.lastTab, nil
	}

	prog, err := parser.ParseFile(src)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	resolver.Resolve(prog)

	c := &occurrenceCollector{tab: newBindingTable()}
	c.V = c
	prog.VisitWith(c)

	r.lastSrc = src
	r.lastTab = c.tab

	return c.tab, nil
}

type bindingEntry struct {
	name   string
	ranges []m.Range
}

type bindingTable struct {
	bindings map[ast.Id]*bindingEntry
	byStart  map[int]ast.Id
}

func newBindingTable() *bindingTable {
	return &bindingTable{
		bindings: make(map[ast.Id]*bindingEntry),
		byStart:  make(map[int]ast.Id),
	}
}

func (t *bindingTable) add(n *ast.Identifier) {
	start := int(n.Idx) - 1 // ast.Idx is 1-based
	if start < 0 {
		return
	}

	id := n.ToId()

	entry, ok := t.bindings[id]
	if !ok {
		entry = &bindingEntry{name: n.Name}
		t.bindings[id] = entry
	}

	rng := m.Range{Start: start, End: start + len(n.Name)}
	for _, existing := range entry.ranges {
		if existing == rng {
			return
		}
	}

	entry.ranges = append(entry.ranges, rng)
	t.byStart[start] = id
}

// occurrenceCollector walks the AST recording every identifier that acts as
// a variable reference or declaration. Property names are not variable
// references: `b` in `a.b`, non-computed object keys and class member names
// must never be grouped with a binding of the same spelling.
type occurrenceCollector struct {
	ast.NoopVisitor

	tab *bindingTable
}

func (c *occurrenceCollector) VisitIdentifier(n *ast.Identifier) {
	c.tab.add(n)
}

func (c *occurrenceCollector) VisitMemberExpression(n *ast.MemberExpression) {
	n.Object.VisitWith(c)

	switch n.Property.Prop.(type) {
	case *ast.Identifier:
		// dot-property name, skip
	default:
		n.Property.VisitWith(c)
	}
}

func (c *occurrenceCollector) VisitPropertyKeyed(n *ast.PropertyKeyed) {
	if n.Computed {
		n.Key.VisitWith(c)
	}

	n.Value.VisitWith(c)
}

func (c *occurrenceCollector) VisitMethodDefinition(n *ast.MethodDefinition) {
	if n.Computed {
		n.Key.VisitWith(c)
	}

	if n.Body != nil {
		n.Body.VisitWith(c)
	}
}
