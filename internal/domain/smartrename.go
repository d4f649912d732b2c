package domain

import (
	"sort"
	"strings"

	"github.com/t14raptor/go-fast/ast"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// candidatePair is the tagged result of one pattern matcher: a name
// observed being assigned to or from another name.
type candidatePair struct {
	left  string
	right string
	// width is the number of significant tokens the window consumed.
	width int
}

// patternMatcher inspects the significant-token stream at position i and
// reports whether its fixed window shape matches there. The three shapes
// are kept as independent functions so each one stays testable on its own.
type patternMatcher func(sig []m.Token, i int) (candidatePair, bool)

// Matchers in priority order:
//
//	a.  Ident = Ident <terminator>
//	b.  Ident [ 'key' ] = Ident <terminator>
//	c.  Ident = Ident [ 'key' ] <terminator>
var assignmentMatchers = []patternMatcher{
	matchPlainAssign,
	matchKeyedTarget,
	matchKeyedSource,
}

// SmartRenamer infers human-meaningful names for already-uniquified
// identifiers from assignment patterns in the token stream and applies the
// unambiguous ones to the AST in place.
type SmartRenamer struct{}

// NewSmartRenamer constructs a SmartRenamer.
func NewSmartRenamer() *SmartRenamer {
	return &SmartRenamer{}
}

// Rename scans tokens for assignment windows pairing one good name with one
// bad (synthetic) name, then rewrites every AST identifier node whose name
// collected exactly one distinct candidate. Names with two or more distinct
// candidates are returned untouched: a minified variable can legitimately
// hold unrelated values at different program points, and renaming on a
// guess would mislead more than a synthetic name does.
//
// The name-based rewrite is safe only because uniquification made every
// eligible name globally unique; this must never run on raw minified names.
func (sr *SmartRenamer) Rename(prog *ast.Program, tokens []m.Token, opts m.SmartRenameOptions,
	rep Reporter) (int, []m.Ambiguity, error) {
	if err := opts.Validate(); err != nil {
		return 0, nil, err
	}

	if rep == nil {
		rep = nopReporter{}
	}

	candidates, order := collectCandidates(tokens, opts)

	renames := make(map[string]string)
	perCandidate := make(map[string]int)

	var ambiguous []m.Ambiguity

	for _, bad := range order {
		set := candidates[bad]
		if len(set) != 1 {
			names := make([]string, 0, len(set))
			for c := range set {
				names = append(names, c)
			}

			sort.Strings(names)

			amb := m.Ambiguity{Name: bad, Candidates: names}
			ambiguous = append(ambiguous, amb)
			rep.AmbiguousCandidate(amb)

			continue
		}

		var candidate string
		for c := range set {
			candidate = c
		}

		// The per-candidate counter keeps two different synthetic names
		// that both inferred e.g. "url" from colliding.
		candidate = sanitizeCandidate(candidate)
		n := perCandidate[candidate]
		perCandidate[candidate]++
		renames[bad] = opts.RenamedName(candidate, n)
	}

	if len(renames) > 0 {
		applier := &identApplier{renames: renames}
		applier.V = applier
		prog.VisitWith(applier)
	}

	return len(renames), ambiguous, nil
}

// collectCandidates runs the matchers over the significant-token stream and
// records bad -> {good candidates}. Order preserves first appearance so
// counter assignment is deterministic.
func collectCandidates(tokens []m.Token, opts m.SmartRenameOptions) (map[string]map[string]struct{}, []string) {
	sig := make([]m.Token, 0, len(tokens))

	for _, t := range tokens {
		if !t.IsLayout() {
			sig = append(sig, t)
		}
	}

	candidates := make(map[string]map[string]struct{})

	var order []string

	record := func(bad, good string) {
		set, ok := candidates[bad]
		if !ok {
			set = make(map[string]struct{})
			candidates[bad] = set
			order = append(order, bad)
		}

		set[good] = struct{}{}
	}

	for i := 0; i < len(sig); {
		matched := false

		for _, match := range assignmentMatchers {
			pair, ok := match(sig, i)
			if !ok {
				continue
			}

			if bad, good, ok := classifyPair(pair, opts); ok {
				record(bad, good)
			}

			i += pair.width
			matched = true

			break
		}

		if !matched {
			i++
		}
	}

	return candidates, order
}

// classifyPair accepts a pair only when exactly one side is a good
// candidate and the other matches the synthetic shape.
func classifyPair(pair candidatePair, opts m.SmartRenameOptions) (bad, good string, ok bool) {
	leftGood, leftBad := opts.GoodName(pair.left), opts.BadName(pair.left)
	rightGood, rightBad := opts.GoodName(pair.right), opts.BadName(pair.right)

	switch {
	case leftBad && rightGood && !rightBad:
		return pair.left, pair.right, true
	case rightBad && leftGood && !leftBad:
		return pair.right, pair.left, true
	default:
		return "", "", false
	}
}

func isTerminator(t m.Token) bool {
	if t.Type != m.TokenPunctuator {
		return false
	}

	switch t.Value {
	case ";", ",", ")", "}", "]":
		return true
	default:
		return false
	}
}

func isIdent(t m.Token) bool { return t.Type == m.TokenIdentifier }

func isPunct(t m.Token, v string) bool { return t.Type == m.TokenPunctuator && t.Value == v }

// isKey accepts the literal kinds usable as a bracket key: strings and
// substitution-free template literals.
func isKey(t m.Token) bool { return t.Type == m.TokenString || t.Type == m.TokenTemplate }

// matchPlainAssign matches: Ident = Ident <terminator>
func matchPlainAssign(sig []m.Token, i int) (candidatePair, bool) {
	if i+3 >= len(sig) {
		return candidatePair{}, false
	}

	if isIdent(sig[i]) && isPunct(sig[i+1], "=") && isIdent(sig[i+2]) && isTerminator(sig[i+3]) {
		return candidatePair{left: sig[i].Value, right: sig[i+2].Value, width: 4}, true
	}

	return candidatePair{}, false
}

// matchKeyedTarget matches: Ident [ 'key' ] = Ident <terminator>
func matchKeyedTarget(sig []m.Token, i int) (candidatePair, bool) {
	if i+6 >= len(sig) {
		return candidatePair{}, false
	}

	if isIdent(sig[i]) && isPunct(sig[i+1], "[") && isKey(sig[i+2]) && isPunct(sig[i+3], "]") &&
		isPunct(sig[i+4], "=") && isIdent(sig[i+5]) && isTerminator(sig[i+6]) {
		return candidatePair{left: stripQuotes(sig[i+2].Value), right: sig[i+5].Value, width: 7}, true
	}

	return candidatePair{}, false
}

// matchKeyedSource matches: Ident = Ident [ 'key' ] <terminator>
func matchKeyedSource(sig []m.Token, i int) (candidatePair, bool) {
	if i+6 >= len(sig) {
		return candidatePair{}, false
	}

	if isIdent(sig[i]) && isPunct(sig[i+1], "=") && isIdent(sig[i+2]) && isPunct(sig[i+3], "[") &&
		isKey(sig[i+4]) && isPunct(sig[i+5], "]") && isTerminator(sig[i+6]) {
		return candidatePair{left: sig[i].Value, right: stripQuotes(sig[i+4].Value), width: 7}, true
	}

	return candidatePair{}, false
}

// identApplier rewrites identifier nodes by name. Only synthetic names ever
// appear in the rename map, and property names are never synthetic, so a
// plain name match cannot cross a binding or touch member properties.
type identApplier struct {
	ast.NoopVisitor

	renames map[string]string
	applied int
}

func (v *identApplier) VisitIdentifier(n *ast.Identifier) {
	if newName, ok := v.renames[n.Name]; ok {
		n.Name = newName
		v.applied++
	}
}

// sanitizeCandidate guards against key literals containing characters that
// cannot appear in an identifier; such keys are rejected by the default
// good-name predicate, but a custom predicate may be looser.
func sanitizeCandidate(c string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
			return r
		default:
			return '_'
		}
	}, c)
}
