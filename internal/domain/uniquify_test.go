package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	m "github.com/SeanPesce/JSRETK/internal/model"
	"github.com/SeanPesce/JSRETK/internal/scope"
)

// wordLexer is a deterministic lexer for engine-mechanics tests: maximal
// identifier runs, whitespace runs, and single-byte punctuation.
type wordLexer struct{}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (wordLexer) Tokenize(src string) ([]m.Token, error) {
	var tokens []m.Token

	for i := 0; i < len(src); {
		start := i

		switch {
		case isWordByte(src[i]):
			typ := m.TokenIdentifier
			if src[i] >= '0' && src[i] <= '9' {
				typ = m.TokenNumber
			}

			for i < len(src) && isWordByte(src[i]) {
				i++
			}

			tokens = append(tokens, m.Token{Type: typ, Value: src[start:i], Start: start, End: i})
		case src[i] == ' ' || src[i] == '\t':
			for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
				i++
			}

			tokens = append(tokens, m.Token{Type: m.TokenWhitespace, Value: src[start:i], Start: start, End: i})
		default:
			i++
			tokens = append(tokens, m.Token{Type: m.TokenPunctuator, Value: src[start:i], Start: start, End: i})
		}
	}

	return tokens, nil
}

// wordResolver treats the whole buffer as one scope: the binding of a word
// is every whole-word occurrence of the same spelling.
type wordResolver struct {
	// failFor simulates a resolution failure for one spelling.
	failFor string
}

func (r wordResolver) ResolveAt(src string, offset int) (m.Binding, error) {
	if offset >= len(src) || !isWordByte(src[offset]) || (offset > 0 && isWordByte(src[offset-1])) ||
		(src[offset] >= '0' && src[offset] <= '9') {
		return m.Binding{}, fmt.Errorf("%w: %d", scope.ErrNoBinding, offset)
	}

	end := offset
	for end < len(src) && isWordByte(src[end]) {
		end++
	}

	name := src[offset:end]
	if name == r.failFor {
		return m.Binding{}, errors.New("simulated resolution failure")
	}

	var ranges []m.Range

	for i := 0; i+len(name) <= len(src); i++ {
		if src[i:i+len(name)] != name {
			continue
		}

		if i > 0 && isWordByte(src[i-1]) {
			continue
		}

		if i+len(name) < len(src) && isWordByte(src[i+len(name)]) {
			continue
		}

		ranges = append(ranges, m.Range{Start: i, End: i + len(name)})
	}

	return m.Binding{Name: name, Ranges: ranges}, nil
}

// recordingReporter captures skip events for assertions.
type recordingReporter struct {
	skips []string
}

func (r *recordingReporter) SkippedOccurrence(offset int, name string, err error) {
	r.skips = append(r.skips, name)
}

func (r *recordingReporter) AmbiguousCandidate(m.Ambiguity) {}

func newTestUniquifier(failFor string) *Uniquifier {
	return NewUniquifier(wordLexer{}, wordResolver{failFor: failFor})
}

func TestUniquifyTokenOrder(t *testing.T) {
	t.Run("renames every occurrence of each short binding", func(t *testing.T) {
		out, renamed, err := newTestUniquifier("").Uniquify(
			"ab = cd; ab = xyz;", m.DefaultUniquifyOptions(2), m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_0_ = i_1_; i_0_ = xyz;" {
			t.Errorf("output = %q", out)
		}

		if renamed != 2 {
			t.Errorf("renamed = %d, want 2", renamed)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		out, _, err := newTestUniquifier("").Uniquify(
			"abc = abcd;", m.DefaultUniquifyOptions(3), m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_0_ = abcd;" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("minted names are never renamed again", func(t *testing.T) {
		// A second run with the same threshold must be a no-op: synthetic
		// names are longer than any eligible name.
		opts := m.DefaultUniquifyOptions(2)

		once, _, err := newTestUniquifier("").Uniquify("ab = cd;", opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}

		twice, renamed, err := newTestUniquifier("").Uniquify(once, opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if twice != once || renamed != 0 {
			t.Errorf("second run changed output: %q -> %q (%d renamed)", once, twice, renamed)
		}
	})

	t.Run("a large threshold never re-renames minted names", func(t *testing.T) {
		// With threshold 8 the minted i_0_ itself fits under the threshold;
		// the engine must still leave it alone when the scan reaches its
		// later occurrences.
		out, renamed, err := newTestUniquifier("").Uniquify(
			"ab = 1; ab = 2;", m.DefaultUniquifyOptions(8), m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_0_ = 1; i_0_ = 2;" {
			t.Errorf("output = %q", out)
		}

		if renamed != 1 {
			t.Errorf("renamed = %d, want 1", renamed)
		}
	})

	t.Run("counter threads across calls", func(t *testing.T) {
		counter := m.NewRenameCounter()
		opts := m.DefaultUniquifyOptions(2)
		u := newTestUniquifier("")

		first, _, err := u.Uniquify("ab;", opts, counter, nil, nil)
		if err != nil {
			t.Fatalf("first call failed: %v", err)
		}

		second, _, err := u.Uniquify("cd;", opts, counter, nil, nil)
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}

		if first != "i_0_;" || second != "i_1_;" {
			t.Errorf("outputs = %q, %q; counter must not restart between files", first, second)
		}
	})

	t.Run("resolution failure skips the occurrence and continues", func(t *testing.T) {
		rep := &recordingReporter{}

		out, renamed, err := newTestUniquifier("ab").Uniquify(
			"ab = cd;", m.DefaultUniquifyOptions(2), m.NewRenameCounter(), nil, rep)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "ab = i_0_;" {
			t.Errorf("output = %q", out)
		}

		if renamed != 1 {
			t.Errorf("renamed = %d, want 1", renamed)
		}

		if len(rep.skips) != 1 || rep.skips[0] != "ab" {
			t.Errorf("skips = %v, want one skip for ab", rep.skips)
		}
	})

	t.Run("rejects invalid options before any work", func(t *testing.T) {
		_, _, err := newTestUniquifier("").Uniquify(
			"ab;", m.DefaultUniquifyOptions(-1), m.NewRenameCounter(), nil, nil)
		if !errors.Is(err, m.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("reports monotonic progress", func(t *testing.T) {
		var offsets []int

		_, _, err := newTestUniquifier("").Uniquify(
			"ab = cd; ef;", m.DefaultUniquifyOptions(2), m.NewRenameCounter(),
			func(p m.Progress) { offsets = append(offsets, p.Offset) }, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if len(offsets) == 0 {
			t.Fatal("expected progress callbacks")
		}

		for i := 1; i < len(offsets); i++ {
			if offsets[i] < offsets[i-1] {
				t.Fatalf("progress went backwards: %v", offsets)
			}
		}
	})
}

func TestUniquifyCharOrder(t *testing.T) {
	opts := m.DefaultUniquifyOptions(2)
	opts.Mode = m.CharOrder

	t.Run("matches token order on simple input", func(t *testing.T) {
		out, renamed, err := newTestUniquifier("").Uniquify(
			"ab = cd; ab = xyz;", opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_0_ = i_1_; i_0_ = xyz;" {
			t.Errorf("output = %q", out)
		}

		if renamed != 2 {
			t.Errorf("renamed = %d, want 2", renamed)
		}
	})

	t.Run("quietly advances where no binding starts", func(t *testing.T) {
		rep := &recordingReporter{}

		out, _, err := newTestUniquifier("").Uniquify("+ ab +", opts, m.NewRenameCounter(), nil, rep)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "+ i_0_ +" {
			t.Errorf("output = %q", out)
		}

		if len(rep.skips) != 0 {
			t.Errorf("no-binding offsets must not be reported, got %v", rep.skips)
		}
	})
}

func TestUniquifyPerLine(t *testing.T) {
	opts := m.DefaultUniquifyOptions(2)
	opts.PerLine = true

	t.Run("prefixes names with the line index", func(t *testing.T) {
		out, renamed, err := newTestUniquifier("").Uniquify(
			"ab = 1;\ncd = 2;", opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_l0_0_ = 1;\ni_l1_1_ = 2;" {
			t.Errorf("output = %q", out)
		}

		if renamed != 2 {
			t.Errorf("renamed = %d, want 2", renamed)
		}
	})

	t.Run("treats the same spelling per line as unrelated bindings", func(t *testing.T) {
		out, _, err := newTestUniquifier("").Uniquify(
			"ab;\nab;", opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if out != "i_l0_0_;\ni_l1_1_;" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("preserves line count", func(t *testing.T) {
		src := "ab = 1;\n\ncd = 2;\n"

		out, _, err := newTestUniquifier("").Uniquify(src, opts, m.NewRenameCounter(), nil, nil)
		if err != nil {
			t.Fatalf("Uniquify failed: %v", err)
		}

		if got, want := strings.Count(out, "\n"), strings.Count(src, "\n"); got != want {
			t.Errorf("line count changed: %d != %d", got, want)
		}
	})
}
