// Package domain contains the core renaming, extraction and recovery logic.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeanPesce/JSRETK/internal/adapter"
	m "github.com/SeanPesce/JSRETK/internal/model"
	"github.com/SeanPesce/JSRETK/internal/scope"
)

// ProgressFunc receives engine progress. May be nil.
type ProgressFunc func(p m.Progress)

// Reporter receives non-fatal engine events: occurrences that could not be
// resolved and heuristic candidates that stayed ambiguous.
type Reporter interface {
	SkippedOccurrence(offset int, name string, err error)
	AmbiguousCandidate(amb m.Ambiguity)
}

// nopReporter is used when the caller passes a nil Reporter.
type nopReporter struct{}

func (nopReporter) SkippedOccurrence(int, string, error) {}
func (nopReporter) AmbiguousCandidate(m.Ambiguity)       {}

// Uniquifier rewrites every binding with a short declared name to a unique
// synthetic name. It owns the source buffer for the duration of a run: each
// rename produces a new buffer version and invalidates all token and
// binding state, so the stream is re-tokenized after every mutation.
type Uniquifier struct {
	lexer    adapter.Lexer
	resolver scope.Resolver
}

// NewUniquifier constructs a Uniquifier over the given lexer and resolver.
func NewUniquifier(lexer adapter.Lexer, resolver scope.Resolver) *Uniquifier {
	return &Uniquifier{lexer: lexer, resolver: resolver}
}

// Uniquify renames every binding whose declared name length is at most
// opts.Threshold and returns the rewritten source plus the number of
// renamed bindings. The counter is advanced once per renamed binding.
func (u *Uniquifier) Uniquify(src string, opts m.UniquifyOptions, counter *m.RenameCounter,
	progress ProgressFunc, rep Reporter) (string, int, error) {
	if err := opts.Validate(); err != nil {
		return "", 0, err
	}

	if rep == nil {
		rep = nopReporter{}
	}

	if opts.PerLine {
		return u.uniquifyPerLine(src, opts, counter, progress, rep)
	}

	return u.uniquifyBuffer(m.NewSourceBuffer(src), opts, counter, progress, rep, 0, len(src))
}

// uniquifyPerLine treats every newline-delimited segment as an independent
// input with a line-indexed name prefix. A binding spanning segments is
// handled as several unrelated bindings; that unsoundness is the price of
// roughly linear total cost on one-statement-per-line bundler output.
func (u *Uniquifier) uniquifyPerLine(src string, opts m.UniquifyOptions, counter *m.RenameCounter,
	progress ProgressFunc, rep Reporter) (string, int, error) {
	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))
	renamed := 0
	base := 0

	for idx, line := range lines {
		segOut, segRenamed, err := u.uniquifyBuffer(m.NewSourceBuffer(line), opts.SegmentOptions(idx),
			counter, progress, rep, base, len(src))
		if err != nil {
			// Best effort: a segment the toolchain rejects is passed
			// through unchanged.
			rep.SkippedOccurrence(base, "", err)

			segOut = line
		}

		out[idx] = segOut
		renamed += segRenamed
		base += len(line) + 1
	}

	return strings.Join(out, "\n"), renamed, nil
}

func (u *Uniquifier) uniquifyBuffer(buf *m.SourceBuffer, opts m.UniquifyOptions, counter *m.RenameCounter,
	progress ProgressFunc, rep Reporter, baseOffset, totalLen int) (string, int, error) {
	start := time.Now()

	emit := func(offset, renamed int) {
		if progress != nil {
			progress(m.Progress{
				Offset:  baseOffset + offset,
				Total:   totalLen,
				Renamed: renamed,
				Elapsed: time.Since(start),
			})
		}
	}

	var (
		out     string
		renamed int
		err     error
	)

	switch opts.Mode {
	case m.CharOrder:
		out, renamed, err = u.charOrder(buf, opts, counter, emit, rep)
	default:
		out, renamed, err = u.tokenOrder(buf, opts, counter, emit, rep)
	}

	return out, renamed, err
}

// tokenOrder scans identifier tokens left to right, renaming the resolved
// binding of each one at most opts.Threshold bytes long. Every successful
// rename shifts later offsets, so the buffer is re-tokenized immediately
// and scanning resumes at the token following the renamed one.
func (u *Uniquifier) tokenOrder(buf *m.SourceBuffer, opts m.UniquifyOptions, counter *m.RenameCounter,
	emit func(offset, renamed int), rep Reporter) (string, int, error) {
	tokens, err := u.lexer.Tokenize(buf.Text())
	if err != nil {
		return "", 0, fmt.Errorf("tokenize: %w", err)
	}

	synthetic := opts.SyntheticNameRe()
	renamed := 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		emit(tok.Start, renamed)

		if tok.Type != m.TokenIdentifier || len(tok.Value) > opts.Threshold {
			continue
		}

		// A large threshold can cover names minted earlier in this run.
		if synthetic.MatchString(tok.Value) {
			continue
		}

		binding, err := u.resolver.ResolveAt(buf.Text(), tok.Start)
		if err != nil {
			rep.SkippedOccurrence(tok.Start, tok.Value, err)

			continue
		}

		if binding.Name != tok.Value {
			rep.SkippedOccurrence(tok.Start, tok.Value,
				fmt.Errorf("resolver returned binding %q for token %q", binding.Name, tok.Value))

			continue
		}

		newBuf, err := buf.Splice(binding.Ranges, opts.SyntheticName(counter.Next()))
		if err != nil {
			return "", renamed, fmt.Errorf("rename %q: %w", tok.Value, err)
		}

		buf = newBuf
		renamed++

		// Renaming substitutes text inside existing tokens, so the new
		// stream has the same token positions; i+1 lands on the token
		// following the renamed one.
		tokens, err = u.lexer.Tokenize(buf.Text())
		if err != nil {
			return "", renamed, fmt.Errorf("re-tokenize after rename: %w", err)
		}
	}

	emit(buf.Len(), renamed)

	return buf.Text(), renamed, nil
}

// charOrder probes every byte offset for a binding that starts there. Much
// slower than token order; kept to validate or work around token-alignment
// differences in the resolver. The two modes may legitimately diverge on
// pathological inputs.
func (u *Uniquifier) charOrder(buf *m.SourceBuffer, opts m.UniquifyOptions, counter *m.RenameCounter,
	emit func(offset, renamed int), rep Reporter) (string, int, error) {
	synthetic := opts.SyntheticNameRe()
	renamed := 0
	lastErr := ""

	for i := 0; i < buf.Len(); {
		emit(i, renamed)

		binding, err := u.resolver.ResolveAt(buf.Text(), i)
		if err != nil {
			if !errors.Is(err, scope.ErrNoBinding) && err.Error() != lastErr {
				rep.SkippedOccurrence(i, "", err)

				lastErr = err.Error()
			}

			i++

			continue
		}

		if len(binding.Name) > opts.Threshold || synthetic.MatchString(binding.Name) {
			i += len(binding.Name)

			continue
		}

		name := opts.SyntheticName(counter.Next())

		newBuf, err := buf.Splice(binding.Ranges, name)
		if err != nil {
			return "", renamed, fmt.Errorf("rename %q: %w", binding.Name, err)
		}

		buf = newBuf
		renamed++
		i += len(name)
	}

	emit(buf.Len(), renamed)

	return buf.Text(), renamed, nil
}
