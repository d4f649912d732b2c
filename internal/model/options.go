package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidArgument marks configuration errors detected before any work
// begins: negative thresholds, inverted length bounds, mutually exclusive
// modes requested together.
var ErrInvalidArgument = errors.New("invalid argument")

// IterationMode selects how the uniquification engine walks the source.
type IterationMode int

const (
	// TokenOrder scans one identifier token at a time (default).
	TokenOrder IterationMode = iota
	// CharOrder probes every byte offset. Far slower; kept as a fallback
	// for resolver/token alignment differences. The two modes are not
	// guaranteed byte-identical on pathological inputs.
	CharOrder
)

// Default synthetic-name affixes. Minted names like i_0_ are longer than
// the small thresholds the tool is used with, so a second run with the
// same threshold leaves already-uniquified output untouched.
const (
	DefaultNamePrefix = "i_"
	DefaultNameSuffix = "_"

	DefaultRenamePrefix = "srn_"
	DefaultRenameSuffix = "_"
)

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// UniquifyOptions configures one uniquification run. Zero value is not
// usable; build with DefaultUniquifyOptions and adjust.
type UniquifyOptions struct {
	// Threshold is the maximum identifier length (in bytes) that will be
	// renamed. Must be non-negative.
	Threshold int
	Mode      IterationMode
	// PerLine splits the input on newlines and uniquifies each segment
	// independently with a line-indexed prefix. Bindings spanning lines are
	// treated as unrelated; this is a deliberate, documented trade of scope
	// correctness for speed on one-statement-per-line bundler output.
	PerLine    bool
	NamePrefix string
	NameSuffix string
}

// DefaultUniquifyOptions returns token-order options with the default
// affixes and the given threshold.
func DefaultUniquifyOptions(threshold int) UniquifyOptions {
	return UniquifyOptions{
		Threshold:  threshold,
		Mode:       TokenOrder,
		NamePrefix: DefaultNamePrefix,
		NameSuffix: DefaultNameSuffix,
	}
}

// Validate checks the options once at entry.
func (o UniquifyOptions) Validate() error {
	if o.Threshold < 0 {
		return fmt.Errorf("%w: rename threshold must be non-negative, got %d", ErrInvalidArgument, o.Threshold)
	}

	if !identRe.MatchString(o.SyntheticName(0)) {
		return fmt.Errorf("%w: prefix %q and suffix %q do not form a valid identifier",
			ErrInvalidArgument, o.NamePrefix, o.NameSuffix)
	}

	return nil
}

// SyntheticName builds the minted name for counter value n.
func (o UniquifyOptions) SyntheticName(n int) string {
	return o.NamePrefix + strconv.Itoa(n) + o.NameSuffix
}

// SegmentOptions derives the options used for one line segment in per-line
// mode. The line index is embedded in the prefix so segments cannot mint
// colliding names.
func (o UniquifyOptions) SegmentOptions(line int) UniquifyOptions {
	seg := o
	seg.PerLine = false
	seg.NamePrefix = fmt.Sprintf("%sl%d_", o.NamePrefix, line)

	return seg
}

// SyntheticNameRe returns a pattern matching every name this configuration
// can mint, including per-line segment names.
func (o UniquifyOptions) SyntheticNameRe() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(o.NamePrefix) + `(?:l\d+_)?\d+` + regexp.QuoteMeta(o.NameSuffix) + `$`)
}

// NamePredicate classifies identifier names for the heuristic renamer.
type NamePredicate func(name string) bool

// SmartRenameOptions configures the heuristic renamer.
type SmartRenameOptions struct {
	// GoodName accepts human-meaningful replacement candidates.
	GoodName NamePredicate
	// BadName accepts names eligible for replacement. The default matches
	// only the synthetic shape minted during uniquification, so raw
	// minified names that may alias distinct bindings are never retargeted.
	BadName      NamePredicate
	RenamePrefix string
	RenameSuffix string
}

var goodNameRe = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// DefaultSmartRenameOptions derives renamer options from the uniquify
// options whose output it will run on.
func DefaultSmartRenameOptions(uniq UniquifyOptions) SmartRenameOptions {
	syntheticRe := uniq.SyntheticNameRe()

	return SmartRenameOptions{
		GoodName: func(name string) bool {
			return !syntheticRe.MatchString(name) && len(name) >= 3 && goodNameRe.MatchString(name)
		},
		BadName: func(name string) bool {
			return syntheticRe.MatchString(name)
		},
		RenamePrefix: DefaultRenamePrefix,
		RenameSuffix: DefaultRenameSuffix,
	}
}

// Validate checks the renamer options once at entry.
func (o SmartRenameOptions) Validate() error {
	if o.GoodName == nil || o.BadName == nil {
		return fmt.Errorf("%w: smart rename requires both name predicates", ErrInvalidArgument)
	}

	if !identRe.MatchString(o.RenamedName("x", 0)) {
		return fmt.Errorf("%w: rename prefix %q and suffix %q do not form a valid identifier",
			ErrInvalidArgument, o.RenamePrefix, o.RenameSuffix)
	}

	return nil
}

// RenamedName builds the accepted replacement for candidate with the
// per-candidate disambiguating counter n, e.g. srn_url_0_.
func (o SmartRenameOptions) RenamedName(candidate string, n int) string {
	return o.RenamePrefix + candidate + "_" + strconv.Itoa(n) + o.RenameSuffix
}

// ExtractOptions configures literal extraction from a token stream.
type ExtractOptions struct {
	Strings   bool
	Templates bool
	Comments  bool
	Regexps   bool

	// MinLen/MaxLen bound the extracted value length after quote stripping.
	// MaxLen <= 0 means unbounded.
	MinLen int
	MaxLen int
	// Match, when set, keeps only values it matches.
	Match *regexp.Regexp

	// Exclusive modes. At most one may be set.
	TemplatesOnly bool
	CommentsOnly  bool
	RegexpsOnly   bool
}

// Validate checks bounds and mode exclusivity once at entry.
func (o ExtractOptions) Validate() error {
	if o.MinLen < 0 {
		return fmt.Errorf("%w: minimum length must be non-negative, got %d", ErrInvalidArgument, o.MinLen)
	}

	if o.MaxLen > 0 && o.MinLen > o.MaxLen {
		return fmt.Errorf("%w: minimum length %d exceeds maximum length %d", ErrInvalidArgument, o.MinLen, o.MaxLen)
	}

	exclusive := 0
	for _, on := range []bool{o.TemplatesOnly, o.CommentsOnly, o.RegexpsOnly} {
		if on {
			exclusive++
		}
	}

	if exclusive > 1 {
		return fmt.Errorf("%w: templates-only, comments-only and regexp-only are mutually exclusive", ErrInvalidArgument)
	}

	return nil
}

// Effective returns the include flags after applying an exclusive mode.
func (o ExtractOptions) Effective() ExtractOptions {
	switch {
	case o.TemplatesOnly:
		o.Strings, o.Templates, o.Comments, o.Regexps = false, true, false, false
	case o.CommentsOnly:
		o.Strings, o.Templates, o.Comments, o.Regexps = false, false, true, false
	case o.RegexpsOnly:
		o.Strings, o.Templates, o.Comments, o.Regexps = false, false, false, true
	}

	return o
}

// FixOptions configures the Hermes decompilation fixer.
type FixOptions struct {
	// Iterations is the number of replacement passes. The escaped-slash fix
	// can apply several times per line, so the pass repeats.
	Iterations int
}

// DefaultFixIterations matches the original tool's pass count.
const DefaultFixIterations = 100

// Validate checks the fixer options.
func (o FixOptions) Validate() error {
	if o.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidArgument, o.Iterations)
	}

	return nil
}
