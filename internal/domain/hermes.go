package domain

import (
	"regexp"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// DefaultFixedExt is appended to the input path when no explicit output is
// given to the Hermes fixer.
const DefaultFixedExt = ".fixed.js"

// hermesFixes repairs hbc-decompiler output so a standard JS parser accepts
// it. Order matters: symbol-property access is rewritten before regex
// literals are unescaped.
var hermesFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	// `.@@iterator` style symbol access is not valid member syntax.
	{regexp.MustCompile(`\.(@@[a-zA-Z0-9_]+)`), "[`$1`]"},
	// The decompiler double-escapes the slash inside regex literals. A line
	// can hold several, and each pass fixes one per line, hence the
	// iteration in FixHermes.
	{regexp.MustCompile(`(= /[^\n]*)\\\\/([^\n]*/)`), `$1\/$2`},
}

// FixHermes applies the decompiler-output repairs for the configured number
// of passes and returns the fixed source.
func FixHermes(src string, opts m.FixOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	for range opts.Iterations {
		for _, fix := range hermesFixes {
			src = fix.re.ReplaceAllString(src, fix.repl)
		}
	}

	return src, nil
}
