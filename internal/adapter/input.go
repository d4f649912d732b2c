package adapter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// StdinPath is the conventional argument selecting standard input.
const StdinPath = "-"

// InputReader loads source text from a local path, a remote URL or stdin
// and decodes it to UTF-8.
type InputReader interface {
	Read(source string) (string, error)
}

// LocalInputReader is the concrete InputReader. URLs are delegated to the
// Fetcher; everything else is treated as a filesystem path.
type LocalInputReader struct {
	fetcher Fetcher
	// Encoding is an IANA charset name. Empty means the input is already
	// UTF-8.
	Encoding string
	Stdin    io.Reader
}

// NewLocalInputReader constructs a LocalInputReader reading stdin from
// os.Stdin.
func NewLocalInputReader(fetcher Fetcher, encoding string) *LocalInputReader {
	return &LocalInputReader{fetcher: fetcher, Encoding: encoding, Stdin: os.Stdin}
}

// Read loads and decodes one input.
func (r *LocalInputReader) Read(source string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case source == StdinPath:
		data, err = io.ReadAll(r.Stdin)
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		data, err = r.fetcher.Fetch(source)
	default:
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}

	return decode(data, r.Encoding)
}

func decode(data []byte, encoding string) (string, error) {
	if encoding == "" {
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", encoding, err)
	}

	return string(decoded), nil
}

// StripHashbang comments out a leading hashbang line so the lexer and
// parser accept the input. The original line is returned for restoration.
func StripHashbang(src string) (string, string) {
	if !strings.HasPrefix(src, "#!") {
		return src, ""
	}

	end := strings.IndexByte(src, '\n')
	if end < 0 {
		end = len(src)
	}

	return "//" + src, src[:end]
}

// RestoreHashbang puts the original hashbang line back at the top of the
// processed output, whether or not the generator kept the comment.
func RestoreHashbang(out, hashbang string) string {
	if hashbang == "" {
		return out
	}

	if strings.HasPrefix(out, "//"+hashbang) {
		return out[2:]
	}

	if strings.HasPrefix(out, "//#!") {
		end := strings.IndexByte(out, '\n')
		if end < 0 {
			end = len(out)
		}

		return hashbang + out[end:]
	}

	return hashbang + "\n" + out
}
