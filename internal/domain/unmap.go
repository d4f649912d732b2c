package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/SeanPesce/JSRETK/internal/adapter"
)

// sourceMap is the subset of the source-map format needed for recovery.
type sourceMap struct {
	Version        int       `json:"version"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
}

// Bundler-specific scheme prefixes stripped from recovered source URLs.
// The list is closed on purpose: an unknown scheme keeps its path intact
// after the generic sanitization below.
var schemePrefixes = []string{
	"webpack-internal:///",
	"webpack:///",
	"webpack://",
	"ng:///",
	"ng://",
	"file:///",
	"file://",
}

var sourceMappingURLRe = regexp.MustCompile(`//[#@]\s*sourceMappingURL=([^\s'"]+)`)

// ExtractSourceMapURL returns the sourceMappingURL reference from compiled
// JS, or "" when the file carries none. The last directive wins, matching
// browser behavior.
func ExtractSourceMapURL(js string) string {
	matches := sourceMappingURLRe.FindAllStringSubmatch(js, -1)
	if len(matches) == 0 {
		return ""
	}

	return matches[len(matches)-1][1]
}

// DecodeDataURI decodes an inline base64 source-map data URI. Returns false
// when the URL is not a data URI.
func DecodeDataURI(url string) ([]byte, bool, error) {
	const marker = ";base64,"

	if !strings.HasPrefix(url, "data:") {
		return nil, false, nil
	}

	idx := strings.Index(url, marker)
	if idx < 0 {
		return nil, true, fmt.Errorf("unsupported data URI encoding in source map reference")
	}

	data, err := base64.StdEncoding.DecodeString(url[idx+len(marker):])
	if err != nil {
		return nil, true, fmt.Errorf("decode source map data URI: %w", err)
	}

	return data, true, nil
}

// Unmap recovers the original sources referenced by a source map into
// outDir. Sources without embedded content are skipped and counted.
// Recovered paths are sanitized so a hostile map cannot write outside
// outDir.
func Unmap(mapData []byte, outDir string, writer adapter.Writer) (written, skipped int, err error) {
	var sm sourceMap
	if err := json.Unmarshal(mapData, &sm); err != nil {
		return 0, 0, fmt.Errorf("decode source map: %w", err)
	}

	for i, src := range sm.Sources {
		if i >= len(sm.SourcesContent) || sm.SourcesContent[i] == nil {
			skipped++

			continue
		}

		rel := SanitizeSourcePath(sm.SourceRoot + src)
		if rel == "" {
			rel = fmt.Sprintf("source_%d.js", i)
		}

		out := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := writer.WriteFile(out, []byte(*sm.SourcesContent[i])); err != nil {
			return written, skipped, err
		}

		written++
	}

	return written, skipped, nil
}

// SanitizeSourcePath turns a source URL from a map into a relative path
// that cannot escape the output directory: known bundler scheme prefixes
// are stripped, query and fragment dropped, and `.`/`..` segments
// collapsed.
func SanitizeSourcePath(src string) string {
	for _, prefix := range schemePrefixes {
		if strings.HasPrefix(src, prefix) {
			src = strings.TrimPrefix(src, prefix)

			break
		}
	}

	if idx := strings.IndexAny(src, "?#"); idx >= 0 {
		src = src[:idx]
	}

	src = path.Clean("/" + strings.ReplaceAll(src, "\\", "/"))

	return strings.TrimPrefix(src, "/")
}
