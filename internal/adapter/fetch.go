package adapter

import (
	"bytes"
	"fmt"
	"os/exec"
)

// DefaultMaxFetchBytes caps remote downloads at 512 MiB.
const DefaultMaxFetchBytes = 512 * 1024 * 1024

// Fetcher retrieves remote input. The call blocks until the full response
// arrives or the transfer fails; there is no mid-transfer cancellation.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// CurlFetcher shells out to curl for remote files. Delegating TLS, redirects
// and proxy handling to an external process keeps this binary free of
// network configuration concerns.
type CurlFetcher struct {
	// MaxBytes limits the accepted response size. Zero means
	// DefaultMaxFetchBytes.
	MaxBytes int
}

// NewCurlFetcher constructs a CurlFetcher with the given response cap.
func NewCurlFetcher(maxBytes int) *CurlFetcher {
	return &CurlFetcher{MaxBytes: maxBytes}
}

// Fetch downloads url synchronously via curl.
func (f *CurlFetcher) Fetch(url string) ([]byte, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxFetchBytes
	}

	cmd := exec.Command("curl", "--silent", "--show-error", "--fail", "--location", "--", url)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("fetch %s: %w: %s", url, err, msg)
		}

		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if stdout.Len() > limit {
		return nil, fmt.Errorf("fetch %s: response of %d bytes exceeds limit of %d", url, stdout.Len(), limit)
	}

	return stdout.Bytes(), nil
}
