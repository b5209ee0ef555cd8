// Package convert holds the pure, stateless translation functions between
// LSP protocol types (0-based positions, UTF-16 code units) and the
// analyzer's native wire types (1-based positions, the same UTF-16 code
// unit convention tsserver itself uses for "offset").
package convert

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// URIToPath parses a file:// URI into an absolute native filesystem path.
// Returns an error for any non-file scheme; callers short-circuit the
// request with an empty response in that case rather than failing it.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file uri: %s", uri)
	}

	path := u.Path
	if runtime.GOOS == "windows" {
		if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	return path, nil
}

// PathToURI produces a file:// URI for an absolute native path, with the
// path percent-encoded per RFC 3986.
func PathToURI(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(path) >= 2 && isWindowsDriveLetter(path[0]) && path[1] == ':' {
		path = "/" + path
	}

	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

// IsFileURI reports whether uri uses the file:// scheme.
func IsFileURI(uri string) bool {
	return strings.HasPrefix(uri, "file://")
}

func isWindowsDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
