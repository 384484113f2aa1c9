// Package safepath validates caller-supplied relative paths against the
// photo root.
//
// Normalize is a pure check suitable for computing cache keys.
// ResolveAndConfirm additionally touches the filesystem and must be used
// before any read or delete: it follows symlinks and requires the target
// to be a regular file inside the canonical root.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ray-u/bare-photos/internal/filesystem"
)

var (
	// ErrInvalidPath reports a malformed or traversing path.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotFound reports a well-formed path that does not name an
	// existing regular file inside the root.
	ErrNotFound = errors.New("not found")
)

// Normalize canonicalizes a relative path: backslashes become slashes,
// surrounding whitespace and leading slashes are dropped. Empty paths,
// NUL bytes, and "", "." or ".." segments are rejected.
func Normalize(raw string) (string, error) {
	p := strings.ReplaceAll(raw, `\`, "/")
	p = strings.TrimSpace(p)
	p = strings.TrimLeft(p, "/")

	if p == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: contains NUL byte", ErrInvalidPath)
	}

	for _, segment := range strings.Split(p, "/") {
		switch segment {
		case "":
			return "", fmt.Errorf("%w: empty segment", ErrInvalidPath)
		case ".", "..":
			return "", fmt.Errorf("%w: %q segment", ErrInvalidPath, segment)
		}
	}

	return p, nil
}

// Resolved is a confirmed photo path.
type Resolved struct {
	// Rel is the normalized, slash-separated path relative to the root.
	Rel string
	// Abs is the root joined with Rel.
	Abs string
}

// ResolveAndConfirm normalizes raw and requires it to name an existing
// regular file whose canonical location lies inside the canonical root.
func ResolveAndConfirm(root, raw string) (Resolved, error) {
	rel, err := Normalize(raw)
	if err != nil {
		return Resolved{}, err
	}

	full := filepath.Join(root, filepath.FromSlash(rel))

	info, err := filesystem.StatWithRetry(full, filesystem.DefaultRetryConfig())
	if err != nil {
		if os.IsNotExist(err) {
			return Resolved{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return Resolved{}, fmt.Errorf("%w: stat %s: %v", ErrNotFound, rel, err)
	}
	if !info.Mode().IsRegular() {
		return Resolved{}, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, rel)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve root: %w", err)
	}
	realFull, err := filepath.EvalSymlinks(full)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if !IsWithin(realRoot, realFull) {
		return Resolved{}, fmt.Errorf("%w: %s escapes the photo root", ErrNotFound, rel)
	}

	return Resolved{Rel: rel, Abs: full}, nil
}

// IsWithin reports whether child is parent or lies beneath it. Both paths
// are cleaned but not resolved.
func IsWithin(parent, child string) bool {
	r, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return r == "." || (r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)))
}
