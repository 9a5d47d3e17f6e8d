package filesystem

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// ResolvePath converts a corpus-relative, slash-separated path into a
// filesystem path under root. Paths that escape root are rejected.
func ResolvePath(root, rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if rel == "" || clean == "/" || strings.Contains(rel, "\\") {
		return "", fmt.Errorf("%w: path %q", domain.ErrInvalidInput, rel)
	}
	if path.Clean(rel) != strings.TrimPrefix(clean, "/") {
		return "", fmt.Errorf("%w: path %q escapes corpus root", domain.ErrInvalidInput, rel)
	}
	return filepath.Join(root, filepath.FromSlash(clean[1:])), nil
}

// RelativePath converts an absolute filesystem path below root into the
// slash-separated form used as a document source path.
func RelativePath(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
