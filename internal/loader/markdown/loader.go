package markdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Metadata keys the loader adds to every document.
const (
	MetaStyle     = "metadata_style"
	MetaSeparator = "separator"
)

// Loader splits and parses markdown corpus files.
type Loader struct {
	separator string
}

// Option configures the loader.
type Option func(*Loader)

// WithSeparator fixes the literal separator token instead of detecting
// it per file.
func WithSeparator(sep string) Option {
	return func(l *Loader) {
		l.separator = sep
	}
}

// New creates a new markdown loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Separator returns the separator used for content, configured or detected.
func (l *Loader) Separator(content string) string {
	if l.separator != "" {
		return l.separator
	}
	return DetectSeparator(content)
}

// Load converts one physical file into its logical documents.
// It never drops a segment: segments without a metadata title are kept
// under a heading- or filename-derived title and reported in the joined
// error as domain.ErrMalformedDocument. Broken front-matter whose
// metadata section supplies a title is reported as
// domain.ErrInvalidFrontMatter instead.
func (l *Loader) Load(ctx context.Context, sourcePath string, content []byte) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(content)
	sep := l.Separator(text)
	segments := Split(text, sep)

	docs := make([]domain.Document, 0, len(segments))
	var errs []error
	for ordinal, segment := range segments {
		doc, err := parseSegment(sourcePath, ordinal, segment)
		if sep != "" {
			doc.Metadata[MetaSeparator] = sep
		}
		docs = append(docs, doc)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return docs, errors.Join(errs...)
}

// LoadFile reads relPath under root and loads it. relPath is slash-separated.
func (l *Loader) LoadFile(ctx context.Context, root, relPath string) ([]domain.Document, error) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return l.Load(ctx, relPath, content)
}

// parseSegment builds a document from one segment. The body is kept
// byte-for-byte.
func parseSegment(sourcePath string, ordinal int, segment string) (domain.Document, error) {
	meta, parseErr := parseMetadata(segment)

	doc := domain.Document{
		ID:         meta.lookup("id"),
		Title:      meta.lookup("title"),
		Domain:     meta.lookup("domain"),
		Skill:      meta.lookup("skill"),
		Category:   meta.lookup("category"),
		Tags:       meta.tags,
		Body:       segment,
		SourcePath: sourcePath,
		Ordinal:    ordinal,
		Metadata:   make(map[string]string, len(meta.fields)+2),
	}
	for k, v := range meta.fields {
		doc.Metadata[k] = v
	}
	doc.Metadata[MetaStyle] = meta.style.String()

	if parseErr != nil {
		// The section fallback still counts when it names the document.
		sentinel := domain.ErrInvalidFrontMatter
		if doc.Title == "" {
			sentinel = domain.ErrMalformedDocument
		}
		doc.Title = fallbackTitle(doc.Title, segment, sourcePath)
		return doc, &domain.DocumentError{
			SourcePath: sourcePath,
			Ordinal:    ordinal,
			Reason:     parseErr.Error(),
			Err:        sentinel,
		}
	}

	if doc.Title != "" {
		return doc, nil
	}

	doc.Title = fallbackTitle("", segment, sourcePath)
	reason := "no metadata block"
	if meta.style != styleNone {
		reason = fmt.Sprintf("%s metadata has no title", meta.style)
	}
	return doc, &domain.DocumentError{
		SourcePath: sourcePath,
		Ordinal:    ordinal,
		Reason:     reason + "; using " + fmt.Sprintf("%q", doc.Title),
		Err:        domain.ErrMalformedDocument,
	}
}

func fallbackTitle(title, segment, sourcePath string) string {
	if title != "" {
		return title
	}
	if h := firstHeading(segment); h != "" {
		return h
	}
	return titleFromPath(sourcePath)
}
