package driven

import "context"

// CorpusSource enumerates and reads the markdown files of a corpus.
type CorpusSource interface {
	// Root returns the corpus root as configured.
	Root() string

	// List returns the slash-separated paths of all corpus files,
	// relative to the root and sorted lexically. It wraps
	// domain.ErrCorpusUnreadable when the root cannot be walked.
	List(ctx context.Context) ([]string, error)

	// Read returns the content of one listed file.
	Read(ctx context.Context, path string) ([]byte, error)
}
