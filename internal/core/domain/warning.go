package domain

import "fmt"

// WarningCode classifies a recoverable problem found while loading.
type WarningCode string

// Warning codes.
const (
	WarningMalformedDocument  WarningCode = "malformed_document"
	WarningInvalidFrontMatter WarningCode = "invalid_front_matter"
	WarningDuplicateID        WarningCode = "duplicate_id"
	WarningUnknownDomain      WarningCode = "unknown_domain"
	WarningMissingField       WarningCode = "missing_field"
	WarningUnreadableFile     WarningCode = "unreadable_file"
)

// Warning describes a recoverable metadata or loading problem.
// Warnings never stop a build.
type Warning struct {
	Code       WarningCode
	SourcePath string
	Ordinal    int
	DocumentID string
	Message    string
}

// String formats the warning for logs.
func (w Warning) String() string {
	if w.DocumentID != "" {
		return fmt.Sprintf("%s: %s#%d (%s): %s", w.Code, w.SourcePath, w.Ordinal, w.DocumentID, w.Message)
	}
	return fmt.Sprintf("%s: %s#%d: %s", w.Code, w.SourcePath, w.Ordinal, w.Message)
}

// Err returns the sentinel error matching the warning code, or nil.
func (w Warning) Err() error {
	switch w.Code {
	case WarningMalformedDocument:
		return ErrMalformedDocument
	case WarningInvalidFrontMatter:
		return ErrInvalidFrontMatter
	case WarningDuplicateID:
		return ErrDuplicateID
	default:
		return nil
	}
}
