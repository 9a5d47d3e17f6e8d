package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// SyntheticIDLength is the number of hex characters in a synthesised id.
const SyntheticIDLength = 12

// Document represents one logical document from the corpus.
// A physical file yields one Document per separator-delimited segment.
// Documents are immutable values once published in an index.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Domain is the canonical domain code (DO, PM, ML, ...).
	Domain string

	// Skill is the owning agent/skill package.
	Skill string

	// Category is the canonical category name.
	Category string

	// Tags is the sorted, de-duplicated tag set.
	Tags []string

	// Body is the raw segment text, metadata block included.
	Body string

	// SourcePath is the slash-separated path relative to the corpus root.
	SourcePath string

	// Ordinal is the 0-based position within a multi-document file.
	Ordinal int

	// Shadowed marks a document whose ID was taken over by a later document.
	Shadowed bool

	// Metadata contains every raw key-value pair found in the metadata block.
	Metadata map[string]string
}

// Key identifies a document by its physical location.
func (d Document) Key() string {
	return d.SourcePath + "#" + strconv.Itoa(d.Ordinal)
}

// HasTag reports whether the document carries the given tag.
func (d Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SyntheticID derives a stable id from a source path and ordinal.
// It is the first 12 hex characters of sha256(sourcePath + ordinal).
func SyntheticID(sourcePath string, ordinal int) string {
	sum := sha256.Sum256([]byte(sourcePath + strconv.Itoa(ordinal)))
	return hex.EncodeToString(sum[:])[:SyntheticIDLength]
}

// Canonical domain codes.
const (
	DomainDevOps            = "DO"
	DomainProjectManagement = "PM"
	DomainMLEngineering     = "ML"
)
