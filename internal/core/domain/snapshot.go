package domain

import "time"

// IndexSnapshot is a persisted, serialised index.
type IndexSnapshot struct {
	// ID is the unique identifier for the stored snapshot.
	ID string

	// Hash is the content hash of Data.
	Hash string

	// Generation is the publish generation that produced the snapshot.
	Generation uint64

	// Documents is the number of indexed documents.
	Documents int

	// BuiltAt is when the index was built.
	BuiltAt time.Time

	// Data is the canonical serialised index.
	Data []byte
}
