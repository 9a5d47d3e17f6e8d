package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// Ensure the package types implement the ports.
var (
	_ driven.Index        = (*Index)(nil)
	_ driven.IndexBuilder = Builder{}
)

// formatVersion is bumped whenever the serialised layout changes.
const formatVersion = 1

// ErrUnsupportedFormat is returned by Restore for data written by an
// incompatible version.
var ErrUnsupportedFormat = errors.New("unsupported index format")

// Index is an immutable, built index. It is safe for concurrent readers.
type Index struct {
	docs     map[string]domain.Document
	excerpts map[string]string
	ids      []string
	fields   map[driven.Field]map[string][]string
	terms    map[string]map[string]int

	data []byte
	hash string
}

// Builder implements driven.IndexBuilder with the package functions.
type Builder struct{}

// Build implements driven.IndexBuilder.
func (Builder) Build(ctx context.Context, docs []domain.Document) (driven.Index, error) {
	return Build(ctx, docs)
}

// Restore implements driven.IndexBuilder.
func (Builder) Restore(data []byte) (driven.Index, error) {
	return Restore(data)
}

// Build indexes every document that is not shadowed. If two unshadowed
// documents share an id the later one replaces the earlier one.
func Build(ctx context.Context, docs []domain.Document) (*Index, error) {
	w := wireIndex{
		Version:    formatVersion,
		Documents:  make(map[string]wireDocument, len(docs)),
		Tags:       map[string][]string{},
		Categories: map[string][]string{},
		Domains:    map[string][]string{},
		Skills:     map[string][]string{},
		Terms:      map[string]map[string]int{},
	}

	for i, doc := range docs {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if doc.Shadowed || doc.ID == "" {
			continue
		}
		if _, ok := w.Documents[doc.ID]; ok {
			w.remove(doc.ID)
		}

		tokens := analyse(doc.Title, doc.Body)
		w.Documents[doc.ID] = wireDocument{
			Title:      doc.Title,
			Domain:     doc.Domain,
			Skill:      doc.Skill,
			Category:   doc.Category,
			Tags:       doc.Tags,
			Body:       doc.Body,
			SourcePath: doc.SourcePath,
			Ordinal:    doc.Ordinal,
			Metadata:   doc.Metadata,
			Excerpt:    excerpt(doc.Body),
			Length:     len(tokens),
		}

		addPosting(w.Domains, doc.Domain, doc.ID)
		addPosting(w.Skills, doc.Skill, doc.ID)
		addPosting(w.Categories, doc.Category, doc.ID)
		for _, tag := range doc.Tags {
			addPosting(w.Tags, tag, doc.ID)
		}
		for _, tok := range tokens {
			postings, ok := w.Terms[tok]
			if !ok {
				postings = map[string]int{}
				w.Terms[tok] = postings
			}
			postings[doc.ID]++
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, table := range []map[string][]string{w.Tags, w.Categories, w.Domains, w.Skills} {
		for k, ids := range table {
			slices.Sort(ids)
			table[k] = slices.Compact(ids)
		}
	}

	return fromWire(w)
}

// Restore rebuilds an index from Serialize output.
func Restore(data []byte) (*Index, error) {
	var w wireIndex
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if w.Version != formatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, w.Version)
	}
	return fromWire(w)
}

func fromWire(w wireIndex) (*Index, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	sum := sha256.Sum256(data)

	idx := &Index{
		docs:     make(map[string]domain.Document, len(w.Documents)),
		excerpts: make(map[string]string, len(w.Documents)),
		ids:      make([]string, 0, len(w.Documents)),
		fields: map[driven.Field]map[string][]string{
			driven.FieldTag:      w.Tags,
			driven.FieldCategory: w.Categories,
			driven.FieldDomain:   w.Domains,
			driven.FieldSkill:    w.Skills,
		},
		terms: w.Terms,
		data:  data,
		hash:  hex.EncodeToString(sum[:]),
	}
	for id, d := range w.Documents {
		if len(d.Tags) == 0 {
			d.Tags = nil
		}
		if len(d.Metadata) == 0 {
			d.Metadata = nil
		}
		idx.ids = append(idx.ids, id)
		idx.excerpts[id] = d.Excerpt
		idx.docs[id] = domain.Document{
			ID:         id,
			Title:      d.Title,
			Domain:     d.Domain,
			Skill:      d.Skill,
			Category:   d.Category,
			Tags:       d.Tags,
			Body:       d.Body,
			SourcePath: d.SourcePath,
			Ordinal:    d.Ordinal,
			Metadata:   d.Metadata,
		}
	}
	slices.Sort(idx.ids)
	return idx, nil
}

func addPosting(table map[string][]string, key, id string) {
	if key == "" {
		return
	}
	table[key] = append(table[key], id)
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// IDs returns all indexed ids in ascending order. The slice must not be
// modified.
func (idx *Index) IDs() []string {
	return idx.ids
}

// Document returns an indexed document by id.
func (idx *Index) Document(id string) (domain.Document, bool) {
	doc, ok := idx.docs[id]
	return doc, ok
}

// Excerpt returns the plain-text preview of a document.
func (idx *Index) Excerpt(id string) string {
	return idx.excerpts[id]
}

// Lookup returns the ascending ids with an exact field value.
func (idx *Index) Lookup(field driven.Field, value string) []string {
	return idx.fields[field][value]
}

// Postings returns the term frequency per document id for a token.
func (idx *Index) Postings(token string) map[string]int {
	return idx.terms[token]
}

// Tokenize splits query text with the analyser used for bodies.
func (idx *Index) Tokenize(text string) []string {
	return Tokenize(text)
}

// Serialize returns a copy of the canonical JSON form.
func (idx *Index) Serialize() ([]byte, error) {
	return slices.Clone(idx.data), nil
}

// Hash returns the hex sha256 of the serialised index.
func (idx *Index) Hash() string {
	return idx.hash
}
