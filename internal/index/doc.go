// Package index builds the immutable lookup structures the router queries.
//
// An Index holds exact-match tables for tags, categories, domains and
// skills, a term-frequency table over document text, and a short plain-text
// excerpt per document. Indexes are never mutated after Build; a corpus
// change produces a new Index that replaces the old one wholesale.
//
// The serialised form is canonical JSON: map keys are sorted by the
// encoder and every id list is sorted before encoding, so the same set of
// documents always yields the same bytes and therefore the same Hash.
package index
