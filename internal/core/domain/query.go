package domain

// Filters restricts a query to documents with exact metadata matches.
// Empty fields do not filter. All requested tags must be present.
type Filters struct {
	Domain   string
	Skill    string
	Category string
	Tags     []string
}

// IsEmpty returns true if no filter is set.
func (f Filters) IsEmpty() bool {
	return f.Domain == "" && f.Skill == "" && f.Category == "" && len(f.Tags) == 0
}

// Query is a routing request. It is created per request and discarded
// after the response.
type Query struct {
	// Text is the free-text part of the query.
	Text string

	// Filters are the exact metadata constraints.
	Filters Filters

	// Limit is the maximum number of results. Zero means unlimited.
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// ScoredDocument represents a single routing hit.
type ScoredDocument struct {
	// Document is the matched document.
	Document Document

	// Score is the additive term score. Zero for filter-only queries.
	Score float64

	// Excerpt is a short plain-text preview of the body.
	Excerpt string
}

// RouteResult is the ranked answer to a Query.
type RouteResult struct {
	// Results are ordered by score descending, then id ascending.
	Results []ScoredDocument

	// Generation is the publish generation of the index that was read.
	Generation uint64

	// Stale is true when that index was restored or a later rebuild failed.
	Stale bool
}
