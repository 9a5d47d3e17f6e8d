package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
)

// Ensure RouterService implements the interface.
var _ driving.QueryRouter = (*RouterService)(nil)

// IndexView is a published index with the publish metadata it was
// read with.
type IndexView struct {
	// Index is nil before the first build.
	Index      driven.Index
	Generation uint64
	Stale      bool
}

// IndexProvider exposes the currently published index.
type IndexProvider interface {
	// View returns the published index and its generation.
	View() IndexView
}

// RouterService answers queries against the published index.
// It never blocks on a rebuild: each call reads one immutable index.
type RouterService struct {
	indexes   IndexProvider
	validator driven.MetadataValidator
	metrics   driven.MetricsRecorder
}

// NewRouterService creates a new router. validator and metrics may be nil.
func NewRouterService(
	indexes IndexProvider,
	validator driven.MetadataValidator,
	metrics driven.MetricsRecorder,
) *RouterService {
	return &RouterService{
		indexes:   indexes,
		validator: validator,
		metrics:   metrics,
	}
}

// Route returns the documents matching every filter, ranked by text score.
//
// Each distinct query token contributes tf * ln(1 + N/df) to a document's
// score. With text, documents matching no token are excluded; without text
// every filtered document is returned with score zero. Results are ordered
// by score descending, then id ascending, before Offset and Limit apply.
//
// The result carries the generation and stale flag of the index that was
// read, so callers never pair results with a later publish.
func (s *RouterService) Route(ctx context.Context, query domain.Query) (res domain.RouteResult, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "route", trace.WithAttributes(queryAttrs(query)...))
	defer func() {
		span.SetAttributes(
			attribute.Int("skillroute.route.results", len(res.Results)),
			attribute.Int64("skillroute.index.generation", int64(res.Generation)),
		)
		endSpan(span, err)
		if s.metrics != nil {
			s.metrics.ObserveRoute(time.Since(start), len(res.Results), err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, err
	}
	if query.Limit < 0 || query.Offset < 0 {
		return domain.RouteResult{}, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	}

	view := s.indexes.View()
	idx := view.Index
	if idx == nil {
		return domain.RouteResult{}, domain.ErrIndexNotReady
	}

	filters, err := normaliseFilters(s.validator, query.Filters)
	if err != nil {
		return domain.RouteResult{}, err
	}
	candidates := filterIDs(idx, filters)

	tokens := distinctTokens(idx.Tokenize(query.Text))
	var hits []hit
	if len(tokens) == 0 {
		hits = make([]hit, 0, len(candidates))
		for _, id := range candidates {
			hits = append(hits, hit{id: id})
		}
	} else {
		hits, err = score(ctx, idx, tokens, candidates, filters.IsEmpty())
		if err != nil {
			return domain.RouteResult{}, err
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	hits = paginate(hits, query.Offset, query.Limit)

	results := make([]domain.ScoredDocument, 0, len(hits))
	for _, h := range hits {
		doc, ok := idx.Document(h.id)
		if !ok {
			continue
		}
		results = append(results, domain.ScoredDocument{
			Document: doc,
			Score:    h.score,
			Excerpt:  idx.Excerpt(h.id),
		})
	}
	return domain.RouteResult{
		Results:    results,
		Generation: view.Generation,
		Stale:      view.Stale,
	}, nil
}

// normaliseFilters canonicalises raw filters. A field that was set but
// normalises to nothing is rejected: dropping it would widen the match.
func normaliseFilters(v driven.MetadataValidator, raw domain.Filters) (domain.Filters, error) {
	if v == nil {
		return raw, nil
	}
	f := v.NormaliseFilters(raw)

	for _, field := range []struct {
		name, raw, norm string
	}{
		{"domain", raw.Domain, f.Domain},
		{"skill", raw.Skill, f.Skill},
		{"category", raw.Category, f.Category},
	} {
		if strings.TrimSpace(field.raw) != "" && field.norm == "" {
			return domain.Filters{}, fmt.Errorf("%w: %s filter %q has no usable characters",
				domain.ErrInvalidInput, field.name, field.raw)
		}
	}
	for _, tag := range raw.Tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if len(v.NormaliseFilters(domain.Filters{Tags: []string{tag}}).Tags) == 0 {
			return domain.Filters{}, fmt.Errorf("%w: tag filter %q has no usable characters",
				domain.ErrInvalidInput, tag)
		}
	}
	return f, nil
}

type hit struct {
	id    string
	score float64
}

// score sums tf-idf over the sorted tokens so float addition happens in
// the same order on every call.
func score(ctx context.Context, idx driven.Index, tokens, candidates []string, all bool) ([]hit, error) {
	allowed := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		allowed[id] = true
	}

	n := float64(idx.Len())
	scores := map[string]float64{}
	for _, tok := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		postings := idx.Postings(tok)
		if len(postings) == 0 {
			continue
		}
		idf := math.Log(1 + n/float64(len(postings)))
		for id, tf := range postings {
			if all || allowed[id] {
				scores[id] += float64(tf) * idf
			}
		}
	}

	hits := make([]hit, 0, len(scores))
	for id, sc := range scores {
		hits = append(hits, hit{id: id, score: sc})
	}
	return hits, nil
}

// filterIDs returns the ascending ids that satisfy every filter.
func filterIDs(idx driven.Index, f domain.Filters) []string {
	if f.IsEmpty() {
		return idx.IDs()
	}

	var lists [][]string
	if f.Domain != "" {
		lists = append(lists, idx.Lookup(driven.FieldDomain, f.Domain))
	}
	if f.Skill != "" {
		lists = append(lists, idx.Lookup(driven.FieldSkill, f.Skill))
	}
	if f.Category != "" {
		lists = append(lists, idx.Lookup(driven.FieldCategory, f.Category))
	}
	for _, tag := range f.Tags {
		lists = append(lists, idx.Lookup(driven.FieldTag, tag))
	}

	out := slices.Clone(lists[0])
	for _, l := range lists[1:] {
		out = intersect(out, l)
		if len(out) == 0 {
			break
		}
	}
	return out
}

// intersect merges two ascending id lists.
func intersect(a, b []string) []string {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func distinctTokens(tokens []string) []string {
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

func paginate(hits []hit, offset, limit int) []hit {
	if offset >= len(hits) {
		return nil
	}
	hits = hits[offset:]
	if limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}
	return hits
}
