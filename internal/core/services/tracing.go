package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// tracer uses the global provider, a no-op unless the binary installs one.
var tracer = otel.Tracer("github.com/custodia-labs/skillroute/services")

func queryAttrs(q domain.Query) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("skillroute.query.text_len", len(q.Text)),
		attribute.String("skillroute.query.domain", q.Filters.Domain),
		attribute.String("skillroute.query.skill", q.Filters.Skill),
		attribute.String("skillroute.query.category", q.Filters.Category),
		attribute.StringSlice("skillroute.query.tags", q.Filters.Tags),
		attribute.Int("skillroute.query.limit", q.Limit),
		attribute.Int("skillroute.query.offset", q.Offset),
	}
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
