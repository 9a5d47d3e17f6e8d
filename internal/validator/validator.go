// Package validator normalises document metadata and resolves duplicate ids.
//
// The corpus mixes structured front-matter with hand-written metadata
// sections, so the validator is tolerant: every problem becomes a
// domain.Warning and no document is ever rejected.
package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.MetadataValidator = (*Validator)(nil)

// builtinDomains maps lowercased aliases to canonical domain codes.
var builtinDomains = map[string]string{
	"do":                 domain.DomainDevOps,
	"devops":             domain.DomainDevOps,
	"dev-ops":            domain.DomainDevOps,
	"dev ops":            domain.DomainDevOps,
	"pm":                 domain.DomainProjectManagement,
	"pmbok":              domain.DomainProjectManagement,
	"project management": domain.DomainProjectManagement,
	"project-management": domain.DomainProjectManagement,
	"ml":                 domain.DomainMLEngineering,
	"mle":                domain.DomainMLEngineering,
	"machine learning":   domain.DomainMLEngineering,
	"machine-learning":   domain.DomainMLEngineering,
	"ml engineering":     domain.DomainMLEngineering,
	"ml-engineering":     domain.DomainMLEngineering,
}

// idDomain captures the domain code of ids like M-DO-002.
var idDomain = regexp.MustCompile(`^[A-Za-z]+-([A-Za-z]{2,4})-\d+`)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Validator normalises metadata against a domain vocabulary.
type Validator struct {
	domains map[string]string
	known   map[string]bool
}

// New creates a validator. aliases extends the built-in vocabulary and
// maps an alias (any casing) to a canonical domain code.
func New(aliases map[string]string) *Validator {
	v := &Validator{
		domains: make(map[string]string, len(builtinDomains)+len(aliases)),
		known:   make(map[string]bool),
	}
	for alias, code := range builtinDomains {
		v.domains[alias] = code
		v.known[code] = true
	}
	for alias, code := range aliases {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		v.domains[strings.ToLower(strings.TrimSpace(alias))] = code
		v.known[code] = true
	}
	return v
}

// Validate normalises a single document.
func (v *Validator) Validate(doc domain.Document) (domain.Document, []domain.Warning) {
	var warnings []domain.Warning
	warn := func(code domain.WarningCode, format string, args ...any) {
		warnings = append(warnings, domain.Warning{
			Code:       code,
			SourcePath: doc.SourcePath,
			Ordinal:    doc.Ordinal,
			DocumentID: doc.ID,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	doc.ID = strings.TrimSpace(doc.ID)
	if doc.ID == "" {
		doc.ID = domain.SyntheticID(doc.SourcePath, doc.Ordinal)
	}

	rawDomain := doc.Domain
	if strings.TrimSpace(rawDomain) == "" {
		if m := idDomain.FindStringSubmatch(doc.ID); m != nil {
			rawDomain = m[1]
		}
	}
	doc.Domain = v.NormaliseDomain(rawDomain)
	switch {
	case doc.Domain == "":
		warn(domain.WarningMissingField, "domain is missing")
	case !v.known[doc.Domain]:
		warn(domain.WarningUnknownDomain, "domain %q is not in the vocabulary", rawDomain)
	}

	doc.Skill = Slug(doc.Skill)
	if doc.Skill == "" {
		warn(domain.WarningMissingField, "skill is missing")
	}
	doc.Category = Slug(doc.Category)
	if doc.Category == "" {
		warn(domain.WarningMissingField, "category is missing")
	}

	doc.Tags = normaliseTags(doc.Tags)
	doc.Title = strings.TrimSpace(doc.Title)

	return doc, warnings
}

// Deduplicate resolves duplicate ids in corpus order. The last document
// carrying an id wins; every earlier one is marked Shadowed.
func (v *Validator) Deduplicate(docs []domain.Document) ([]domain.Document, []domain.Warning) {
	last := make(map[string]int, len(docs))
	for i := range docs {
		last[docs[i].ID] = i
	}

	out := make([]domain.Document, len(docs))
	var warnings []domain.Warning
	for i := range docs {
		out[i] = docs[i]
		winner := last[docs[i].ID]
		if winner == i {
			continue
		}
		out[i].Shadowed = true
		warnings = append(warnings, domain.Warning{
			Code:       domain.WarningDuplicateID,
			SourcePath: docs[i].SourcePath,
			Ordinal:    docs[i].Ordinal,
			DocumentID: docs[i].ID,
			Message:    "shadowed by " + docs[winner].Key(),
		})
	}
	return out, warnings
}

// NormaliseFilters applies the vocabulary to query filters so that
// "DevOps" and "DO" select the same documents.
func (v *Validator) NormaliseFilters(f domain.Filters) domain.Filters {
	return domain.Filters{
		Domain:   v.NormaliseDomain(f.Domain),
		Skill:    Slug(f.Skill),
		Category: Slug(f.Category),
		Tags:     normaliseTags(f.Tags),
	}
}

// NormaliseDomain maps a raw domain to its canonical code. Unknown
// values are upper-cased and returned as-is.
func (v *Validator) NormaliseDomain(raw string) string {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if key == "" {
		return ""
	}
	if code, ok := v.domains[key]; ok {
		return code
	}
	return strings.ToUpper(key)
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func normaliseTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimLeft(strings.TrimSpace(t), "#"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
