package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

func codes(warnings []domain.Warning) []domain.WarningCode {
	out := make([]domain.WarningCode, len(warnings))
	for i, w := range warnings {
		out[i] = w.Code
	}
	return out
}

func TestValidate_NormalisesDomain(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "DevOps", want: "DO"},
		{raw: "dev-ops", want: "DO"},
		{raw: "do", want: "DO"},
		{raw: "Project  Management", want: "PM"},
		{raw: "PMBOK", want: "PM"},
		{raw: "ML Engineering", want: "ML"},
		{raw: "machine learning", want: "ML"},
	}

	v := New(nil)
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			doc, _ := v.Validate(domain.Document{ID: "x", Domain: tt.raw, Skill: "s", Category: "c"})
			assert.Equal(t, tt.want, doc.Domain)
		})
	}
}

func TestValidate_UnknownDomain(t *testing.T) {
	doc, warnings := New(nil).Validate(domain.Document{ID: "x", Domain: "Security", Skill: "s", Category: "c"})

	assert.Equal(t, "SECURITY", doc.Domain)
	assert.Equal(t, []domain.WarningCode{domain.WarningUnknownDomain}, codes(warnings))
}

func TestValidate_CustomAliases(t *testing.T) {
	v := New(map[string]string{"Security": "sec"})

	doc, warnings := v.Validate(domain.Document{ID: "x", Domain: "security", Skill: "s", Category: "c"})

	assert.Equal(t, "SEC", doc.Domain)
	assert.Empty(t, warnings)
}

func TestValidate_DomainFromID(t *testing.T) {
	doc, warnings := New(nil).Validate(domain.Document{ID: "M-PM-006", Skill: "s", Category: "c"})

	assert.Equal(t, "PM", doc.Domain)
	assert.Empty(t, warnings)
}

func TestValidate_SynthesisesID(t *testing.T) {
	in := domain.Document{SourcePath: "skills/pm/b.md", Ordinal: 0, Domain: "PM", Skill: "s", Category: "c"}

	first, _ := New(nil).Validate(in)
	second, _ := New(nil).Validate(in)

	assert.Len(t, first.ID, 12)
	assert.Regexp(t, `^[0-9a-f]{12}$`, first.ID)
	assert.Equal(t, domain.SyntheticID("skills/pm/b.md", 0), first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestValidate_KeepsExplicitID(t *testing.T) {
	doc, _ := New(nil).Validate(domain.Document{ID: "  M-DO-002 ", Domain: "DO", Skill: "s", Category: "c"})

	assert.Equal(t, "M-DO-002", doc.ID)
}

func TestValidate_CanonicalCasing(t *testing.T) {
	doc, warnings := New(nil).Validate(domain.Document{
		ID:       "M-DO-001",
		Domain:   "DevOps",
		Skill:    "Faion DevOps Agent",
		Category: "Risk Management",
		Tags:     []string{"#Risk", "risk", "CI/CD", ""},
	})

	assert.Empty(t, warnings)
	assert.Equal(t, "faion-devops-agent", doc.Skill)
	assert.Equal(t, "risk-management", doc.Category)
	assert.Equal(t, []string{"ci/cd", "risk"}, doc.Tags)
}

func TestValidate_MissingFields(t *testing.T) {
	doc, warnings := New(nil).Validate(domain.Document{SourcePath: "x.md"})

	assert.Empty(t, doc.Domain)
	assert.Equal(t, []domain.WarningCode{
		domain.WarningMissingField,
		domain.WarningMissingField,
		domain.WarningMissingField,
	}, codes(warnings))
	for _, w := range warnings {
		assert.Equal(t, doc.ID, w.DocumentID)
	}
}

func TestDeduplicate(t *testing.T) {
	docs := []domain.Document{
		{ID: "A", SourcePath: "a.md"},
		{ID: "B", SourcePath: "b.md"},
		{ID: "A", SourcePath: "c.md"},
		{ID: "A", SourcePath: "d.md", Ordinal: 1},
	}

	out, warnings := New(nil).Deduplicate(docs)

	require.Len(t, out, 4)
	assert.True(t, out[0].Shadowed)
	assert.False(t, out[1].Shadowed)
	assert.True(t, out[2].Shadowed)
	assert.False(t, out[3].Shadowed, "last loaded wins")

	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, domain.WarningDuplicateID, w.Code)
		assert.ErrorIs(t, w.Err(), domain.ErrDuplicateID)
		assert.Equal(t, "shadowed by d.md#1", w.Message)
	}
	assert.False(t, docs[0].Shadowed, "input is not mutated")
}

func TestNormaliseFilters(t *testing.T) {
	f := New(nil).NormaliseFilters(domain.Filters{
		Domain:   "Project Management",
		Skill:    "Faion PM Agent",
		Category: "Risk Management",
		Tags:     []string{"#Risk"},
	})

	assert.Equal(t, domain.Filters{
		Domain:   "PM",
		Skill:    "faion-pm-agent",
		Category: "risk-management",
		Tags:     []string{"risk"},
	}, f)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ml-ops", Slug("  ML / Ops "))
	assert.Equal(t, "", Slug("---"))
}
