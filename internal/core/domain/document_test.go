package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntheticID(t *testing.T) {
	t.Run("is 12 hex characters", func(t *testing.T) {
		id := SyntheticID("skills/pm/b.md", 0)

		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12}$`), id)
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, SyntheticID("b.md", 3), SyntheticID("b.md", 3))
	})

	t.Run("depends on path and ordinal", func(t *testing.T) {
		assert.NotEqual(t, SyntheticID("b.md", 0), SyntheticID("b.md", 1))
		assert.NotEqual(t, SyntheticID("a.md", 0), SyntheticID("b.md", 0))
	})

	t.Run("is the sha256 prefix of path and ordinal", func(t *testing.T) {
		sum := sha256.Sum256([]byte("b.md0"))

		assert.Equal(t, hex.EncodeToString(sum[:])[:12], SyntheticID("b.md", 0))
	})
}

func TestDocument_Key(t *testing.T) {
	doc := Document{SourcePath: "skills/devops/a.md", Ordinal: 2}

	assert.Equal(t, "skills/devops/a.md#2", doc.Key())
}

func TestDocument_HasTag(t *testing.T) {
	doc := Document{Tags: []string{"devops", "risk"}}

	assert.True(t, doc.HasTag("risk"))
	assert.False(t, doc.HasTag("pm"))
}

func TestFilters_IsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.False(t, Filters{Domain: "PM"}.IsEmpty())
	assert.False(t, Filters{Tags: []string{"risk"}}.IsEmpty())
}

func TestServiceState_IsValid(t *testing.T) {
	for _, s := range []ServiceState{StateUnloaded, StateLoading, StateReady, StateReloading, StateFailed} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, ServiceState("paused").IsValid())
}

func TestWarning_Err(t *testing.T) {
	assert.ErrorIs(t, Warning{Code: WarningDuplicateID}.Err(), ErrDuplicateID)
	assert.ErrorIs(t, Warning{Code: WarningMalformedDocument}.Err(), ErrMalformedDocument)
	assert.ErrorIs(t, Warning{Code: WarningInvalidFrontMatter}.Err(), ErrInvalidFrontMatter)
	assert.NoError(t, Warning{Code: WarningMissingField}.Err())
}

func TestWarning_String(t *testing.T) {
	w := Warning{
		Code:       WarningDuplicateID,
		SourcePath: "a.md",
		Ordinal:    1,
		DocumentID: "M-DO-002",
		Message:    "shadowed by b.md#0",
	}

	assert.Equal(t, "duplicate_id: a.md#1 (M-DO-002): shadowed by b.md#0", w.String())
}
