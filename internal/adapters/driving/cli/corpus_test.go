package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Summary(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"devops/blue-green.md": blueGreenDoc,
		"pm/risk.md":           riskDoc,
	})

	out, err := runCLI(t, "", env.args("index")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 documents")
	assert.Contains(t, out, "Warnings:  0")
	assert.NotContains(t, out, "Snapshot saved")
}

func TestIndexCmd_JSON(t *testing.T) {
	env := newTestEnv(t, map[string]string{"pm/risk.md": riskDoc})

	out, err := runCLI(t, "", env.args("index", "--json")...)
	require.NoError(t, err)

	var st statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "ready", st.State)
	assert.Equal(t, 1, st.Documents)
	assert.Equal(t, uint64(1), st.Generation)
	assert.Len(t, st.IndexHash, 64)
}

func TestIndexCmd_PersistsAndStatusRestores(t *testing.T) {
	env := newTestEnv(t, map[string]string{"pm/risk.md": riskDoc})
	dataDir := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, "", "--config-dir", env.configDir, "settings", "set", "storage.persist", "true")
	require.NoError(t, err)
	_, err = runCLI(t, "", "--config-dir", env.configDir, "settings", "set", "storage.data_dir", dataDir)
	require.NoError(t, err)

	base := []string{"--config-dir", env.configDir, "--corpus", env.corpus}
	out, err := runCLI(t, "", append(base, "index")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot saved.")
	assert.FileExists(t, filepath.Join(dataDir, "skillroute.db"))

	out, err = runCLI(t, "", append(base, "status", "--json")...)
	require.NoError(t, err)

	var st statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 1, st.Documents)
	assert.True(t, st.Stale)
	require.Len(t, st.Snapshots, 1)
	assert.Equal(t, st.IndexHash, st.Snapshots[0].Hash)

	// --ephemeral ignores the persisted store.
	out, err = runCLI(t, "", append(base, "--ephemeral", "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No persisted index")
}

func TestValidateCmd(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"pm/risk.md":        riskDoc,
		"misc/horoscope.md": unknownDomainDoc,
	})

	out, err := runCLI(t, "", env.args("validate")...)
	require.NoError(t, err)
	assert.Contains(t, out, "unknown_domain")
	assert.Contains(t, out, "misc/horoscope.md")
	assert.Contains(t, out, "2 documents, 1 warnings")

	_, err = runCLI(t, "", env.args("validate", "--strict")...)
	assert.EqualError(t, err, "corpus has warnings")
}

func TestValidateCmd_Clean(t *testing.T) {
	env := newTestEnv(t, map[string]string{"pm/risk.md": riskDoc})

	out, err := runCLI(t, "", env.args("validate", "--strict")...)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 1 documents, no warnings.")
}

func TestValidateCmd_AliasFromSettings(t *testing.T) {
	env := newTestEnv(t, map[string]string{"misc/horoscope.md": unknownDomainDoc})

	_, err := runCLI(t, "", "--config-dir", env.configDir, "settings", "set", "vocabulary.domains.astrology", "ZZ")
	require.NoError(t, err)

	out, err := runCLI(t, "", env.args("validate", "--strict")...)
	require.NoError(t, err)
	assert.Contains(t, out, "no warnings")
}
