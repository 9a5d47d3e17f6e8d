package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const blueGreenDoc = `---
id: M-DO-002
name: Blue/Green Deployments
domain: DevOps
skill: faion-devops-agent
category: Deployment
tags: [release, "#devops"]
---

# Blue/Green Deployments

Switch traffic between two identical environments.
`

const riskDoc = `---
id: M-PM-006
name: Risk Register
domain: PM
skill: faion-pm-agent
category: Risk Management
tags: [risk, planning]
---

# Risk Register

Track every risk with an owner and a mitigation.
`

const unknownDomainDoc = `---
id: M-ZZ-001
name: Horoscope Planning
domain: Astrology
skill: faion-stars-agent
category: Forecasting
tags: [stars]
---

# Horoscope Planning
`

// resetFlags restores every flag below cmd to its default so tests do
// not leak state through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// testEnv is an isolated config directory and corpus root.
type testEnv struct {
	configDir string
	corpus    string
}

func newTestEnv(t *testing.T, files map[string]string) testEnv {
	t.Helper()
	env := testEnv{configDir: t.TempDir(), corpus: t.TempDir()}
	for rel, content := range files {
		path := filepath.Join(env.corpus, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return env
}

// args prefixes the global flags that point at the environment.
func (e testEnv) args(args ...string) []string {
	return append([]string{"--config-dir", e.configDir, "--corpus", e.corpus, "--ephemeral"}, args...)
}
