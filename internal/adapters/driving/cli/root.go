// Package cli implements the skillroute command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skillroute/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

var (
	verbose    bool
	configDir  string
	corpusRoot string
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:   "skillroute",
	Short: "Index a methodology corpus and route agent queries to it",
	Long: `skillroute indexes a directory of markdown methodology documents and
answers routing queries by domain, skill, category, tags and free text.

Run 'skillroute serve' to start the HTTP API, or 'skillroute mcp serve' to
expose the router to an MCP client.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&configDir, "config-dir", "", "config directory (default ~/.skillroute)")
	flags.StringVar(&corpusRoot, "corpus", "", "corpus root directory (overrides corpus.root)")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep snapshots and task history in memory only")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
