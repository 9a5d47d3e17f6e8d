package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

var (
	indexJSON      bool
	validateStrict bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the index and print a summary",
	Long: `Loads every markdown file below the corpus root, builds the index and
prints its hash and document counts. With storage.persist enabled the
snapshot is saved for the next 'serve' to restore.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check corpus metadata and report warnings",
	Long: `Builds the index and lists every malformed document, duplicate id,
unknown domain and unreadable file. With --strict any warning fails the
command.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the summary as JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when warnings are found")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(validateCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.corpus.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	st := app.corpus.Status()
	out := cmd.OutOrStdout()
	if indexJSON {
		return writeJSON(out, statusOutputFrom(st, app.settings.Corpus.Root))
	}

	cmd.Printf("Indexed %d documents from %s\n", st.Documents, app.settings.Corpus.Root)
	cmd.Printf("  Hash:      %s\n", st.IndexHash)
	cmd.Printf("  Shadowed:  %d\n", st.Shadowed)
	cmd.Printf("  Warnings:  %d\n", st.Warnings)
	if app.persisted {
		cmd.Println("  Snapshot saved.")
	}
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.corpus.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	warnings := app.corpus.Warnings()
	st := app.corpus.Status()
	if len(warnings) == 0 {
		cmd.Printf("OK: %d documents, no warnings.\n", st.Documents)
		return nil
	}

	counts := make(map[domain.WarningCode]int)
	for _, w := range warnings {
		counts[w.Code]++
		cmd.Println(w.String())
	}
	cmd.Println()
	cmd.Printf("%d documents, %d warnings", st.Documents, len(warnings))
	for _, code := range []domain.WarningCode{
		domain.WarningMalformedDocument,
		domain.WarningInvalidFrontMatter,
		domain.WarningDuplicateID,
		domain.WarningUnknownDomain,
		domain.WarningMissingField,
		domain.WarningUnreadableFile,
	} {
		if n := counts[code]; n > 0 {
			cmd.Printf(", %s=%d", code, n)
		}
	}
	cmd.Println()

	if validateStrict {
		return errors.New("corpus has warnings")
	}
	return nil
}
