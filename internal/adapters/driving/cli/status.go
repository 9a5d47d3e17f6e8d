package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted index and snapshot history",
	Long: `Restores the most recent persisted snapshot and reports its state,
followed by the snapshot history. Requires storage.persist.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Root       string     `json:"root"`
	State      string     `json:"state"`
	Generation uint64     `json:"generation"`
	Documents  int        `json:"documents"`
	Shadowed   int        `json:"shadowed"`
	Warnings   int        `json:"warnings"`
	IndexHash  string     `json:"index_hash,omitempty"`
	BuiltAt    *time.Time `json:"built_at,omitempty"`
	Stale      bool       `json:"stale"`
	LastError  string     `json:"last_error,omitempty"`
	Snapshots  []snapshot `json:"snapshots,omitempty"`
}

type snapshot struct {
	ID         string    `json:"id"`
	Hash       string    `json:"hash"`
	Generation uint64    `json:"generation"`
	Documents  int       `json:"documents"`
	BuiltAt    time.Time `json:"built_at"`
}

func statusOutputFrom(st domain.Status, root string) statusOutput {
	out := statusOutput{
		Root:       root,
		State:      st.State.String(),
		Generation: st.Generation,
		Documents:  st.Documents,
		Shadowed:   st.Shadowed,
		Warnings:   st.Warnings,
		IndexHash:  st.IndexHash,
		Stale:      st.Stale,
		LastError:  st.LastError,
	}
	if !st.BuiltAt.IsZero() {
		t := st.BuiltAt.UTC()
		out.BuiltAt = &t
	}
	return out
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	app.restore(ctx)

	out := statusOutputFrom(app.corpus.Status(), app.settings.Corpus.Root)
	history, err := app.snapshots.List(ctx)
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}
	for _, s := range history {
		out.Snapshots = append(out.Snapshots, snapshot{
			ID:         s.ID,
			Hash:       s.Hash,
			Generation: s.Generation,
			Documents:  s.Documents,
			BuiltAt:    s.BuiltAt,
		})
	}

	if statusJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	cmd.Printf("Corpus:     %s\n", out.Root)
	cmd.Printf("State:      %s\n", out.State)
	if out.Generation == 0 {
		if !app.persisted {
			cmd.Println("No persisted index. Enable storage.persist and run 'skillroute index'.")
		} else {
			cmd.Println("No persisted index. Run 'skillroute index' to build one.")
		}
		return nil
	}
	cmd.Printf("Documents:  %d\n", out.Documents)
	cmd.Printf("Hash:       %s\n", out.IndexHash)
	if out.BuiltAt != nil {
		cmd.Printf("Built:      %s\n", out.BuiltAt.Format(time.RFC3339))
	}
	if out.Stale {
		cmd.Println("Stale:      yes (restored from snapshot)")
	}
	cmd.Println()
	cmd.Println("Snapshots:")
	for _, s := range out.Snapshots {
		cmd.Printf("  %s  gen %-4d %5d docs  %s\n",
			shortHash(s.Hash), s.Generation, s.Documents, s.BuiltAt.Format(time.RFC3339))
	}
	return nil
}
