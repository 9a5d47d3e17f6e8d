package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

var (
	queryDomain   string
	querySkill    string
	queryCategory string
	queryTags     []string
	queryLimit    int
	queryOffset   int
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Route a query against the corpus",
	Long: `Builds the index from the corpus and prints the documents matching the
filters, ranked by how well they match the free text.

Filters combine with AND. Output is a table on a terminal and JSON otherwise.

Examples:
  skillroute query --domain PM --tag risk
  skillroute query "blue green deployment" --limit 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	flags := queryCmd.Flags()
	flags.StringVarP(&queryDomain, "domain", "d", "", "domain code or alias")
	flags.StringVarP(&querySkill, "skill", "s", "", "skill name")
	flags.StringVarP(&queryCategory, "category", "c", "", "category")
	flags.StringSliceVarP(&queryTags, "tag", "t", nil, "required tag (repeatable)")
	flags.IntVarP(&queryLimit, "limit", "n", 10, "maximum number of results (0 = all)")
	flags.IntVar(&queryOffset, "offset", 0, "number of results to skip")
	flags.BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if err := app.corpus.Reload(ctx); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	q := domain.Query{
		Filters: domain.Filters{
			Domain:   queryDomain,
			Skill:    querySkill,
			Category: queryCategory,
			Tags:     queryTags,
		},
		Limit:  queryLimit,
		Offset: queryOffset,
	}
	if len(args) == 1 {
		q.Text = args[0]
	}

	res, err := app.router.Route(ctx, q)
	if err != nil {
		return fmt.Errorf("routing query: %w", err)
	}
	results := res.Results

	out := cmd.OutOrStdout()
	if wantJSON(out, queryJSON) {
		return writeJSON(out, toQueryOutput(results))
	}
	return printQueryTable(cmd, results)
}

type queryOutput struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Domain   string   `json:"domain"`
	Skill    string   `json:"skill"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Score    float64  `json:"score"`
	Excerpt  string   `json:"excerpt"`
	Source   string   `json:"source"`
}

func toQueryOutput(results []domain.ScoredDocument) []queryOutput {
	out := make([]queryOutput, 0, len(results))
	for _, r := range results {
		out = append(out, queryOutput{
			ID:       r.Document.ID,
			Title:    r.Document.Title,
			Domain:   r.Document.Domain,
			Skill:    r.Document.Skill,
			Category: r.Document.Category,
			Tags:     r.Document.Tags,
			Score:    r.Score,
			Excerpt:  r.Excerpt,
			Source:   r.Document.SourcePath,
		})
	}
	return out
}

func printQueryTable(cmd *cobra.Command, results []domain.ScoredDocument) error {
	if len(results) == 0 {
		cmd.Println("No matching documents.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tDOMAIN\tTITLE\tTAGS")
	for _, r := range results {
		fmt.Fprintf(tw, "%.3f\t%s\t%s\t%s\t%s\n",
			r.Score, r.Document.ID, r.Document.Domain,
			truncate(r.Document.Title, 48), strings.Join(r.Document.Tags, ","))
	}
	return tw.Flush()
}
