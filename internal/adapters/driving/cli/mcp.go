package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/skillroute/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an agent can route its
queries through skillroute.

By default the server speaks JSON-RPC over stdio. The index builds in the
background; the route tool reports that the index is loading until the
first build finishes.

Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (default)
  skillroute mcp serve --corpus ./methodologies

  # HTTP mode (for MCP Inspector, remote access)
  skillroute mcp serve --port 8090

Client configuration:
  {
    "mcpServers": {
      "skillroute": {
        "command": "/path/to/skillroute",
        "args": ["mcp", "serve", "--corpus", "/path/to/methodologies"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Router: app.router,
		Corpus: app.corpus,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app.restore(ctx)
	app.corpus.TriggerReload()

	g, ctx := errgroup.WithContext(ctx)
	app.startBackground(ctx, g, true)
	g.Go(func() error {
		// Stop the watcher and scheduler once the client goes away.
		defer cancel()
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(ctx, addr)
		}
		return server.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
