package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/skillroute/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/skillroute/internal/adapters/driving/mcp"
	"github.com/custodia-labs/skillroute/internal/core/services"
	"github.com/custodia-labs/skillroute/internal/logger"
)

var (
	serveAddr    string
	serveNoWatch bool
	serveMCP     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the routing API over HTTP",
	Long: `Starts the HTTP API, builds the index in the background and keeps it
fresh: file changes trigger a rebuild when watch.enabled is set, and the
scheduler reloads periodically when scheduler.enabled is set.

Endpoints:
  GET  /query          route a query (text, domain, skill, category, tag, limit, offset)
  POST /reload         rebuild the index (?wait=true blocks until done)
  GET  /status         lifecycle state and index summary
  GET  /documents      list indexed documents
  GET  /documents/{id} one document with its body
  GET  /healthz        liveness
  GET  /readyz         readiness
  GET  /metrics        Prometheus metrics
  /mcp                 MCP streamable HTTP endpoint (with --mcp)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not watch the corpus for changes")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP over HTTP at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.SetTimestamps(true)

	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := app.settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	opts := []httpapi.Option{
		httpapi.WithRateLimit(app.settings.Server.RateLimit, app.settings.Server.RateBurst),
		httpapi.WithMetrics(app.recorder, app.registry),
	}
	if serveMCP {
		mcpServer, err := mcp.NewServer(&mcp.Ports{Router: app.router, Corpus: app.corpus})
		if err != nil {
			return err
		}
		opts = append(opts, httpapi.WithMCP(mcpServer.Handler()))
	}
	server, err := httpapi.NewServer(app.router, app.corpus, opts...)
	if err != nil {
		return err
	}

	app.restore(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	g.Go(func() error {
		if err := app.corpus.Reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("initial build failed: %v", err)
		}
		return nil
	})
	app.startBackground(ctx, g, !serveNoWatch)

	cmd.Printf("skillroute serving %s on %s\n", app.settings.Corpus.Root, addr)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startBackground runs the watcher and scheduler the settings enable.
func (a *application) startBackground(ctx context.Context, g *errgroup.Group, watch bool) {
	if watch && a.settings.Watch.Enabled {
		g.Go(func() error {
			err := services.WatchLoop(ctx, a.connector, a.corpus)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("corpus watcher stopped: %v", err)
			}
			return nil
		})
	}

	if a.settings.Scheduler.Enabled {
		scheduler := services.NewScheduler(
			a.settings.Scheduler, a.tasks, a.corpus, a.snapshots, a.settings.Storage.KeepSnapshots)
		g.Go(func() error {
			err := scheduler.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("scheduler stopped: %v", err)
			}
			return nil
		})
	}
}
