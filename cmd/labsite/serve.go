package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/wulab/labsite/internal/config"
	"github.com/wulab/labsite/internal/page"
	"github.com/wulab/labsite/internal/server"
	"github.com/wulab/labsite/internal/source"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the homepage interactively",
		Long: `Serve starts an HTTP server that renders the homepage on every request.

The documents are read in the background once the server is listening.
Until the configuration document has loaded, the page shows a loading
placeholder. Avatar clicks, research modals and the award modal are kept
per browser session.

With --watch, local documents and the static directory are watched and
every change reloads the documents and refreshes open browser tabs.

Examples:
  # Serve on the default address
  labsite serve

  # Serve on all interfaces with live reload
  labsite serve --addr :8080 --watch

  # Serve a remote configuration document
  labsite serve --config-doc https://example.org/config.json`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addDocumentFlags(cmd)
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().Bool("watch", false, "Reload documents on change and refresh browsers")
	cmd.Flags().Duration("session-ttl", config.DefaultSessionTTL,
		"How long an idle browser session keeps its state")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{
		server.WithAddr(cfg.Addr),
		server.WithStaticDir(cfg.StaticDir),
		server.WithSessionTTL(cfg.SessionTTL),
		server.WithLogger(logger),
	}
	if cfg.Watch {
		opts = append(opts, server.WithWatch(localDocuments(cfg)...))
	}

	srv := server.New(newLoader(cfg, logger), page.NewStore(), opts...)
	out := cmd.OutOrStdout()
	return srv.Run(ctx, func(addr string) {
		fmt.Fprintf(out, "Serving %s on http://%s\n", cfg.ConfigDocument, addr)
		if cfg.Watch {
			fmt.Fprintln(out, "Watching for changes (live reload enabled)")
		}
		fmt.Fprintln(out, "Press Ctrl+C to stop")
	})
}

// localDocuments returns the document locations that are files.
// Remote documents cannot be watched.
func localDocuments(cfg *config.Config) []string {
	var files []string
	for _, loc := range []string{cfg.ConfigDocument, cfg.PublicationsDocument} {
		if !source.IsRemote(loc) {
			files = append(files, loc)
		}
	}
	return files
}
