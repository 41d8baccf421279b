package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mab8192/tcgprint/pkg/api"
	"github.com/mab8192/tcgprint/pkg/cache"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		workers   int
		maxUpload int64
		noCache   bool
		cacheURL  string
		keyPrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and sheet API over HTTP",
		Long: `Serve tcgprint over HTTP.

  GET  /healthz     liveness probe
  POST /v1/layout   JSON settings in, geometry JSON out
  POST /v1/sheets   multipart "cards" files (plus optional "settings"
                    JSON field) in, PDF out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tiles, err := c.newCache(ctx, noCache, cacheURL)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(tiles, cache.NewScopedKeyer(nil, keyPrefix), c.Logger)
			defer runner.Close()

			srv := api.New(runner, c.Logger, api.Config{
				Workers:        workers,
				MaxUploadBytes: maxUpload,
			})
			return c.runServe(ctx, srv, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&workers, "workers", pipeline.DefaultWorkers, "pages rendered in parallel per request")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", api.DefaultMaxUploadBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the tile cache")
	cmd.Flags().StringVar(&cacheURL, "cache-url", "", "redis URL for a shared tile cache (env "+envCacheURL+")")
	cmd.Flags().StringVar(&keyPrefix, "cache-prefix", "api:", "key prefix in a shared tile cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, srv *api.Server, addr string) error {
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	err := srv.ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
