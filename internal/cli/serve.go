// internal/cli/serve.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/linkfill/internal/api"
	"github.com/law-makers/linkfill/internal/config"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves product extraction over HTTP:

  GET  /health
  POST /api/v1/scrape    {"url": "..."}
  POST /api/v1/extract   {"url": "...", "html": "..."}

Error messages follow the Accept-Language header (English or Polish).`,
	Example: `  linkfill serve --addr :8080`,
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080)")
	config.BindEnv(serveCmd.Flags(), "addr", "SERVER_ADDR")
}

func runServe(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	addr := a.Config.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	handler := api.New(a.Scraper, a.Extractor, api.Options{
		RateLimit:      a.Config.APIRateLimit,
		CORSOrigins:    a.Config.CORSOrigins,
		MaxBodyBytes:   a.Config.MaxBodyBytes,
		RequestTimeout: a.Config.HTTPTimeout * time.Duration(a.Config.RetryAttempts+1),
	}).Handler()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	log.Info().Msg("Shutting down HTTP API")
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
