package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/shelfscan/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the book scanning API server",
		Long: `Starts the Shelfscan API on the specified port.

Endpoints accept cover and shelf photos for identification, direct
catalog searches, and weighted book lists for recommendations.`,
		Example: `  # Start server on default port 8888
  shelfscan serve

  # Start server on custom port
  shelfscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildServices(cmd.Context())
			if err != nil {
				return err
			}

			handler := handlers.New(svc.scan, svc.recommend, svc.resolver)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("POST /books/scan_cover", handler.HandleScanCover)
			mux.HandleFunc("POST /books/scan_shelf", handler.HandleScanShelf)
			mux.HandleFunc("GET /books/search", handler.HandleSearch)
			mux.HandleFunc("POST /books/recommendations", handler.HandleRecommendations)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Shelfscan API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
