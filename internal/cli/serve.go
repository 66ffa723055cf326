package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/radutopala/seqmatch/internal/mcp"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(logger *slog.Logger) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the matcher as MCP tools over stdio or Streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			// Get server name and version from environment or use defaults
			serverName := os.Getenv("SEQMATCH_SERVER_NAME")
			if serverName == "" {
				serverName = "seqmatch"
			}

			serverVersion := os.Getenv("SEQMATCH_SERVER_VERSION")
			if serverVersion == "" {
				serverVersion = "0.1.0"
			}

			server, err := mcp.NewMatchServer(serverName, serverVersion, logger)
			if err != nil {
				return fmt.Errorf("failed to create seqmatch server: %w", err)
			}

			if httpAddr == "" {
				logger.Info("Starting seqmatch server over stdio...", "name", serverName, "version", serverVersion)
				if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
					return fmt.Errorf("seqmatch server failed: %w", err)
				}
				logger.Info("seqmatch server finished")
				return nil
			}

			return serveHTTP(ctx, httpAddr, server.HTTPHandler(), logger)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "Listen on this address with Streamable HTTP instead of stdio (e.g. :8080)")

	return cmd
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting seqmatch server over Streamable HTTP...", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("seqmatch HTTP server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down seqmatch HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
