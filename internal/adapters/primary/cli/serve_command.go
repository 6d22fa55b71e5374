package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tempo-tracker/internal/api"
)

// createServeCommand creates the 'serve' command
func (c *CLI) createServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  `Serve the task, session and report operations over a local HTTP API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := c.configMgr.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				config.Server.Addr = addr
			}

			router := api.NewRouter(c.taskService, c.ledger, c.reportService, config, c.logger)

			server := &http.Server{
				Addr:              config.Server.Addr,
				Handler:           router.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.logger.Info("http server listening", slog.String("addr", server.Addr))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-stop:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}
