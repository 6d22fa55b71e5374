// Package cli provides the command-line interface for the tempo
// productivity tracker.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
	"tempo-tracker/internal/domain/services"
)

// CLI represents the command-line interface
type CLI struct {
	RootCmd       *cobra.Command // Exported for version setting
	taskService   *services.TaskService
	ledger        *services.SessionLedger
	reportService *services.ReportService
	configMgr     ports.ConfigManager
	logger        *slog.Logger
	storage       ports.Storage
	serverAddr    string
	outputFormat  string
	verbose       bool
}

// NewCLI creates a new CLI instance
func NewCLI(
	taskService *services.TaskService,
	ledger *services.SessionLedger,
	reportService *services.ReportService,
	configMgr ports.ConfigManager,
	logger *slog.Logger,
	storage ports.Storage,
) *CLI {
	cli := &CLI{
		taskService:   taskService,
		ledger:        ledger,
		reportService: reportService,
		configMgr:     configMgr,
		logger:        logger,
		storage:       storage,
	}

	cli.setupRootCommand()
	cli.setupCommands()

	return cli
}

// setupRootCommand configures the root command
func (c *CLI) setupRootCommand() {
	c.RootCmd = &cobra.Command{
		Use:   "tempo",
		Short: "Tempo - personal productivity tracker",
		Long: `Tempo tracks tasks, the time you spend on them, and how accurate
your estimates turn out to be.

Tasks carry estimated minutes and an intensity from 1 to 5. Starting a task
opens a time session; completing it records the actuals. Reports compare
estimates against reality and surface what to change next.`,
		Version: "0.1.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Containers built for tests wire services directly and skip
			// the config manager.
			if c.configMgr != nil {
				config, err := c.configMgr.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}

				if c.outputFormat == "" {
					c.outputFormat = config.CLI.OutputFormat
				}
				c.serverAddr = config.Server.Addr
			}

			if c.verbose {
				c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	c.RootCmd.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "",
		"Output format (table, json, plain)")
	c.RootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"Verbose output for debugging")
}

// setupCommands adds all subcommands to root
func (c *CLI) setupCommands() {
	c.RootCmd.AddCommand(
		c.createAddCommand(),
		c.createListCommand(),
		c.createShowCommand(),
		c.createEditCommand(),
		c.createStartCommand(),
		c.createStopCommand(),
		c.createSessionsCommand(),
		c.createCompleteCommand(),
		c.createArchiveCommand(),
		c.createDeleteCommand(),
		c.createReportCommand(),
		c.createStatsCommand(),
		c.createConfigCommand(),
		c.createServeCommand(),
	)
}

// Execute runs the CLI
func (c *CLI) Execute() error {
	return c.RootCmd.Execute()
}

func (c *CLI) getContext() context.Context {
	return context.Background()
}

// getOutputFormatter returns the appropriate formatter based on output format
func (c *CLI) getOutputFormatter(cmd *cobra.Command) OutputFormatter {
	format := c.outputFormat

	if f, _ := cmd.Flags().GetString("output"); f != "" {
		format = f
	}

	writer := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(writer, true)
	case "plain":
		return NewPlainFormatter(writer)
	default:
		return NewTableFormatter(writer)
	}
}

// handleError formats and displays an error
func (c *CLI) handleError(cmd *cobra.Command, err error) error {
	formatter := c.getOutputFormatter(cmd)
	_ = formatter.FormatError(err)
	return err
}

// parseStatus converts string to Status enum
func parseStatus(s string) (entities.Status, error) {
	switch strings.ToLower(s) {
	case "todo":
		return entities.StatusTodo, nil
	case "in_progress", "in-progress", "inprogress":
		return entities.StatusInProgress, nil
	case "done", "completed":
		return entities.StatusDone, nil
	case "archived":
		return entities.StatusArchived, nil
	default:
		return "", fmt.Errorf("invalid status: %s (valid: todo, in_progress, done, archived)", s)
	}
}

// parsePriority converts string to Priority enum
func parsePriority(s string) (entities.Priority, error) {
	switch strings.ToLower(s) {
	case "low":
		return entities.PriorityLow, nil
	case "medium", "med":
		return entities.PriorityMedium, nil
	case "high":
		return entities.PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority: %s (valid: low, medium, high)", s)
	}
}
