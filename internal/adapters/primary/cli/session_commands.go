package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createStartCommand creates the 'start' command
func (c *CLI) createStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start [task-id]",
		Short: "Start tracking time on a task",
		Long: `Start a time session for the task. A task in todo state moves to
in_progress. Starting again while a session is already running closes the
old session and opens a fresh one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.ledger.Start(c.getContext(), args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage(fmt.Sprintf("Session %s started at %s.",
				truncateID(session.ID), session.StartTime.Format("15:04:05")))
		},
	}
}

// createStopCommand creates the 'stop' command
func (c *CLI) createStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [task-id]",
		Short: "Stop the running time session",
		Long:  `Stop the task's active session. Stopping with no active session is a no-op.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.ledger.Stop(c.getContext(), args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			if session == nil {
				return formatter.FormatMessage("No active session.")
			}
			return formatter.FormatMessage(fmt.Sprintf("Session %s stopped after %s.",
				truncateID(session.ID), formatDuration(session.DurationSeconds)))
		},
	}
}

// createSessionsCommand creates the 'sessions' command
func (c *CLI) createSessionsCommand() *cobra.Command {
	var totals bool

	cmd := &cobra.Command{
		Use:   "sessions [task-id]",
		Short: "List a task's time sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := c.getOutputFormatter(cmd)

			if totals {
				minutes, err := c.ledger.TotalMinutes(c.getContext(), args[0])
				if err != nil {
					return c.handleError(cmd, err)
				}
				return formatter.FormatMessage(fmt.Sprintf("Total tracked: %d minutes.", minutes))
			}

			sessions, err := c.ledger.Sessions(c.getContext(), args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}
			return formatter.FormatSessions(sessions)
		},
	}

	cmd.Flags().BoolVar(&totals, "total", false, "Print only the total tracked minutes")

	return cmd
}
