package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tempo-tracker/internal/domain/ports"
	"tempo-tracker/internal/domain/services"
)

const dueDateLayout = "2006-01-02"

// createAddCommand creates the 'add' command
func (c *CLI) createAddCommand() *cobra.Command {
	var (
		priority  string
		project   string
		estimate  int
		intensity int
		due       string
	)

	cmd := &cobra.Command{
		Use:   "add [task title]",
		Short: "Create a new task",
		Long:  `Create a new task with an estimated duration and intensity.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			input := services.CreateTaskInput{
				Title:              title,
				ProjectID:          project,
				EstimatedMins:      estimate,
				EstimatedIntensity: intensity,
			}

			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return c.handleError(cmd, err)
				}
				input.Priority = p
			}

			if due != "" {
				dueDate, err := time.ParseInLocation(dueDateLayout, due, time.Local)
				if err != nil {
					return c.handleError(cmd, err)
				}
				input.DueDate = &dueDate
			}

			task, err := c.taskService.CreateTask(c.getContext(), input)
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTask(task)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority (low, medium, high)")
	cmd.Flags().StringVar(&project, "project", "", "Project the task belongs to")
	cmd.Flags().IntVarP(&estimate, "estimate", "e", 30, "Estimated time in minutes")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", 3, "Estimated intensity (1-5)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

// createListCommand creates the 'list' command
func (c *CLI) createListCommand() *cobra.Command {
	var (
		status   string
		priority string
		project  string
		search   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with filtering options",
		Long:    `List tasks with optional filtering by status, priority, project, or title search.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := ports.TaskFilters{
				ProjectID: project,
				Search:    search,
			}

			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return c.handleError(cmd, err)
				}
				filters.Status = &s
			}

			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return c.handleError(cmd, err)
				}
				filters.Priority = &p
			}

			tasks, err := c.taskService.ListTasks(c.getContext(), &filters)
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTaskList(tasks)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (todo, in_progress, done, archived)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Filter by priority (low, medium, high)")
	cmd.Flags().StringVar(&project, "project", "", "Filter by project")
	cmd.Flags().StringVar(&search, "search", "", "Search in task titles")

	return cmd
}

// createShowCommand creates the 'show' command
func (c *CLI) createShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.taskService.GetTask(c.getContext(), args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTask(task)
		},
	}
}

// createEditCommand creates the 'edit' command
func (c *CLI) createEditCommand() *cobra.Command {
	var (
		title     string
		priority  string
		project   string
		estimate  int
		intensity int
		due       string
		clearDue  bool
	)

	cmd := &cobra.Command{
		Use:   "edit [task-id]",
		Short: "Edit a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := &services.TaskPatch{ClearDueDate: clearDue}

			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("project") {
				patch.ProjectID = &project
			}
			if cmd.Flags().Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return c.handleError(cmd, err)
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("estimate") {
				patch.EstimatedMins = &estimate
			}
			if cmd.Flags().Changed("intensity") {
				patch.EstimatedIntensity = &intensity
			}
			if cmd.Flags().Changed("due") {
				dueDate, err := time.ParseInLocation(dueDateLayout, due, time.Local)
				if err != nil {
					return c.handleError(cmd, err)
				}
				patch.DueDate = &dueDate
			}

			task, err := c.taskService.UpdateTask(c.getContext(), args[0], patch)
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTask(task)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New task title")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority (low, medium, high)")
	cmd.Flags().StringVar(&project, "project", "", "Project the task belongs to")
	cmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "Estimated time in minutes")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", 0, "Estimated intensity (1-5)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")

	return cmd
}

// createCompleteCommand creates the 'done' command
func (c *CLI) createCompleteCommand() *cobra.Command {
	var (
		intensity int
		minutes   int
	)

	cmd := &cobra.Command{
		Use:     "done [task-id]",
		Aliases: []string{"complete"},
		Short:   "Mark a task as completed",
		Long: `Mark a task as completed, recording how intense it actually was.
Without --minutes the total tracked session time is recorded as the actual
duration. Any running session is stopped first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var actualMins *int
			if cmd.Flags().Changed("minutes") {
				actualMins = &minutes
			}

			task, err := c.taskService.CompleteTask(c.getContext(), args[0], intensity, actualMins)
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTask(task)
		},
	}

	cmd.Flags().IntVarP(&intensity, "intensity", "i", 3, "Actual intensity (1-5)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Actual minutes spent (defaults to tracked time)")

	return cmd
}

// createArchiveCommand creates the 'archive' command
func (c *CLI) createArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [task-id]",
		Short: "Archive a task",
		Long:  `Archive a task. Archived tasks are terminal and excluded from reports.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.taskService.ArchiveTask(c.getContext(), args[0])
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatTask(task)
		},
	}
}

// createDeleteCommand creates the 'delete' command
func (c *CLI) createDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [task-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.taskService.DeleteTask(c.getContext(), args[0]); err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatMessage("Task deleted.")
		},
	}
}

// createStatsCommand creates the 'stats' command
func (c *CLI) createStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.taskService.Stats(c.getContext())
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatStats(&stats)
		},
	}
}
