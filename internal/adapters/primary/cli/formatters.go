package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
)

// OutputFormatter defines the interface for formatting command output
type OutputFormatter interface {
	FormatTask(task *entities.Task) error
	FormatTaskList(tasks []*entities.Task) error
	FormatSessions(sessions []*entities.TimeSession) error
	FormatStats(stats *ports.TaskStats) error
	FormatReport(report *entities.Report) error
	FormatError(err error) error
	FormatMessage(message string) error
}

// Styles for the table formatter. Colors degrade gracefully on dumb
// terminals via lipgloss's profile detection.
var (
	headingStyle   = lipgloss.NewStyle().Bold(true)
	trendUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	trendDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	insightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// TableFormatter formats output as ASCII tables
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) OutputFormatter {
	return &TableFormatter{writer: w}
}

// FormatTask formats a single task as a table
func (f *TableFormatter) FormatTask(task *entities.Task) error {
	table := tablewriter.NewWriter(f.writer)
	table.Header("Field", "Value")

	_ = table.Append([]string{"ID", truncateID(task.ID)})
	_ = table.Append([]string{"Title", task.Title})
	_ = table.Append([]string{"Status", string(task.Status)})
	_ = table.Append([]string{"Priority", string(task.Priority)})
	_ = table.Append([]string{"Estimated", fmt.Sprintf("%d mins / intensity %d", task.EstimatedMins, task.EstimatedIntensity)})

	if task.ActualMins != nil || task.ActualIntensity != nil {
		_ = table.Append([]string{"Actual", formatActuals(task)})
	}
	if task.ProjectID != "" {
		_ = table.Append([]string{"Project", task.ProjectID})
	}
	if task.DueDate != nil {
		_ = table.Append([]string{"Due", task.DueDate.Format("2006-01-02")})
	}
	if task.CompletedAt != nil {
		_ = table.Append([]string{"Completed", task.CompletedAt.Format("2006-01-02 15:04")})
	}

	_ = table.Append([]string{"Created", task.CreatedAt.Format("2006-01-02 15:04")})
	_ = table.Append([]string{"Updated", task.UpdatedAt.Format("2006-01-02 15:04")})

	return table.Render()
}

// FormatTaskList formats multiple tasks as a table
func (f *TableFormatter) FormatTaskList(tasks []*entities.Task) error {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No tasks found.")
		return nil
	}

	table := tablewriter.NewWriter(f.writer)
	table.Header("#", "ID", "Title", "Status", "Priority", "Est", "Created")

	for i, task := range tasks {
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			truncateID(task.ID),
			truncateText(task.Title, 50),
			string(task.Status),
			string(task.Priority),
			fmt.Sprintf("%dm/i%d", task.EstimatedMins, task.EstimatedIntensity),
			task.CreatedAt.Format("01/02"),
		})
	}

	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(f.writer, "\nTotal: %d tasks\n", len(tasks))
	return nil
}

// FormatSessions formats time sessions as a table
func (f *TableFormatter) FormatSessions(sessions []*entities.TimeSession) error {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No sessions recorded.")
		return nil
	}

	table := tablewriter.NewWriter(f.writer)
	table.Header("ID", "Started", "Ended", "Duration", "Active")

	for _, session := range sessions {
		ended := "-"
		if session.EndTime != nil {
			ended = session.EndTime.Format("2006-01-02 15:04")
		}
		_ = table.Append([]string{
			truncateID(session.ID),
			session.StartTime.Format("2006-01-02 15:04"),
			ended,
			formatDuration(session.ElapsedSeconds(time.Now())),
			strconv.FormatBool(session.IsActive),
		})
	}

	return table.Render()
}

// FormatStats formats task statistics as a table
func (f *TableFormatter) FormatStats(stats *ports.TaskStats) error {
	table := tablewriter.NewWriter(f.writer)
	table.Header("Metric", "Value")

	_ = table.Append([]string{"Total Tasks", strconv.Itoa(stats.TotalTasks)})
	_ = table.Append([]string{"Todo", strconv.Itoa(stats.TodoTasks)})
	_ = table.Append([]string{"In Progress", strconv.Itoa(stats.InProgressTasks)})
	_ = table.Append([]string{"Done", strconv.Itoa(stats.DoneTasks)})
	_ = table.Append([]string{"Archived", strconv.Itoa(stats.ArchivedTasks)})

	if stats.LastActivity != "" {
		_ = table.Append([]string{"Last Activity", stats.LastActivity})
	}

	return table.Render()
}

// FormatReport renders a productivity report with a styled summary, the
// per-bucket table and the insight list.
func (f *TableFormatter) FormatReport(report *entities.Report) error {
	title := fmt.Sprintf("Productivity report (%s buckets) %s to %s",
		report.Granularity,
		report.Period.Start.Format("2006-01-02"),
		report.Period.End.Format("2006-01-02"))
	_, _ = fmt.Fprintln(f.writer, headingStyle.Render(title))

	totals := report.Totals
	_, _ = fmt.Fprintf(f.writer, "Score: %d/100  Trend: %s\n",
		totals.ProductivityScore, styleTrend(report.Trend))
	_, _ = fmt.Fprintf(f.writer, "Completed: %d of %d (%.0f%%)  Hours: %.1f\n",
		totals.CompletedTasks, totals.TotalTasks, totals.CompletionRate, totals.TotalHours)
	_, _ = fmt.Fprintf(f.writer, "Time accuracy: %.1f%%  Intensity accuracy: %.1f%%  Consistency: %.2f\n\n",
		totals.AvgTimeAccuracy, totals.AvgIntensityAccuracy, totals.Consistency)

	table := tablewriter.NewWriter(f.writer)
	table.Header("Bucket", "Done", "Minutes", "Time Acc", "Intensity Acc")
	for _, bucket := range report.Buckets {
		_ = table.Append([]string{
			bucket.Period.Start.Format("2006-01-02"),
			strconv.Itoa(bucket.CompletedTasks),
			strconv.Itoa(bucket.TotalMinutes),
			fmt.Sprintf("%.1f%%", bucket.TimeAccuracy),
			fmt.Sprintf("%.1f%%", bucket.IntensityAccuracy),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(f.writer)
	for _, insight := range report.Insights {
		_, _ = fmt.Fprintf(f.writer, "%s %s\n", insightStyle.Render("*"), insight)
	}
	return nil
}

// FormatError formats an error message
func (f *TableFormatter) FormatError(err error) error {
	_, _ = fmt.Fprintf(f.writer, "Error: %s\n", err.Error())
	return nil
}

// FormatMessage prints a plain informational message
func (f *TableFormatter) FormatMessage(message string) error {
	_, _ = fmt.Fprintln(f.writer, message)
	return nil
}

func styleTrend(trend entities.TrendDirection) string {
	switch trend {
	case entities.TrendUp:
		return trendUpStyle.Render("up")
	case entities.TrendDown:
		return trendDownStyle.Render("down")
	default:
		return "stable"
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	writer io.Writer
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer, pretty bool) OutputFormatter {
	return &JSONFormatter{writer: w, pretty: pretty}
}

func (f *JSONFormatter) marshal(value interface{}) error {
	var data []byte
	var err error

	if f.pretty {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, _ = fmt.Fprintln(f.writer, string(data))
	return nil
}

// FormatTask formats a single task as JSON
func (f *JSONFormatter) FormatTask(task *entities.Task) error {
	return f.marshal(task)
}

// FormatTaskList formats multiple tasks as JSON
func (f *JSONFormatter) FormatTaskList(tasks []*entities.Task) error {
	return f.marshal(map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// FormatSessions formats sessions as JSON
func (f *JSONFormatter) FormatSessions(sessions []*entities.TimeSession) error {
	return f.marshal(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// FormatStats formats statistics as JSON
func (f *JSONFormatter) FormatStats(stats *ports.TaskStats) error {
	return f.marshal(stats)
}

// FormatReport formats a report as JSON
func (f *JSONFormatter) FormatReport(report *entities.Report) error {
	return f.marshal(report)
}

// FormatError formats an error as JSON
func (f *JSONFormatter) FormatError(err error) error {
	return f.marshal(map[string]string{"error": err.Error()})
}

// FormatMessage formats a message as JSON
func (f *JSONFormatter) FormatMessage(message string) error {
	return f.marshal(map[string]string{"message": message})
}

// PlainFormatter formats output as plain text
type PlainFormatter struct {
	writer io.Writer
}

// NewPlainFormatter creates a new plain text formatter
func NewPlainFormatter(w io.Writer) OutputFormatter {
	return &PlainFormatter{writer: w}
}

// FormatTask formats a single task as plain text
func (f *PlainFormatter) FormatTask(task *entities.Task) error {
	_, _ = fmt.Fprintf(f.writer, "[%s] %s\n", truncateID(task.ID), task.Title)
	_, _ = fmt.Fprintf(f.writer, "Status: %s | Priority: %s | Estimated: %dm intensity %d\n",
		task.Status, task.Priority, task.EstimatedMins, task.EstimatedIntensity)

	if task.ActualMins != nil || task.ActualIntensity != nil {
		_, _ = fmt.Fprintf(f.writer, "Actual: %s\n", formatActuals(task))
	}

	_, _ = fmt.Fprintf(f.writer, "Created: %s | Updated: %s\n",
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339))
	return nil
}

// FormatTaskList formats multiple tasks as plain text
func (f *PlainFormatter) FormatTaskList(tasks []*entities.Task) error {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No tasks found.")
		return nil
	}

	for i, task := range tasks {
		_, _ = fmt.Fprintf(f.writer, "%d. [%s] %s (%s/%s)\n",
			i+1,
			truncateID(task.ID),
			truncateText(task.Title, 60),
			task.Status,
			task.Priority)
	}
	return nil
}

// FormatSessions formats sessions as plain text
func (f *PlainFormatter) FormatSessions(sessions []*entities.TimeSession) error {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No sessions recorded.")
		return nil
	}

	for _, session := range sessions {
		state := "closed"
		if session.IsActive {
			state = "active"
		}
		_, _ = fmt.Fprintf(f.writer, "[%s] %s %s (%s)\n",
			truncateID(session.ID),
			session.StartTime.Format(time.RFC3339),
			formatDuration(session.ElapsedSeconds(time.Now())),
			state)
	}
	return nil
}

// FormatStats formats statistics as plain text
func (f *PlainFormatter) FormatStats(stats *ports.TaskStats) error {
	_, _ = fmt.Fprintf(f.writer, "Total: %d | Todo: %d | In progress: %d | Done: %d | Archived: %d\n",
		stats.TotalTasks, stats.TodoTasks, stats.InProgressTasks, stats.DoneTasks, stats.ArchivedTasks)
	return nil
}

// FormatReport formats a report as plain text
func (f *PlainFormatter) FormatReport(report *entities.Report) error {
	totals := report.Totals
	_, _ = fmt.Fprintf(f.writer, "Score %d/100, trend %s, %d of %d tasks completed (%.0f%%)\n",
		totals.ProductivityScore, report.Trend,
		totals.CompletedTasks, totals.TotalTasks, totals.CompletionRate)
	for _, insight := range report.Insights {
		_, _ = fmt.Fprintf(f.writer, "- %s\n", insight)
	}
	return nil
}

// FormatError formats an error as plain text
func (f *PlainFormatter) FormatError(err error) error {
	_, _ = fmt.Fprintf(f.writer, "Error: %s\n", err.Error())
	return nil
}

// FormatMessage prints a plain informational message
func (f *PlainFormatter) FormatMessage(message string) error {
	_, _ = fmt.Fprintln(f.writer, message)
	return nil
}

// Helpers

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}

func formatActuals(task *entities.Task) string {
	mins := "-"
	if task.ActualMins != nil {
		mins = fmt.Sprintf("%d mins", *task.ActualMins)
	}
	intensity := "-"
	if task.ActualIntensity != nil {
		intensity = fmt.Sprintf("intensity %d", *task.ActualIntensity)
	}
	return mins + " / " + intensity
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%dm", seconds/3600, (seconds%3600)/60)
}
