package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tempo-tracker/internal/domain/entities"
)

// createReportCommand creates the 'report' command
func (c *CLI) createReportCommand() *cobra.Command {
	var (
		granularity string
		from        string
		to          string
		lastDays    int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a productivity report",
		Long: `Generate a productivity report over a time window, bucketed by day,
week or month. The report includes completion and accuracy metrics, a trend
against the preceding window, and derived insights.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := resolvePeriod(from, to, lastDays)
			if err != nil {
				return c.handleError(cmd, err)
			}

			if !entities.IsValidGranularity(granularity) {
				return c.handleError(cmd,
					fmt.Errorf("invalid granularity: %s (valid: day, week, month)", granularity))
			}

			report, err := c.reportService.GenerateReport(c.getContext(), period,
				entities.Granularity(granularity))
			if err != nil {
				return c.handleError(cmd, err)
			}

			formatter := c.getOutputFormatter(cmd)
			return formatter.FormatReport(report)
		},
	}

	cmd.Flags().StringVarP(&granularity, "granularity", "g", "day", "Bucket size (day, week, month)")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Window end, exclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&lastDays, "last", 7, "Report over the last N days (ignored when --from is set)")

	return cmd
}

// resolvePeriod builds the report window from the flag combination. Without
// --from the window covers the last N whole days up to now.
func resolvePeriod(from, to string, lastDays int) (entities.Period, error) {
	if from == "" {
		if lastDays < 1 {
			return entities.Period{}, fmt.Errorf("--last must be at least 1")
		}
		now := time.Now()
		return entities.Period{Start: now.AddDate(0, 0, -lastDays), End: now}, nil
	}

	start, err := time.ParseInLocation(dueDateLayout, from, time.Local)
	if err != nil {
		return entities.Period{}, fmt.Errorf("invalid --from date: %w", err)
	}

	end := time.Now()
	if to != "" {
		end, err = time.ParseInLocation(dueDateLayout, to, time.Local)
		if err != nil {
			return entities.Period{}, fmt.Errorf("invalid --to date: %w", err)
		}
	}

	period := entities.Period{Start: start, End: end}
	if !period.IsValid() {
		return entities.Period{}, fmt.Errorf("window end must be after start")
	}
	return period, nil
}
