package cli

import (
	"context"
	"fmt"

	"time-reconciler/internal/api"
)

// ReportCommand handles the report command
type ReportCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the report command, printing every finding from one scan
func (c *ReportCommand) Execute(ctx context.Context, args []string) error {
	start, end, _, err := windowFromArgs(args, "1d")
	if err != nil {
		return c.errorHandler.Handle("generate report", err)
	}

	report, err := c.api.ScanWindow(ctx, start, end)
	if err != nil {
		return c.errorHandler.Handle("generate report", err)
	}

	fmt.Printf("Reconciliation report for %s - %s\n",
		c.app.formatTime(report.Window.Start), c.app.formatTime(report.Window.End))
	fmt.Printf("Records: %d   Gaps: %d   Conflict groups: %d   Defects: %d   Malformed: %d\n\n",
		len(report.Intervals), len(report.Gaps), len(report.Conflicts),
		len(report.Defects), len(report.Malformed))

	if len(report.Gaps) > 0 {
		fmt.Println("Gaps:")
		for _, gap := range report.Gaps {
			fmt.Printf("  %s - %s (%s)\n",
				c.app.formatTime(gap.Start), c.app.formatTime(gap.End), formatDuration(gap.Duration()))
		}
		fmt.Println()
	}

	if len(report.Conflicts) > 0 {
		fmt.Println("Conflicts:")
		for i, group := range report.Conflicts {
			fmt.Printf("  Group %d [%s, %s severity]: %d records\n",
				i+1, group.Type, group.Severity, len(group.Intervals))
			for _, interval := range group.Intervals {
				fmt.Printf("    %s\n", c.app.describeInterval(interval))
			}
		}
		fmt.Println()
	}

	if len(report.Defects) > 0 {
		fmt.Println("Defects:")
		for _, defect := range report.Defects {
			fmt.Printf("  %s: %s\n", defect.Ref, defect.Kind)
		}
		fmt.Println()
	}

	if len(report.Malformed) > 0 {
		fmt.Println("Malformed records (excluded from detection):")
		for _, m := range report.Malformed {
			fmt.Printf("  %s: %s\n", m.Ref, m.Reason)
		}
	}

	return nil
}
