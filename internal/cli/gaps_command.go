package cli

import (
	"context"
	"fmt"

	"time-reconciler/internal/api"
)

// GapsCommand handles the gaps command
type GapsCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewGapsCommand creates a new gaps command handler
func NewGapsCommand(app *App) *GapsCommand {
	return &GapsCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the gaps command
func (c *GapsCommand) Execute(ctx context.Context, args []string) error {
	start, end, _, err := windowFromArgs(args, "1d")
	if err != nil {
		return c.errorHandler.Handle("detect gaps", err)
	}

	gaps, err := c.api.DetectGaps(ctx, start, end)
	if err != nil {
		return c.errorHandler.Handle("detect gaps", err)
	}

	if len(gaps) == 0 {
		fmt.Printf("No gaps of %s or longer between %s and %s\n",
			formatDuration(c.app.config.Detection.MinGapDuration),
			c.app.formatTime(start), c.app.formatTime(end))
		return nil
	}

	fmt.Printf("Found %d gap(s) between %s and %s:\n", len(gaps), c.app.formatTime(start), c.app.formatTime(end))
	for i, gap := range gaps {
		fmt.Printf("%d. %s - %s (%s untracked)\n",
			i+1, c.app.formatTime(gap.Start), c.app.formatTime(gap.End), formatDuration(gap.Duration()))
	}
	return nil
}
