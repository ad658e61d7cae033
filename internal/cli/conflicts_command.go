package cli

import (
	"context"
	"fmt"

	"time-reconciler/internal/api"
)

// ConflictsCommand handles the conflicts command
type ConflictsCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewConflictsCommand creates a new conflicts command handler
func NewConflictsCommand(app *App) *ConflictsCommand {
	return &ConflictsCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the conflicts command
func (c *ConflictsCommand) Execute(ctx context.Context, args []string) error {
	start, end, _, err := windowFromArgs(args, "1d")
	if err != nil {
		return c.errorHandler.Handle("detect conflicts", err)
	}

	groups, err := c.api.DetectConflicts(ctx, start, end)
	if err != nil {
		return c.errorHandler.Handle("detect conflicts", err)
	}

	if len(groups) == 0 {
		fmt.Printf("No conflicts between %s and %s\n", c.app.formatTime(start), c.app.formatTime(end))
		return nil
	}

	fmt.Printf("Found %d conflict group(s) between %s and %s:\n\n",
		len(groups), c.app.formatTime(start), c.app.formatTime(end))

	for i, group := range groups {
		fmt.Printf("Group %d [%s, %s severity]:\n", i+1, group.Type, group.Severity)
		for _, interval := range group.Intervals {
			fmt.Printf("  %s\n", c.app.describeInterval(interval))
		}
		for _, pair := range group.Pairs {
			fmt.Printf("  %s <-> %s: %.0f%% overlap (%s)\n",
				pair.A, pair.B, pair.OverlapRatio*100, pair.Type)
		}
		fmt.Println()
	}
	return nil
}
