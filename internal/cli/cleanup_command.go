package cli

import (
	"context"
	"fmt"

	"time-reconciler/internal/api"
	"time-reconciler/internal/domain"
)

// CleanupCommand handles the cleanup command
type CleanupCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewCleanupCommand creates a new cleanup command handler
func NewCleanupCommand(app *App) *CleanupCommand {
	return &CleanupCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the cleanup command. Without --apply it only reports; with
// --apply each suggested fix is executed in turn.
func (c *CleanupCommand) Execute(ctx context.Context, args []string, apply bool) error {
	start, end, _, err := windowFromArgs(args, "1d")
	if err != nil {
		return c.errorHandler.Handle("run cleanup", err)
	}

	defects, err := c.api.DetectDefects(ctx, start, end)
	if err != nil {
		return c.errorHandler.Handle("run cleanup", err)
	}

	if len(defects) == 0 {
		fmt.Printf("No defects between %s and %s\n", c.app.formatTime(start), c.app.formatTime(end))
		return nil
	}

	fmt.Printf("Found %d defect(s) between %s and %s:\n",
		len(defects), c.app.formatTime(start), c.app.formatTime(end))
	for i, defect := range defects {
		fmt.Printf("%d. %s: %s (%s)\n", i+1, defect.Ref, defect.Kind, c.describeFix(defect))
	}

	if !apply {
		fmt.Println("\nRun with --apply to execute the suggested fixes.")
		return nil
	}

	applied := 0
	for _, defect := range defects {
		if err := c.api.ApplyFix(ctx, defect); err != nil {
			return c.errorHandler.Handle(fmt.Sprintf("fix %s", defect.Ref), err)
		}
		applied++
	}
	fmt.Printf("\nApplied %d fix(es).\n", applied)
	return nil
}

func (c *CleanupCommand) describeFix(defect domain.Defect) string {
	switch defect.Fix.Action {
	case domain.FixRepair:
		if defect.Fix.RepairEnd != nil {
			return fmt.Sprintf("repair: set end to %s", c.app.formatTime(*defect.Fix.RepairEnd))
		}
		return "repair"
	case domain.FixDelete:
		return "delete"
	default:
		return string(defect.Fix.Action)
	}
}
