package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"time-reconciler/internal/api"
	"time-reconciler/internal/errors"
)

// FillCommand handles the fill command
type FillCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewFillCommand creates a new fill command handler
func NewFillCommand(app *App) *FillCommand {
	return &FillCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the fill command. The user picks a gap from the detected
// list, then the remaining arguments name the task to record over it.
func (c *FillCommand) Execute(ctx context.Context, args []string) error {
	start, end, rest, err := windowFromArgs(args, "1d")
	if err != nil {
		return c.errorHandler.Handle("fill gap", err)
	}

	gaps, err := c.api.DetectGaps(ctx, start, end)
	if err != nil {
		return c.errorHandler.Handle("fill gap", err)
	}

	if len(gaps) == 0 {
		fmt.Println("No gaps found to fill.")
		return nil
	}

	fmt.Println("Select a gap to fill:")
	for i, gap := range gaps {
		fmt.Printf("%d. %s - %s (%s)\n",
			i+1, c.app.formatTime(gap.Start), c.app.formatTime(gap.End), formatDuration(gap.Duration()))
	}
	fmt.Print("Enter number to fill, or 'q' to quit: ")

	var input string
	fmt.Fscanln(os.Stdin, &input)
	if input == "q" || input == "Q" {
		fmt.Println("Fill cancelled.")
		return nil
	}
	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(gaps) {
		return errors.NewInvalidInputError("selection", input, "invalid selection")
	}
	selectedGap := gaps[idx-1]

	taskName := strings.Join(rest, " ")
	if strings.TrimSpace(taskName) == "" {
		fmt.Print("Task name: ")
		var line string
		fmt.Fscanln(os.Stdin, &line)
		taskName = line
	}

	interval, err := c.api.FillGap(ctx, selectedGap, taskName)
	if err != nil {
		return c.errorHandler.Handle("fill gap", err)
	}

	fmt.Printf("Filled gap with: %s\n", c.app.describeInterval(*interval))
	return nil
}
