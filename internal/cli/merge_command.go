package cli

import (
	"context"
	"fmt"

	"time-reconciler/internal/api"
	"time-reconciler/internal/domain"
)

// MergeCommand handles the merge command
type MergeCommand struct {
	api          api.API
	app          *App
	errorHandler *ErrorHandler
}

// NewMergeCommand creates a new merge command handler
func NewMergeCommand(app *App) *MergeCommand {
	return &MergeCommand{api: app.api, app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the merge command. Args are record references in source:id
// form; strategyArg and keepArg come from the command flags.
func (c *MergeCommand) Execute(ctx context.Context, args []string, strategyArg, keepArg string) error {
	refs, err := c.app.validator.ParseRecordRefs(args)
	if err != nil {
		return c.errorHandler.Handle("merge records", err)
	}

	strategy, err := c.app.validator.ParseMergeStrategy(strategyArg)
	if err != nil {
		return c.errorHandler.Handle("merge records", err)
	}

	var chosen *domain.RecordRef
	if keepArg != "" {
		keep, err := c.app.validator.ParseRecordRef(keepArg)
		if err != nil {
			return c.errorHandler.Handle("merge records", err)
		}
		chosen = &keep
	}

	if strategy == domain.StrategyManualSelection && chosen == nil {
		return fmt.Errorf("failed to merge records: the %s strategy requires --keep", strategy)
	}

	decision, err := c.api.MergeRecords(ctx, refs, strategy, chosen)
	if err != nil {
		return c.errorHandler.Handle("merge records", err)
	}

	fmt.Printf("Merged %d record(s) using the %s strategy (plan %s)\n",
		len(decision.Discard)+1, decision.Strategy, decision.PlanID)
	fmt.Printf("Kept: %s\n", c.app.describeInterval(decision.Survivor))
	if decision.SurvivorChanged {
		fmt.Println("The surviving record was widened to cover the full group span.")
	}
	for _, ref := range decision.Discard {
		fmt.Printf("Removed: %s\n", ref)
	}
	return nil
}
