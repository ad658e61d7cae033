package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"time-reconciler/internal/api"
	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
	"time-reconciler/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries the shared dependencies for all command handlers
type App struct {
	api       api.API
	config    *config.Config
	validator *validation.Validator
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, cfg *config.Config) *App {
	return &App{
		api:       apiInstance,
		config:    cfg,
		validator: validation.NewValidator(),
	}
}

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	re := regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)
	matches := re.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	unit := matches[2]
	var duration time.Duration

	switch unit {
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "w":
		duration = time.Duration(value) * 7 * 24 * time.Hour
	case "mo":
		duration = time.Duration(value) * 30 * 24 * time.Hour
	case "y":
		duration = time.Duration(value) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid time unit: %s", unit)
	}

	return duration, nil
}

// windowFromArgs resolves a detection window from the leading argument.
// A shorthand like "2h" means "the last 2 hours"; no shorthand means the
// last day. Remaining arguments are returned untouched.
func windowFromArgs(args []string, defaultRange string) (start, end time.Time, rest []string, err error) {
	rangeArg := defaultRange
	rest = args

	if len(args) > 0 {
		if _, parseErr := parseTimeShorthand(args[0]); parseErr == nil {
			rangeArg = args[0]
			rest = args[1:]
		}
	}

	duration, err := parseTimeShorthand(rangeArg)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}

	end = timeNow()
	start = end.Add(-duration)
	return start, end, rest, nil
}

// formatTime renders a timestamp per the display configuration
func (a *App) formatTime(t time.Time) string {
	if a.config != nil && a.config.Display.DateOnly {
		return t.Format("2006-01-02")
	}
	format := "2006-01-02 15:04:05"
	if a.config != nil && a.config.Display.TimeFormat != "" {
		format = a.config.Display.TimeFormat
	}
	return t.Format(format)
}

// formatDuration renders a duration as "XhYm"
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// describeInterval renders one interval as "source:id start - end: label"
func (a *App) describeInterval(interval domain.ActivityInterval) string {
	endStr := "open"
	if interval.End != nil {
		endStr = a.formatTime(*interval.End)
	}
	label := interval.Label
	if strings.TrimSpace(label) == "" {
		label = "(unlabeled)"
	}
	return fmt.Sprintf("%s  %s - %s: %s", interval.Ref, a.formatTime(interval.Start), endStr, label)
}
