package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"time-reconciler/internal/api"
	"time-reconciler/internal/config"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	api    api.API
	config *config.Config
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(apiInstance api.API, cfg *config.Config) *RootCommand {
	root := &RootCommand{
		api:    apiInstance,
		config: cfg,
	}

	root.cmd = &cobra.Command{
		Use:   "ttr",
		Short: "A command-line time-tracking reconciliation tool",
		Long: `Time Reconciler (ttr) inspects time-tracking records gathered from manual
entries, automatic app-usage capture, and pomodoro sessions, and reports the
places where they disagree.

FEATURES:
  • Detect untracked gaps within a time window
  • Detect overlapping and duplicate records across all sources
  • Merge conflicting records with a chosen survivor strategy
  • Validate records and repair or delete structurally broken ones
  • Fill detected gaps with manual entries
  • Fully configurable via environment variables and command-line flags

EXAMPLES:
  ttr gaps 8h                               # Untracked gaps in the last 8 hours
  ttr conflicts 1d                          # Conflict groups from the last day
  ttr merge manual:3 automatic:7            # Merge two records, keep the longest
  ttr merge --strategy earliest manual:3 pomodoro:2
  ttr merge --strategy manual --keep manual:3 manual:3 automatic:7
  ttr cleanup 1w --apply                    # Fix broken records from the last week
  ttr fill 1d                               # Fill a gap with a manual entry (interactive)
  ttr report 1d                             # Everything one scan found

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > defaults

  Database Configuration:
    TTR_DB_DIR                              Database directory (default: ~/.ttr)
    TTR_DB_FILENAME                         Database filename (default: ttr.db)
    TTR_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    TTR_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Detection Configuration:
    TTR_DETECT_MIN_GAP                      Smallest reported gap (default: 15m)
    TTR_DETECT_DUPLICATE_RATIO              Duplicate overlap ratio (default: 0.95)
    TTR_DETECT_HIGH_SEVERITY_RATIO          High severity cutoff (default: 0.75)
    TTR_DETECT_MEDIUM_SEVERITY_RATIO        Medium severity cutoff (default: 0.25)
    TTR_DETECT_LABEL_SIMILARITY             Duplicate label similarity (default: 0.8)
    TTR_DETECT_REPAIR_SESSION_LENGTH        Repaired session length (default: 25m)

  Display Configuration:
    TTR_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04:05)
    TTR_DISPLAY_DATE_ONLY                   Show date only (default: false)

  Application Configuration:
    TTR_APP_TIMEOUT                         Application timeout (default: 60s)
    TTR_APP_VERBOSE                         Enable verbose output (default: false)

TIME FORMATS:
  Use these shorthand formats for the window argument:
    30m, 2h, 1d, 2w, 3mo, 1y              # Minutes, hours, days, weeks, months, years

GETTING HELP:
  ttr [command] --help                      # Get help for any specific command`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.getConfigFromFlags()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TTR_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TTR_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TTR_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TTR_DB_WRITE_TIMEOUT)")

	// Detection configuration
	flags.Duration("min-gap", 0, "Smallest reported gap (overrides TTR_DETECT_MIN_GAP)")
	flags.Float64("duplicate-ratio", 0, "Duplicate overlap ratio (overrides TTR_DETECT_DUPLICATE_RATIO)")
	flags.Float64("label-similarity", 0, "Duplicate label similarity (overrides TTR_DETECT_LABEL_SIMILARITY)")
	flags.Duration("repair-length", 0, "Repaired session length (overrides TTR_DETECT_REPAIR_SESSION_LENGTH)")

	// Display configuration
	flags.String("time-format", "", "Time display format (overrides TTR_TIME_DISPLAY_FORMAT)")
	flags.Bool("date-only", false, "Show date only in displays (overrides TTR_DISPLAY_DATE_ONLY)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides TTR_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TTR_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	gapsCmd := &cobra.Command{
		Use:   "gaps [time]",
		Short: "Report untracked gaps",
		Long: `Report spans of untracked time within a window.

Only gaps at least as long as the configured minimum are reported.

Examples:
  ttr gaps          # Gaps in the last day
  ttr gaps 8h       # Gaps in the last 8 hours`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewGapsCommand(NewApp(r.api, r.config)).Execute(ctx, args)
		},
	}

	conflictsCmd := &cobra.Command{
		Use:   "conflicts [time]",
		Short: "Report overlapping and duplicate records",
		Long: `Report groups of records whose time ranges overlap.

Near-identical records from the same source are flagged as duplicates;
everything else is an overlap. Severity reflects how much of the shorter
record the overlap covers.

Examples:
  ttr conflicts        # Conflicts in the last day
  ttr conflicts 1w     # Conflicts in the last week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewConflictsCommand(NewApp(r.api, r.config)).Execute(ctx, args)
		},
	}

	var mergeStrategy string
	var mergeKeep string
	mergeCmd := &cobra.Command{
		Use:   "merge [source:id]...",
		Short: "Merge conflicting records",
		Long: `Merge two or more records into one surviving record.

Records are named source:id, where source is manual, automatic, or pomodoro.
The merge is atomic: if any record changed since detection, nothing is
modified.

Strategies:
  longest           Keep the record with the greatest duration (default)
  earliest          Keep the earliest record, extended over the group
  latest            Keep the latest-ending record, extended over the group
  manual            Keep the record named by --keep

Examples:
  ttr merge manual:3 automatic:7
  ttr merge --strategy earliest manual:3 pomodoro:2
  ttr merge --strategy manual --keep manual:3 manual:3 automatic:7`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewMergeCommand(NewApp(r.api, r.config)).Execute(ctx, args, mergeStrategy, mergeKeep)
		},
	}
	mergeCmd.Flags().StringVar(&mergeStrategy, "strategy", "longest", "Merge strategy: longest, earliest, latest, manual")
	mergeCmd.Flags().StringVar(&mergeKeep, "keep", "", "Record to keep with the manual strategy (source:id)")

	var cleanupApply bool
	cleanupCmd := &cobra.Command{
		Use:   "cleanup [time]",
		Short: "Find and fix structurally broken records",
		Long: `Validate records within a window and report defects.

Defects include records with negative or zero duration, completed sessions
missing an end time, and manual entries pointing at deleted tasks. Without
--apply the command only reports; with --apply each suggested fix is
executed.

Examples:
  ttr cleanup 1w            # Report defects from the last week
  ttr cleanup 1w --apply    # Fix them`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewCleanupCommand(NewApp(r.api, r.config)).Execute(ctx, args, cleanupApply)
		},
	}
	cleanupCmd.Flags().BoolVar(&cleanupApply, "apply", false, "Execute the suggested fixes")

	fillCmd := &cobra.Command{
		Use:   "fill [time] [task name]",
		Short: "Fill a gap with a manual entry",
		Long: `Fill an untracked gap by creating a manual time entry over it.

Gaps in the window are listed for interactive selection. The task is
created if no task with that name exists.

Examples:
  ttr fill              # Pick a gap from the last day
  ttr fill 8h "standup" # Pick a gap from the last 8 hours, record "standup"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive commands may need longer timeout for user input
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout()*2)
			defer cancel()

			return NewFillCommand(NewApp(r.api, r.config)).Execute(ctx, args)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report [time]",
		Short: "Show everything one scan found",
		Long: `Run every detection pass over one snapshot and print the findings.

Examples:
  ttr report        # Report for the last day
  ttr report 1w     # Report for the last week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
			defer cancel()

			return NewReportCommand(NewApp(r.api, r.config)).Execute(ctx, args)
		},
	}

	r.cmd.AddCommand(
		gapsCmd,
		conflictsCmd,
		mergeCmd,
		cleanupCmd,
		fillCmd,
		reportCmd,
	)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// getConfigFromFlags updates the configuration with values from command-line flags
func (r *RootCommand) getConfigFromFlags() error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := r.cmd.PersistentFlags()

	// Database configuration
	if dbDir, _ := flags.GetString("db-dir"); dbDir != "" {
		r.config.Database.Dir = dbDir
	}
	if dbFilename, _ := flags.GetString("db-filename"); dbFilename != "" {
		r.config.Database.Filename = dbFilename
	}
	if queryTimeout, _ := flags.GetDuration("db-query-timeout"); queryTimeout > 0 {
		r.config.Database.QueryTimeout = queryTimeout
	}
	if writeTimeout, _ := flags.GetDuration("db-write-timeout"); writeTimeout > 0 {
		r.config.Database.WriteTimeout = writeTimeout
	}

	// Detection configuration
	if minGap, _ := flags.GetDuration("min-gap"); minGap > 0 {
		r.config.Detection.MinGapDuration = minGap
	}
	if ratio, _ := flags.GetFloat64("duplicate-ratio"); ratio > 0 {
		r.config.Detection.DuplicateOverlapRatio = ratio
	}
	if similarity, _ := flags.GetFloat64("label-similarity"); similarity > 0 {
		r.config.Detection.LabelSimilarityThreshold = similarity
	}
	if repairLength, _ := flags.GetDuration("repair-length"); repairLength > 0 {
		r.config.Detection.RepairSessionLength = repairLength
	}

	// Display configuration
	if timeFormat, _ := flags.GetString("time-format"); timeFormat != "" {
		r.config.Display.TimeFormat = timeFormat
	}
	if dateOnly, _ := flags.GetBool("date-only"); dateOnly {
		r.config.Display.DateOnly = dateOnly
	}

	// Application configuration
	if appTimeout, _ := flags.GetDuration("app-timeout"); appTimeout > 0 {
		r.config.Application.Timeout = appTimeout
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		r.config.Application.Verbose = verbose
	}

	return nil
}
