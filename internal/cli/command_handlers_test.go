package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-reconciler/internal/domain"
	"time-reconciler/internal/errors"
)

func cliTime(hour, min int) time.Time {
	return time.Date(2024, 3, 15, hour, min, 0, 0, time.UTC)
}

func TestGapsCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reports detected gaps", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.gaps = []domain.TimeGap{
			{Start: cliTime(12, 0), End: cliTime(13, 0)},
		}

		err := NewGapsCommand(app).Execute(ctx, []string{"8h"})
		assert.NoError(t, err)
	})

	t.Run("handles an empty result", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewGapsCommand(app).Execute(ctx, nil)
		assert.NoError(t, err)
	})

	t.Run("treats a non-shorthand argument as the default window", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewGapsCommand(app).Execute(ctx, []string{"not-a-duration"})
		assert.NoError(t, err)
	})

	t.Run("surfaces a user-friendly message on stale data", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.err = errors.NewStaleConflictError("manual", 3)

		err := NewGapsCommand(app).Execute(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "detect gaps")
	})
}

func TestConflictsCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reports conflict groups", func(t *testing.T) {
		app, mock := setupTestApp(t)
		end1 := cliTime(11, 0)
		end2 := cliTime(11, 30)
		mock.conflicts = []domain.ConflictGroup{
			{
				Intervals: []domain.ActivityInterval{
					{Ref: domain.RecordRef{ID: 1, Source: domain.SourceManual}, Start: cliTime(10, 0), End: &end1, Label: "a"},
					{Ref: domain.RecordRef{ID: 2, Source: domain.SourceAutomatic}, Start: cliTime(10, 30), End: &end2, Label: "b"},
				},
				Pairs: []domain.ConflictPair{
					{
						A:            domain.RecordRef{ID: 1, Source: domain.SourceManual},
						B:            domain.RecordRef{ID: 2, Source: domain.SourceAutomatic},
						OverlapRatio: 0.5,
						Type:         domain.ConflictOverlap,
						Severity:     domain.SeverityMedium,
					},
				},
				Type:     domain.ConflictOverlap,
				Severity: domain.SeverityMedium,
			},
		}

		err := NewConflictsCommand(app).Execute(ctx, []string{"1d"})
		assert.NoError(t, err)
	})

	t.Run("handles an empty result", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewConflictsCommand(app).Execute(ctx, nil)
		assert.NoError(t, err)
	})
}

func TestMergeCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("merges records with the default strategy", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "automatic:2"}, "longest", "")

		require.NoError(t, err)
		assert.Equal(t, []domain.RecordRef{
			{ID: 1, Source: domain.SourceManual},
			{ID: 2, Source: domain.SourceAutomatic},
		}, mock.mergeRefs)
		assert.Equal(t, domain.StrategyLongest, mock.mergeStrategy)
		assert.Nil(t, mock.mergeChosen)
	})

	t.Run("passes the chosen survivor for manual selection", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "manual:2"}, "manual", "manual:2")

		require.NoError(t, err)
		assert.Equal(t, domain.StrategyManualSelection, mock.mergeStrategy)
		require.NotNil(t, mock.mergeChosen)
		assert.Equal(t, domain.RecordRef{ID: 2, Source: domain.SourceManual}, *mock.mergeChosen)
	})

	t.Run("rejects manual selection without a kept record", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "manual:2"}, "manual", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--keep")
		assert.Nil(t, mock.mergeRefs)
	})

	t.Run("rejects malformed references", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "bogus"}, "longest", "")

		require.Error(t, err)
		assert.Nil(t, mock.mergeRefs)
	})

	t.Run("rejects an unknown strategy", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "manual:2"}, "newest", "")

		require.Error(t, err)
		assert.Nil(t, mock.mergeRefs)
	})

	t.Run("surfaces stale conflicts from the engine", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.err = errors.NewStaleConflictError("manual", 2)

		err := NewMergeCommand(app).Execute(ctx, []string{"manual:1", "manual:2"}, "longest", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Re-run detection")
	})
}

func TestCleanupCommand_Execute(t *testing.T) {
	ctx := context.Background()
	end := cliTime(14, 25)
	defects := []domain.Defect{
		{
			Ref:  domain.RecordRef{ID: 1, Source: domain.SourcePomodoro},
			Kind: domain.DefectMissingEnd,
			Fix:  domain.SuggestedFix{Action: domain.FixRepair, RepairEnd: &end},
		},
		{
			Ref:  domain.RecordRef{ID: 2, Source: domain.SourceManual},
			Kind: domain.DefectZeroDuration,
			Fix:  domain.SuggestedFix{Action: domain.FixDelete},
		},
	}

	t.Run("reports without applying by default", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.defects = defects

		err := NewCleanupCommand(app).Execute(ctx, []string{"1w"}, false)

		require.NoError(t, err)
		assert.Empty(t, mock.appliedFixes)
	})

	t.Run("applies every suggested fix with --apply", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.defects = defects

		err := NewCleanupCommand(app).Execute(ctx, []string{"1w"}, true)

		require.NoError(t, err)
		require.Len(t, mock.appliedFixes, 2)
		assert.Equal(t, defects[0].Ref, mock.appliedFixes[0].Ref)
		assert.Equal(t, defects[1].Ref, mock.appliedFixes[1].Ref)
	})

	t.Run("handles a clean window", func(t *testing.T) {
		app, mock := setupTestApp(t)

		err := NewCleanupCommand(app).Execute(ctx, nil, true)

		require.NoError(t, err)
		assert.Empty(t, mock.appliedFixes)
	})
}

func TestFillCommand_Execute_NoGaps(t *testing.T) {
	app, mock := setupTestApp(t)

	err := NewFillCommand(app).Execute(context.Background(), []string{"1d", "lunch"})

	require.NoError(t, err)
	assert.Nil(t, mock.filledGap)
}

func TestReportCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("prints a full report", func(t *testing.T) {
		app, mock := setupTestApp(t)
		mock.gaps = []domain.TimeGap{{Start: cliTime(12, 0), End: cliTime(13, 0)}}
		mock.defects = []domain.Defect{
			{Ref: domain.RecordRef{ID: 1, Source: domain.SourceManual}, Kind: domain.DefectZeroDuration},
		}

		err := NewReportCommand(app).Execute(ctx, []string{"1d"})
		assert.NoError(t, err)
	})

	t.Run("handles an empty report", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewReportCommand(app).Execute(ctx, nil)
		assert.NoError(t, err)
	})
}

func TestParseTimeShorthand(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{input: "30m", expected: 30 * time.Minute},
		{input: "2h", expected: 2 * time.Hour},
		{input: "1d", expected: 24 * time.Hour},
		{input: "2w", expected: 14 * 24 * time.Hour},
		{input: "3mo", expected: 90 * 24 * time.Hour},
		{input: "1y", expected: 365 * 24 * time.Hour},
		{input: "bogus", wantErr: true},
		{input: "", wantErr: true},
		{input: "h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			duration, err := parseTimeShorthand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, duration)
			}
		})
	}
}

func TestWindowFromArgs(t *testing.T) {
	fixed := cliTime(17, 0)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	t.Run("uses the leading shorthand", func(t *testing.T) {
		start, end, rest, err := windowFromArgs([]string{"2h", "lunch", "break"}, "1d")

		require.NoError(t, err)
		assert.True(t, end.Equal(fixed))
		assert.True(t, start.Equal(fixed.Add(-2*time.Hour)))
		assert.Equal(t, []string{"lunch", "break"}, rest)
	})

	t.Run("falls back to the default range", func(t *testing.T) {
		start, end, rest, err := windowFromArgs([]string{"lunch"}, "1d")

		require.NoError(t, err)
		assert.True(t, end.Equal(fixed))
		assert.True(t, start.Equal(fixed.Add(-24*time.Hour)))
		assert.Equal(t, []string{"lunch"}, rest)
	})

	t.Run("rejects an invalid default", func(t *testing.T) {
		_, _, _, err := windowFromArgs(nil, "bogus")
		assert.Error(t, err)
	})
}
