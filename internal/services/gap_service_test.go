package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
	"time-reconciler/internal/errors"
)

// at builds a timestamp on a fixed reference day.
func at(hour, min int) time.Time {
	return time.Date(2024, 3, 15, hour, min, 0, 0, time.UTC)
}

// closed builds a closed interval for tests.
func closed(source domain.SourceType, id int64, start, end time.Time, label string) domain.ActivityInterval {
	return domain.ActivityInterval{
		Ref:   domain.RecordRef{ID: id, Source: source},
		Start: start,
		End:   &end,
		Label: label,
	}
}

// open builds an interval with no end time.
func open(source domain.SourceType, id int64, start time.Time, label string) domain.ActivityInterval {
	return domain.ActivityInterval{
		Ref:   domain.RecordRef{ID: id, Source: source},
		Start: start,
		Label: label,
	}
}

func testConfig() *config.Config {
	return config.NewConfig()
}

func TestGapService_DetectGapsWithMinimum(t *testing.T) {
	window := domain.Window{Start: at(9, 0), End: at(17, 0)}

	tests := []struct {
		name      string
		intervals []domain.ActivityInterval
		minGap    time.Duration
		expected  []domain.TimeGap
	}{
		{
			name: "should report gaps before and after a single interval",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(10, 0), at(11, 0), "standup"),
			},
			expected: []domain.TimeGap{
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(11, 0), End: at(17, 0)},
			},
		},
		{
			name:      "should report the whole window when nothing is tracked",
			intervals: nil,
			expected: []domain.TimeGap{
				{Start: at(9, 0), End: at(17, 0)},
			},
		},
		{
			name: "should not report a gap between contiguous intervals",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(9, 0), at(12, 0), "morning"),
				closed(domain.SourceManual, 2, at(12, 0), at(17, 0), "afternoon"),
			},
			expected: []domain.TimeGap{},
		},
		{
			name: "should coalesce overlapping intervals into one busy run",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(9, 0), at(11, 0), "a"),
				closed(domain.SourceAutomatic, 2, at(10, 0), at(12, 0), "b"),
			},
			expected: []domain.TimeGap{
				{Start: at(12, 0), End: at(17, 0)},
			},
		},
		{
			name: "should handle an interval fully containing another",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(9, 0), at(16, 0), "outer"),
				closed(domain.SourceManual, 2, at(10, 0), at(11, 0), "inner"),
			},
			expected: []domain.TimeGap{
				{Start: at(16, 0), End: at(17, 0)},
			},
		},
		{
			name: "should clip intervals extending beyond the window",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceAutomatic, 1, at(7, 0), at(10, 0), "early"),
				closed(domain.SourceAutomatic, 2, at(16, 0), at(19, 0), "late"),
			},
			expected: []domain.TimeGap{
				{Start: at(10, 0), End: at(16, 0)},
			},
		},
		{
			name: "should ignore open and degenerate intervals",
			intervals: []domain.ActivityInterval{
				open(domain.SourcePomodoro, 1, at(10, 0), "running"),
				closed(domain.SourceManual, 2, at(11, 0), at(11, 0), "instant"),
			},
			expected: []domain.TimeGap{
				{Start: at(9, 0), End: at(17, 0)},
			},
		},
		{
			name: "should ignore intervals entirely outside the window",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(6, 0), at(8, 0), "before"),
				closed(domain.SourceManual, 2, at(18, 0), at(20, 0), "after"),
				closed(domain.SourceManual, 3, at(9, 0), at(17, 0), "covers all"),
			},
			expected: []domain.TimeGap{},
		},
		{
			name: "should drop gaps shorter than the minimum",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(9, 0), at(12, 50), "a"),
				closed(domain.SourceManual, 2, at(13, 0), at(17, 0), "b"),
			},
			minGap: 15 * time.Minute,
			expected: []domain.TimeGap{},
		},
		{
			name: "should keep gaps exactly at the minimum",
			intervals: []domain.ActivityInterval{
				closed(domain.SourceManual, 1, at(9, 0), at(12, 45), "a"),
				closed(domain.SourceManual, 2, at(13, 0), at(17, 0), "b"),
			},
			minGap: 15 * time.Minute,
			expected: []domain.TimeGap{
				{Start: at(12, 45), End: at(13, 0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewGapService(testConfig())

			gaps, err := service.DetectGapsWithMinimum(tt.intervals, window, tt.minGap)

			require.NoError(t, err)
			require.NotNil(t, gaps)
			assert.Equal(t, tt.expected, gaps)
		})
	}
}

func TestGapService_DetectGaps_UsesConfiguredMinimum(t *testing.T) {
	cfg := testConfig()
	cfg.Detection.MinGapDuration = 30 * time.Minute
	service := NewGapService(cfg)
	window := domain.Window{Start: at(9, 0), End: at(10, 0)}

	// Two intervals separated by 20 minutes, below the configured minimum
	gaps, err := service.DetectGaps([]domain.ActivityInterval{
		closed(domain.SourceManual, 1, at(9, 0), at(9, 20), "a"),
		closed(domain.SourceManual, 2, at(9, 40), at(10, 0), "b"),
	}, window)

	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestGapService_DetectGaps_InvalidWindow(t *testing.T) {
	service := NewGapService(testConfig())

	tests := []struct {
		name   string
		window domain.Window
	}{
		{name: "should reject an inverted window", window: domain.Window{Start: at(17, 0), End: at(9, 0)}},
		{name: "should reject an empty window", window: domain.Window{Start: at(9, 0), End: at(9, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps, err := service.DetectGaps(nil, tt.window)

			assert.Nil(t, gaps)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidWindow))
		})
	}
}

func TestGapService_DetectGaps_Deterministic(t *testing.T) {
	service := NewGapService(testConfig())
	window := domain.Window{Start: at(9, 0), End: at(17, 0)}

	intervals := []domain.ActivityInterval{
		closed(domain.SourceAutomatic, 2, at(12, 0), at(13, 0), "b"),
		closed(domain.SourceManual, 1, at(10, 0), at(11, 0), "a"),
	}
	reversed := []domain.ActivityInterval{intervals[1], intervals[0]}

	first, err := service.DetectGapsWithMinimum(intervals, window, 0)
	require.NoError(t, err)
	second, err := service.DetectGapsWithMinimum(reversed, window, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
