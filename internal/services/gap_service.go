package services

import (
	"sort"
	"time"

	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
	"time-reconciler/internal/errors"
)

// gapServiceImpl implements the GapService interface
type gapServiceImpl struct {
	config *config.Config
}

// NewGapService creates a new GapService instance
func NewGapService(cfg *config.Config) GapService {
	return &gapServiceImpl{config: cfg}
}

// DetectGaps reports untracked spans using the configured minimum gap duration
func (g *gapServiceImpl) DetectGaps(intervals []domain.ActivityInterval, window domain.Window) ([]domain.TimeGap, error) {
	return g.DetectGapsWithMinimum(intervals, window, g.config.Detection.MinGapDuration)
}

// DetectGapsWithMinimum computes the complement of the union of busy intervals
// within the window. All interval arithmetic is half-open [start, end), so an
// interval ending exactly where the next one starts is contiguous, not a gap.
func (g *gapServiceImpl) DetectGapsWithMinimum(intervals []domain.ActivityInterval, window domain.Window, minGap time.Duration) ([]domain.TimeGap, error) {
	if !window.IsValid() {
		return nil, errors.NewInvalidWindowError(window.Start, window.End)
	}

	busy := clipToWindow(intervals, window)

	sort.Slice(busy, func(i, j int) bool {
		if !busy[i].Start.Equal(busy[j].Start) {
			return busy[i].Start.Before(busy[j].Start)
		}
		return busy[i].End.Before(busy[j].End)
	})

	// Sweep left to right: cursor marks the end of the merged busy run so
	// far; any space before the next interval's start is untracked.
	gaps := []domain.TimeGap{}
	cursor := window.Start

	for _, span := range busy {
		if span.Start.After(cursor) {
			emitGap(&gaps, cursor, span.Start, minGap)
		}
		if span.End.After(cursor) {
			cursor = span.End
		}
	}

	if cursor.Before(window.End) {
		emitGap(&gaps, cursor, window.End, minGap)
	}

	return gaps, nil
}

// busySpan is a closed interval clipped to the query window.
type busySpan struct {
	Start time.Time
	End   time.Time
}

// clipToWindow filters to closed, non-degenerate intervals intersecting the
// window and clips them to its bounds. Open and degenerate intervals never
// contribute busy time.
func clipToWindow(intervals []domain.ActivityInterval, window domain.Window) []busySpan {
	var spans []busySpan
	for _, interval := range intervals {
		if !interval.IsClosed() || interval.IsDegenerate() || !interval.IsValid() {
			continue
		}
		if !interval.End.After(window.Start) || !interval.Start.Before(window.End) {
			continue
		}

		start := interval.Start
		if start.Before(window.Start) {
			start = window.Start
		}
		end := *interval.End
		if end.After(window.End) {
			end = window.End
		}
		if !start.Before(end) {
			continue
		}

		spans = append(spans, busySpan{Start: start, End: end})
	}
	return spans
}

func emitGap(gaps *[]domain.TimeGap, start, end time.Time, minGap time.Duration) {
	if end.Sub(start) >= minGap {
		*gaps = append(*gaps, domain.TimeGap{Start: start, End: end})
	}
}
