package domain

import (
	"fmt"
	"time"
)

// SourceType identifies which kind of tracking produced an activity record.
// The set is closed: reconciliation logic is otherwise source-agnostic.
type SourceType string

const (
	SourceManual    SourceType = "manual"
	SourceAutomatic SourceType = "automatic"
	SourcePomodoro  SourceType = "pomodoro"
)

// IsValid checks if the source type is one of the known kinds.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceManual, SourceAutomatic, SourcePomodoro:
		return true
	}
	return false
}

// RecordRef identifies an activity record within its source table.
// IDs are only unique per source, so the pair is the engine's identity unit.
type RecordRef struct {
	ID     int64      `json:"id"`
	Source SourceType `json:"source"`
}

// String returns the canonical "source:id" form used by the CLI.
func (r RecordRef) String() string {
	return fmt.Sprintf("%s:%d", r.Source, r.ID)
}

// ActivityInterval is the normalized representation of one tracked activity,
// regardless of which source produced it.
type ActivityInterval struct {
	Ref   RecordRef  `json:"ref"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`

	// Label is used only for similarity scoring, never for identity.
	Label string `json:"label"`

	// TaskID is carried for manual entries so cleanup can detect orphaned
	// task references. Nil for other sources.
	TaskID *int64 `json:"task_id,omitempty"`

	// Completed reports whether the source record was marked finished.
	// A completed record without an end time is a structural defect.
	Completed bool `json:"completed,omitempty"`
}

// IsClosed returns true if the interval has both a start and an end time.
// Only closed intervals participate in gap and conflict detection.
func (ai ActivityInterval) IsClosed() bool {
	return ai.End != nil
}

// IsDegenerate returns true for closed intervals with start == end.
// Degenerate intervals cover no time and are ignored by the detectors.
func (ai ActivityInterval) IsDegenerate() bool {
	return ai.End != nil && ai.Start.Equal(*ai.End)
}

// Duration returns the covered time of a closed interval, zero otherwise.
func (ai ActivityInterval) Duration() time.Duration {
	if ai.End == nil {
		return 0
	}
	return ai.End.Sub(ai.Start)
}

// IsValid checks structural sanity: a closed interval must not end before it starts.
func (ai ActivityInterval) IsValid() bool {
	if ai.Start.IsZero() {
		return false
	}
	if ai.End != nil && ai.End.Before(ai.Start) {
		return false
	}
	return true
}

// Window is a half-open query window [Start, End) over which detection runs.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// IsValid checks that the window spans a positive amount of time.
func (w Window) IsValid() bool {
	return w.Start.Before(w.End)
}
