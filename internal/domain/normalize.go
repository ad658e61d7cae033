package domain

import (
	"strings"

	"time-reconciler/internal/errors"
	"time-reconciler/internal/repository/sqlite"
)

// MalformedRecord is a diagnostic for a storage record that could not be
// normalized. Malformed records are excluded from detection but always
// reported, never silently dropped.
type MalformedRecord struct {
	Ref    RecordRef `json:"ref"`
	Reason string    `json:"reason"`
}

// Error returns the diagnostic as a structured error.
func (m MalformedRecord) Error() error {
	return errors.NewMalformedRecordError(string(m.Ref.Source), m.Ref.ID, m.Reason)
}

// NormalizationResult carries the normalized snapshot plus diagnostics for
// records that could not be normalized.
type NormalizationResult struct {
	Intervals []ActivityInterval `json:"intervals"`
	Malformed []MalformedRecord  `json:"malformed,omitempty"`
}

// Normalizer converts the three heterogeneous storage shapes into the single
// ActivityInterval shape the detectors reason about. It is a pure transform:
// original ids and labels are carried forward for later storage mutation.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a full snapshot of loaded records. taskNames maps task
// ids to names for manual entry labels; a missing name leaves the label empty
// (orphan detection is the cleanup pass's job, not normalization's).
func (n *Normalizer) Normalize(
	entries []*sqlite.TimeEntry,
	taskNames map[int64]string,
	usage []*sqlite.AppUsage,
	sessions []*sqlite.PomodoroSession,
) NormalizationResult {
	result := NormalizationResult{}

	for _, entry := range entries {
		interval, malformed := n.FromTimeEntry(entry, taskNames[entry.TaskID])
		if malformed != nil {
			result.Malformed = append(result.Malformed, *malformed)
			continue
		}
		result.Intervals = append(result.Intervals, interval)
	}

	for _, u := range usage {
		interval, malformed := n.FromAppUsage(u)
		if malformed != nil {
			result.Malformed = append(result.Malformed, *malformed)
			continue
		}
		result.Intervals = append(result.Intervals, interval)
	}

	for _, s := range sessions {
		interval, malformed := n.FromPomodoroSession(s)
		if malformed != nil {
			result.Malformed = append(result.Malformed, *malformed)
			continue
		}
		result.Intervals = append(result.Intervals, interval)
	}

	return result
}

// FromTimeEntry normalizes a manual time entry.
func (n *Normalizer) FromTimeEntry(entry *sqlite.TimeEntry, taskName string) (ActivityInterval, *MalformedRecord) {
	ref := RecordRef{ID: entry.ID, Source: SourceManual}
	if entry.StartTime.IsZero() {
		return ActivityInterval{}, &MalformedRecord{Ref: ref, Reason: "missing start time"}
	}

	taskID := entry.TaskID
	return ActivityInterval{
		Ref:    ref,
		Start:  entry.StartTime,
		End:    entry.EndTime,
		Label:  taskName,
		TaskID: &taskID,
	}, nil
}

// FromAppUsage normalizes an automatically captured usage record.
func (n *Normalizer) FromAppUsage(usage *sqlite.AppUsage) (ActivityInterval, *MalformedRecord) {
	ref := RecordRef{ID: usage.ID, Source: SourceAutomatic}
	if usage.StartTime.IsZero() {
		return ActivityInterval{}, &MalformedRecord{Ref: ref, Reason: "missing start time"}
	}

	label := usage.AppName
	if title := strings.TrimSpace(usage.WindowTitle); title != "" {
		label = usage.AppName + ": " + title
	}

	return ActivityInterval{
		Ref:   ref,
		Start: usage.StartTime,
		End:   usage.EndTime,
		Label: label,
	}, nil
}

// FromPomodoroSession normalizes a pomodoro session.
func (n *Normalizer) FromPomodoroSession(session *sqlite.PomodoroSession) (ActivityInterval, *MalformedRecord) {
	ref := RecordRef{ID: session.ID, Source: SourcePomodoro}
	if session.StartTime.IsZero() {
		return ActivityInterval{}, &MalformedRecord{Ref: ref, Reason: "missing start time"}
	}

	return ActivityInterval{
		Ref:       ref,
		Start:     session.StartTime,
		End:       session.EndTime,
		Label:     session.TaskLabel,
		Completed: session.Completed,
	}, nil
}

// ToSelector maps an engine record reference to a storage selector.
func ToSelector(ref RecordRef) sqlite.RecordSelector {
	return sqlite.RecordSelector{Kind: sqlite.RecordKind(ref.Source), ID: ref.ID}
}

// ToSelectors maps a slice of record references to storage selectors.
func ToSelectors(refs []RecordRef) []sqlite.RecordSelector {
	selectors := make([]sqlite.RecordSelector, len(refs))
	for i, ref := range refs {
		selectors[i] = ToSelector(ref)
	}
	return selectors
}
