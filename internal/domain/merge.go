package domain

import (
	"github.com/google/uuid"
)

// MergeStrategy is the deterministic rule used to pick the surviving record
// from a conflict group.
type MergeStrategy string

const (
	// StrategyLongest keeps the input with the greatest duration, with its
	// own start and end untouched. A verified single record is preferred
	// over a synthesized superset.
	StrategyLongest MergeStrategy = "longest"

	// StrategyEarliest keeps the input with the earliest start and widens
	// its end to the group maximum so coverage never shrinks.
	StrategyEarliest MergeStrategy = "earliest"

	// StrategyLatest keeps the input with the latest end and widens its
	// start to the group minimum so coverage never shrinks.
	StrategyLatest MergeStrategy = "latest"

	// StrategyManualSelection keeps the record chosen by the caller,
	// untouched. The resolver only validates membership and computes the
	// discard set.
	StrategyManualSelection MergeStrategy = "manual-selection"
)

// IsValid checks if the strategy is one of the supported rules.
func (s MergeStrategy) IsValid() bool {
	switch s {
	case StrategyLongest, StrategyEarliest, StrategyLatest, StrategyManualSelection:
		return true
	}
	return false
}

// MergeDecision is the plan produced for one conflict group: one surviving
// record and the set of records to remove. The resolver never mutates
// storage; executing the plan atomically is the storage layer's job.
type MergeDecision struct {
	// PlanID correlates a decision with its eventual apply result in logs.
	PlanID uuid.UUID `json:"plan_id"`

	// Survivor is the record kept, with possibly widened bounds.
	Survivor ActivityInterval `json:"survivor"`

	// SurvivorChanged is true when the survivor's stored times must be
	// updated (earliest/latest widening), not just the discards deleted.
	SurvivorChanged bool `json:"survivor_changed"`

	// Discard lists every non-surviving group member.
	Discard []RecordRef `json:"discard"`

	Strategy MergeStrategy `json:"strategy"`
}
