package domain

// ConflictType classifies how two activity intervals relate.
type ConflictType string

const (
	// ConflictOverlap marks genuinely concurrent activity, typically from
	// different sources (a manual entry over automatic tracking).
	ConflictOverlap ConflictType = "overlap"

	// ConflictDuplicate marks the same activity logged twice by one source.
	ConflictDuplicate ConflictType = "duplicate"
)

// Severity grades a conflict by how much of the shorter interval overlaps.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ConflictPair is one detected pairwise conflict between two records.
type ConflictPair struct {
	A            RecordRef    `json:"a"`
	B            RecordRef    `json:"b"`
	OverlapRatio float64      `json:"overlap_ratio"`
	Type         ConflictType `json:"type"`
	Severity     Severity     `json:"severity"`
}

// ConflictGroup is a connected component of pairwise-overlapping intervals.
// The group owns no data; Intervals are copies of the loaded snapshot and the
// whole group is recomputed on every detection pass.
type ConflictGroup struct {
	Intervals []ActivityInterval `json:"intervals"`
	Pairs     []ConflictPair     `json:"pairs"`

	// Type is duplicate only when every pair in the group is a duplicate;
	// any genuine overlap makes the whole group an overlap group.
	Type ConflictType `json:"type"`

	// Severity is the maximum pair severity in the group.
	Severity Severity `json:"severity"`
}

// Refs returns the identities of all group members, in member order.
func (g ConflictGroup) Refs() []RecordRef {
	refs := make([]RecordRef, len(g.Intervals))
	for i, interval := range g.Intervals {
		refs[i] = interval.Ref
	}
	return refs
}

// Contains reports whether the given record is a member of the group.
func (g ConflictGroup) Contains(ref RecordRef) bool {
	for _, interval := range g.Intervals {
		if interval.Ref == ref {
			return true
		}
	}
	return false
}
