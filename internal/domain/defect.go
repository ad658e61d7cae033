package domain

import "time"

// DefectKind names a structural problem with a stored activity record.
// Defects are repaired or deleted, never treated as conflicts.
type DefectKind string

const (
	DefectNegativeDuration  DefectKind = "negativeDuration"
	DefectZeroDuration      DefectKind = "zeroDuration"
	DefectMissingEnd        DefectKind = "missingEnd"
	DefectOrphanedReference DefectKind = "orphanedReference"
)

// FixAction is the remediation suggested for a defect.
type FixAction string

const (
	FixDelete FixAction = "delete"
	FixRepair FixAction = "repair"
)

// SuggestedFix describes how a defect should be remediated. RepairEnd is set
// only for FixRepair and holds the end time to write.
type SuggestedFix struct {
	Action    FixAction  `json:"action"`
	RepairEnd *time.Time `json:"repair_end,omitempty"`
}

// Defect flags one structurally invalid record found by the cleanup pass.
type Defect struct {
	Ref   RecordRef    `json:"ref"`
	Kind  DefectKind   `json:"kind"`
	Label string       `json:"label,omitempty"`
	Fix   SuggestedFix `json:"fix"`
}
