package services

import (
	"time"

	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
)

// GapService computes untracked time within a query window.
//
// Detection is a pure, synchronous computation over an in-memory snapshot:
// it performs no I/O and holds no state between calls.
type GapService interface {
	// DetectGaps reports untracked spans using the configured minimum
	// gap duration.
	DetectGaps(intervals []domain.ActivityInterval, window domain.Window) ([]domain.TimeGap, error)

	// DetectGapsWithMinimum reports untracked spans of at least minGap.
	DetectGapsWithMinimum(intervals []domain.ActivityInterval, window domain.Window, minGap time.Duration) ([]domain.TimeGap, error)
}

// ConflictService classifies overlapping and duplicate activity records.
type ConflictService interface {
	// DetectConflicts groups pairwise-overlapping closed intervals into
	// connected components, each classified and graded by severity.
	DetectConflicts(intervals []domain.ActivityInterval) []domain.ConflictGroup

	// LabelSimilarity scores two labels in [0, 1]. The comparator is
	// intentionally simple: case-insensitive exact match or containment.
	LabelSimilarity(a, b string) float64
}

// ResolutionService turns a conflict group and a merge strategy into a
// declarative merge decision. It never mutates storage.
type ResolutionService interface {
	// Resolve picks the survivor for the group under the given strategy.
	// chosen is required for manual selection and ignored otherwise.
	Resolve(group domain.ConflictGroup, strategy domain.MergeStrategy, chosen *domain.RecordRef) (*domain.MergeDecision, error)
}

// CleanupService flags structurally invalid records for repair or deletion.
// It is independent of gap/conflict detection: defective records are never
// classified as conflicts, even when they overlap something.
type CleanupService interface {
	// Validate inspects a normalized snapshot. knownTaskIDs is the set of
	// existing task ids, used to detect orphaned manual entries.
	Validate(intervals []domain.ActivityInterval, knownTaskIDs map[int64]struct{}) []domain.Defect
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	GapService        GapService
	ConflictService   ConflictService
	ResolutionService ResolutionService
	CleanupService    CleanupService
}

// NewServiceContainer creates all services sharing one configuration.
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	return &ServiceContainer{
		GapService:        NewGapService(cfg),
		ConflictService:   NewConflictService(cfg),
		ResolutionService: NewResolutionService(),
		CleanupService:    NewCleanupService(cfg),
	}
}
