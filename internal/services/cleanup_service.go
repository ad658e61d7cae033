package services

import (
	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
)

// cleanupServiceImpl implements the CleanupService interface
type cleanupServiceImpl struct {
	config *config.Config
}

// NewCleanupService creates a new CleanupService instance
func NewCleanupService(cfg *config.Config) CleanupService {
	return &cleanupServiceImpl{config: cfg}
}

// Validate flags structurally invalid records. A record can carry more than
// one defect (an orphaned entry may also have zero duration); each problem is
// reported separately so the caller can fix them independently.
func (c *cleanupServiceImpl) Validate(intervals []domain.ActivityInterval, knownTaskIDs map[int64]struct{}) []domain.Defect {
	var defects []domain.Defect

	for _, interval := range intervals {
		switch {
		case interval.IsClosed() && interval.End.Before(interval.Start):
			defects = append(defects, domain.Defect{
				Ref:   interval.Ref,
				Kind:  domain.DefectNegativeDuration,
				Label: interval.Label,
				Fix:   domain.SuggestedFix{Action: domain.FixDelete},
			})

		case interval.IsDegenerate():
			defects = append(defects, domain.Defect{
				Ref:   interval.Ref,
				Kind:  domain.DefectZeroDuration,
				Label: interval.Label,
				Fix:   domain.SuggestedFix{Action: domain.FixDelete},
			})

		case !interval.IsClosed() && interval.Completed:
			repairEnd := interval.Start.Add(c.config.Detection.RepairSessionLength)
			defects = append(defects, domain.Defect{
				Ref:   interval.Ref,
				Kind:  domain.DefectMissingEnd,
				Label: interval.Label,
				Fix:   domain.SuggestedFix{Action: domain.FixRepair, RepairEnd: &repairEnd},
			})
		}

		if interval.TaskID != nil {
			if _, exists := knownTaskIDs[*interval.TaskID]; !exists {
				defects = append(defects, domain.Defect{
					Ref:   interval.Ref,
					Kind:  domain.DefectOrphanedReference,
					Label: interval.Label,
					Fix:   domain.SuggestedFix{Action: domain.FixDelete},
				})
			}
		}
	}

	return defects
}
