package services

import (
	"time"

	"github.com/google/uuid"

	"time-reconciler/internal/domain"
	"time-reconciler/internal/errors"
)

// resolutionServiceImpl implements the ResolutionService interface
type resolutionServiceImpl struct{}

// NewResolutionService creates a new ResolutionService instance
func NewResolutionService() ResolutionService {
	return &resolutionServiceImpl{}
}

// Resolve picks the surviving record for a conflict group. The decision is a
// plan only: deleting the discards and updating the survivor is the storage
// layer's job and must happen in one transaction.
func (r *resolutionServiceImpl) Resolve(group domain.ConflictGroup, strategy domain.MergeStrategy, chosen *domain.RecordRef) (*domain.MergeDecision, error) {
	if len(group.Intervals) < 2 {
		return nil, errors.NewInvalidInputError("group", len(group.Intervals), "a conflict group needs at least two records")
	}
	if !strategy.IsValid() {
		return nil, errors.NewInvalidInputError("strategy", string(strategy), "unknown merge strategy")
	}
	for _, interval := range group.Intervals {
		if !interval.IsClosed() {
			return nil, errors.NewInvalidInputError("group", interval.Ref.String(), "only closed intervals can be merged")
		}
	}

	var (
		survivor domain.ActivityInterval
		changed  bool
	)

	switch strategy {
	case domain.StrategyLongest:
		// The longest verified record wins with its bounds untouched;
		// a synthesized superset is never fabricated here.
		survivor = pickLongest(group.Intervals)

	case domain.StrategyEarliest:
		survivor = pickEarliest(group.Intervals)
		if latest := groupMaxEnd(group.Intervals); latest.After(*survivor.End) {
			survivor.End = &latest
			changed = true
		}

	case domain.StrategyLatest:
		survivor = pickLatest(group.Intervals)
		if earliest := groupMinStart(group.Intervals); earliest.Before(survivor.Start) {
			survivor.Start = earliest
			changed = true
		}

	case domain.StrategyManualSelection:
		if chosen == nil {
			return nil, errors.NewInvalidInputError("survivor", nil, "manual selection requires a surviving record")
		}
		if !group.Contains(*chosen) {
			return nil, errors.NewInvalidInputError("survivor", chosen.String(), "chosen record is not a member of the group")
		}
		survivor = findByRef(group.Intervals, *chosen)
	}

	decision := &domain.MergeDecision{
		PlanID:          uuid.New(),
		Survivor:        survivor,
		SurvivorChanged: changed,
		Strategy:        strategy,
	}
	for _, interval := range group.Intervals {
		if interval.Ref != survivor.Ref {
			decision.Discard = append(decision.Discard, interval.Ref)
		}
	}

	return decision, nil
}

// pickLongest returns the member with the greatest duration, breaking ties by
// the canonical interval ordering.
func pickLongest(intervals []domain.ActivityInterval) domain.ActivityInterval {
	best := intervals[0]
	for _, candidate := range intervals[1:] {
		if candidate.Duration() > best.Duration() ||
			(candidate.Duration() == best.Duration() && lessInterval(candidate, best)) {
			best = candidate
		}
	}
	return best
}

// pickEarliest returns the member with the earliest start.
func pickEarliest(intervals []domain.ActivityInterval) domain.ActivityInterval {
	best := intervals[0]
	for _, candidate := range intervals[1:] {
		if lessInterval(candidate, best) {
			best = candidate
		}
	}
	return best
}

// pickLatest returns the member with the latest end, breaking ties by the
// canonical interval ordering.
func pickLatest(intervals []domain.ActivityInterval) domain.ActivityInterval {
	best := intervals[0]
	for _, candidate := range intervals[1:] {
		if candidate.End.After(*best.End) ||
			(candidate.End.Equal(*best.End) && lessInterval(candidate, best)) {
			best = candidate
		}
	}
	return best
}

func groupMinStart(intervals []domain.ActivityInterval) time.Time {
	earliest := intervals[0].Start
	for _, interval := range intervals[1:] {
		if interval.Start.Before(earliest) {
			earliest = interval.Start
		}
	}
	return earliest
}

func groupMaxEnd(intervals []domain.ActivityInterval) time.Time {
	latest := *intervals[0].End
	for _, interval := range intervals[1:] {
		if interval.End.After(latest) {
			latest = *interval.End
		}
	}
	return latest
}

func findByRef(intervals []domain.ActivityInterval, ref domain.RecordRef) domain.ActivityInterval {
	for _, interval := range intervals {
		if interval.Ref == ref {
			return interval
		}
	}
	return domain.ActivityInterval{}
}
