package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
	"time-reconciler/internal/errors"
	"time-reconciler/internal/logging"
	"time-reconciler/internal/repository/sqlite"
	"time-reconciler/internal/services"
	"time-reconciler/internal/validation"
)

// ScanReport bundles everything one detection pass found over a window.
// All findings come from the same point-in-time snapshot.
type ScanReport struct {
	Window    domain.Window            `json:"window"`
	Intervals []domain.ActivityInterval `json:"intervals"`
	Malformed []domain.MalformedRecord `json:"malformed,omitempty"`
	Gaps      []domain.TimeGap         `json:"gaps"`
	Conflicts []domain.ConflictGroup   `json:"conflicts"`
	Defects   []domain.Defect          `json:"defects"`
}

// API defines the interface for all reconciliation operations.
type API interface {
	// Detection passes over a fresh snapshot of [start, end)
	ScanWindow(ctx context.Context, start, end time.Time) (*ScanReport, error)
	DetectGaps(ctx context.Context, start, end time.Time) ([]domain.TimeGap, error)
	DetectConflicts(ctx context.Context, start, end time.Time) ([]domain.ConflictGroup, error)
	DetectDefects(ctx context.Context, start, end time.Time) ([]domain.Defect, error)

	// Remediation
	MergeRecords(ctx context.Context, refs []domain.RecordRef, strategy domain.MergeStrategy, chosen *domain.RecordRef) (*domain.MergeDecision, error)
	ApplyFix(ctx context.Context, defect domain.Defect) error
	FillGap(ctx context.Context, gap domain.TimeGap, taskName string) (*domain.ActivityInterval, error)
}

type apiImpl struct {
	repo       sqlite.Repository
	services   *services.ServiceContainer
	normalizer *domain.Normalizer
	validator  *validation.Validator
	config     *config.Config
}

// New creates a new API instance.
func New(repo sqlite.Repository, cfg *config.Config) API {
	return &apiImpl{
		repo:       repo,
		services:   services.NewServiceContainer(cfg),
		normalizer: domain.NewNormalizer(),
		validator:  validation.NewValidator(),
		config:     cfg,
	}
}

// snapshot is one point-in-time load of every record intersecting a window.
type snapshot struct {
	intervals []domain.ActivityInterval
	malformed []domain.MalformedRecord
	taskIDs   map[int64]struct{}
}

// loadSnapshot fetches and normalizes all records intersecting [start, end).
func (a *apiImpl) loadSnapshot(ctx context.Context, window domain.Window) (*snapshot, error) {
	tasks, err := a.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	taskIDs := make(map[int64]struct{}, len(tasks))
	taskNames := make(map[int64]string, len(tasks))
	for _, task := range tasks {
		taskIDs[task.ID] = struct{}{}
		taskNames[task.ID] = task.TaskName
	}

	entries, err := a.repo.FetchTimeEntries(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	usage, err := a.repo.FetchAppUsage(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	sessions, err := a.repo.FetchPomodoroSessions(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	result := a.normalizer.Normalize(entries, taskNames, usage, sessions)
	logging.Debugf("loaded snapshot %s to %s: %d intervals, %d malformed\n",
		window.Start, window.End, len(result.Intervals), len(result.Malformed))

	return &snapshot{
		intervals: result.Intervals,
		malformed: result.Malformed,
		taskIDs:   taskIDs,
	}, nil
}

// ScanWindow runs every detection pass over one snapshot.
func (a *apiImpl) ScanWindow(ctx context.Context, start, end time.Time) (*ScanReport, error) {
	if err := a.validator.ValidateWindow(start, end); err != nil {
		return nil, err
	}
	window := domain.Window{Start: start, End: end}

	snap, err := a.loadSnapshot(ctx, window)
	if err != nil {
		return nil, err
	}

	gaps, err := a.services.GapService.DetectGaps(snap.intervals, window)
	if err != nil {
		return nil, err
	}

	return &ScanReport{
		Window:    window,
		Intervals: snap.intervals,
		Malformed: snap.malformed,
		Gaps:      gaps,
		Conflicts: a.services.ConflictService.DetectConflicts(snap.intervals),
		Defects:   a.services.CleanupService.Validate(snap.intervals, snap.taskIDs),
	}, nil
}

// DetectGaps reports untracked time within [start, end).
func (a *apiImpl) DetectGaps(ctx context.Context, start, end time.Time) ([]domain.TimeGap, error) {
	if err := a.validator.ValidateWindow(start, end); err != nil {
		return nil, err
	}
	window := domain.Window{Start: start, End: end}

	snap, err := a.loadSnapshot(ctx, window)
	if err != nil {
		return nil, err
	}

	return a.services.GapService.DetectGaps(snap.intervals, window)
}

// DetectConflicts reports overlapping and duplicate records within [start, end).
func (a *apiImpl) DetectConflicts(ctx context.Context, start, end time.Time) ([]domain.ConflictGroup, error) {
	if err := a.validator.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	snap, err := a.loadSnapshot(ctx, domain.Window{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	return a.services.ConflictService.DetectConflicts(snap.intervals), nil
}

// DetectDefects reports structurally invalid records within [start, end).
func (a *apiImpl) DetectDefects(ctx context.Context, start, end time.Time) ([]domain.Defect, error) {
	if err := a.validator.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	snap, err := a.loadSnapshot(ctx, domain.Window{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	return a.services.CleanupService.Validate(snap.intervals, snap.taskIDs), nil
}

// MergeRecords resolves the given records as one conflict group and applies
// the merge plan atomically. Records are re-read at call time; a reference
// that has vanished since detection yields a stale-conflict error and no
// mutation at all.
func (a *apiImpl) MergeRecords(ctx context.Context, refs []domain.RecordRef, strategy domain.MergeStrategy, chosen *domain.RecordRef) (*domain.MergeDecision, error) {
	if len(refs) < 2 {
		return nil, errors.NewInvalidInputError("refs", len(refs), "merging needs at least two records")
	}

	group := domain.ConflictGroup{}
	for _, ref := range refs {
		interval, err := a.loadInterval(ctx, ref)
		if err != nil {
			return nil, err
		}
		group.Intervals = append(group.Intervals, interval)
	}

	decision, err := a.services.ResolutionService.Resolve(group, strategy, chosen)
	if err != nil {
		return nil, err
	}

	plan := sqlite.MergePlan{
		PlanID:   decision.PlanID.String(),
		Survivor: domain.ToSelector(decision.Survivor.Ref),
		Discard:  domain.ToSelectors(decision.Discard),
	}
	if decision.SurvivorChanged {
		start := decision.Survivor.Start
		plan.NewStart = &start
		plan.NewEnd = decision.Survivor.End
	}

	if err := a.repo.ApplyMergePlan(ctx, plan); err != nil {
		return nil, err
	}
	return decision, nil
}

// ApplyFix executes the suggested fix for one defect atomically.
func (a *apiImpl) ApplyFix(ctx context.Context, defect domain.Defect) error {
	plan := sqlite.FixPlan{
		PlanID: uuid.New().String(),
		Target: domain.ToSelector(defect.Ref),
	}

	switch defect.Fix.Action {
	case domain.FixDelete:
		plan.Delete = true
	case domain.FixRepair:
		if defect.Fix.RepairEnd == nil {
			return errors.NewInvalidInputError("fix", defect.Ref.String(), "repair fix needs an end time")
		}
		plan.RepairEnd = defect.Fix.RepairEnd
	default:
		return errors.NewInvalidInputError("fix", string(defect.Fix.Action), "unknown fix action")
	}

	return a.repo.ApplyFixPlan(ctx, plan)
}

// FillGap creates a manual entry covering the gap, creating the task first
// when no task with that name exists yet.
func (a *apiImpl) FillGap(ctx context.Context, gap domain.TimeGap, taskName string) (*domain.ActivityInterval, error) {
	if err := a.validator.ValidateTaskName(taskName); err != nil {
		return nil, err
	}
	if !gap.Start.Before(gap.End) {
		return nil, errors.NewInvalidWindowError(gap.Start, gap.End)
	}

	cleaned := a.validator.TrimAndValidateString(taskName)
	task, err := a.repo.FindTaskByName(ctx, cleaned)
	if err != nil {
		if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, err
		}
		task = &sqlite.Task{TaskName: cleaned}
		if err := a.repo.CreateTask(ctx, task); err != nil {
			return nil, err
		}
	}

	end := gap.End
	entry := &sqlite.TimeEntry{
		TaskID:    task.ID,
		StartTime: gap.Start,
		EndTime:   &end,
	}
	if err := a.repo.CreateTimeEntry(ctx, entry); err != nil {
		return nil, err
	}

	interval, malformed := a.normalizer.FromTimeEntry(entry, task.TaskName)
	if malformed != nil {
		return nil, malformed.Error()
	}
	return &interval, nil
}

// loadInterval re-reads one record and normalizes it. A record that no longer
// exists is reported as stale, since merge references always originate from an
// earlier detection pass.
func (a *apiImpl) loadInterval(ctx context.Context, ref domain.RecordRef) (domain.ActivityInterval, error) {
	var (
		interval  domain.ActivityInterval
		malformed *domain.MalformedRecord
	)

	switch ref.Source {
	case domain.SourceManual:
		entry, err := a.repo.GetTimeEntry(ctx, ref.ID)
		if err != nil {
			return domain.ActivityInterval{}, staleIfMissing(err, ref)
		}
		taskName := ""
		if task, err := a.repo.GetTask(ctx, entry.TaskID); err == nil {
			taskName = task.TaskName
		}
		interval, malformed = a.normalizer.FromTimeEntry(entry, taskName)

	case domain.SourceAutomatic:
		usage, err := a.repo.GetAppUsage(ctx, ref.ID)
		if err != nil {
			return domain.ActivityInterval{}, staleIfMissing(err, ref)
		}
		interval, malformed = a.normalizer.FromAppUsage(usage)

	case domain.SourcePomodoro:
		session, err := a.repo.GetPomodoroSession(ctx, ref.ID)
		if err != nil {
			return domain.ActivityInterval{}, staleIfMissing(err, ref)
		}
		interval, malformed = a.normalizer.FromPomodoroSession(session)

	default:
		return domain.ActivityInterval{}, errors.NewInvalidInputError("source", string(ref.Source), "unknown source type")
	}

	if malformed != nil {
		return domain.ActivityInterval{}, malformed.Error()
	}
	return interval, nil
}

func staleIfMissing(err error, ref domain.RecordRef) error {
	if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return errors.NewStaleConflictError(string(ref.Source), ref.ID)
	}
	return err
}
