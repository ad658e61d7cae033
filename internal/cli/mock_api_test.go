package cli

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"time-reconciler/internal/api"
	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
)

// mockAPI implements the api.API interface for testing with canned results
// and call recording.
type mockAPI struct {
	gaps      []domain.TimeGap
	conflicts []domain.ConflictGroup
	defects   []domain.Defect
	report    *api.ScanReport
	decision  *domain.MergeDecision
	filled    *domain.ActivityInterval
	err       error

	mergeRefs     []domain.RecordRef
	mergeStrategy domain.MergeStrategy
	mergeChosen   *domain.RecordRef
	appliedFixes  []domain.Defect
	filledGap     *domain.TimeGap
	filledTask    string
}

func (m *mockAPI) ScanWindow(ctx context.Context, start, end time.Time) (*api.ScanReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &api.ScanReport{
		Window:    domain.Window{Start: start, End: end},
		Gaps:      m.gaps,
		Conflicts: m.conflicts,
		Defects:   m.defects,
	}, nil
}

func (m *mockAPI) DetectGaps(ctx context.Context, start, end time.Time) ([]domain.TimeGap, error) {
	return m.gaps, m.err
}

func (m *mockAPI) DetectConflicts(ctx context.Context, start, end time.Time) ([]domain.ConflictGroup, error) {
	return m.conflicts, m.err
}

func (m *mockAPI) DetectDefects(ctx context.Context, start, end time.Time) ([]domain.Defect, error) {
	return m.defects, m.err
}

func (m *mockAPI) MergeRecords(ctx context.Context, refs []domain.RecordRef, strategy domain.MergeStrategy, chosen *domain.RecordRef) (*domain.MergeDecision, error) {
	m.mergeRefs = refs
	m.mergeStrategy = strategy
	m.mergeChosen = chosen
	if m.err != nil {
		return nil, m.err
	}
	if m.decision != nil {
		return m.decision, nil
	}

	survivor := domain.ActivityInterval{Ref: refs[0], Start: time.Now()}
	decision := &domain.MergeDecision{
		PlanID:   uuid.New(),
		Survivor: survivor,
		Strategy: strategy,
	}
	for _, ref := range refs[1:] {
		decision.Discard = append(decision.Discard, ref)
	}
	return decision, nil
}

func (m *mockAPI) ApplyFix(ctx context.Context, defect domain.Defect) error {
	if m.err != nil {
		return m.err
	}
	m.appliedFixes = append(m.appliedFixes, defect)
	return nil
}

func (m *mockAPI) FillGap(ctx context.Context, gap domain.TimeGap, taskName string) (*domain.ActivityInterval, error) {
	m.filledGap = &gap
	m.filledTask = taskName
	if m.err != nil {
		return nil, m.err
	}
	if m.filled != nil {
		return m.filled, nil
	}
	end := gap.End
	return &domain.ActivityInterval{
		Ref:   domain.RecordRef{ID: 1, Source: domain.SourceManual},
		Start: gap.Start,
		End:   &end,
		Label: taskName,
	}, nil
}

// setupTestApp wires an App around a fresh mock API
func setupTestApp(t *testing.T) (*App, *mockAPI) {
	t.Helper()
	mock := &mockAPI{}
	return NewApp(mock, config.NewConfig()), mock
}
