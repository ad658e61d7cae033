package sqlite

import "time"

// Task is a named unit of work referenced by manual time entries.
type Task struct {
	ID       int64
	TaskName string
}

// TimeEntry is a manually tracked activity record.
type TimeEntry struct {
	ID        int64
	TaskID    int64
	StartTime time.Time
	EndTime   *time.Time // nil while the entry is running
}

// AppUsage is an automatically captured application/window usage record.
type AppUsage struct {
	ID          int64
	AppName     string
	WindowTitle string
	StartTime   time.Time
	EndTime     *time.Time // nil while capture is in progress
}

// PomodoroSession is a focus session record. Completed marks sessions the
// timer finished; a completed session should always have an end time.
type PomodoroSession struct {
	ID        int64
	TaskLabel string
	StartTime time.Time
	EndTime   *time.Time
	Completed bool
}

// RecordKind names the source table a selector points at.
type RecordKind string

const (
	KindManual    RecordKind = "manual"
	KindAutomatic RecordKind = "automatic"
	KindPomodoro  RecordKind = "pomodoro"
)

// RecordSelector identifies one row across the three activity tables.
type RecordSelector struct {
	Kind RecordKind
	ID   int64
}

// MergePlan is a declarative instruction set produced from a merge decision.
// The repository applies it as a single transaction: the survivor row is
// (optionally) widened, every discard row is deleted, and a vanished row
// anywhere in the plan aborts the whole transaction.
type MergePlan struct {
	PlanID   string
	Survivor RecordSelector
	NewStart *time.Time // set when the survivor's bounds must be widened
	NewEnd   *time.Time
	Discard  []RecordSelector
}

// FixPlan is a declarative instruction for repairing or deleting a single
// structurally defective row, with the same staleness semantics as MergePlan.
type FixPlan struct {
	PlanID    string
	Target    RecordSelector
	Delete    bool
	RepairEnd *time.Time // set when the row's end time should be written
}
