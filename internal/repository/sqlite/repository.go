package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"time-reconciler/internal/errors"
	"time-reconciler/internal/logging"
	"time-reconciler/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for storage operations. Detection runs on
// point-in-time snapshots fetched here; mutation plans are applied atomically
// and re-validate every referenced row before committing.
type Repository interface {
	// Reference data
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	FindTaskByName(ctx context.Context, name string) (*Task, error)

	// Record creation
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	CreateAppUsage(ctx context.Context, usage *AppUsage) error
	CreatePomodoroSession(ctx context.Context, session *PomodoroSession) error

	// Date-bounded fetches. A record is returned when its interval
	// intersects [start, end); open-ended records match on start alone.
	FetchTimeEntries(ctx context.Context, start, end time.Time) ([]*TimeEntry, error)
	FetchAppUsage(ctx context.Context, start, end time.Time) ([]*AppUsage, error)
	FetchPomodoroSessions(ctx context.Context, start, end time.Time) ([]*PomodoroSession, error)

	// Point reads used by plan construction
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	GetAppUsage(ctx context.Context, id int64) (*AppUsage, error)
	GetPomodoroSession(ctx context.Context, id int64) (*PomodoroSession, error)

	// Plan execution (all-or-nothing)
	ApplyMergePlan(ctx context.Context, plan MergePlan) error
	ApplyFixPlan(ctx context.Context, plan FixPlan) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask creates a new task
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	query := `INSERT INTO tasks (task_name) VALUES (?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, query, task.TaskName)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT id, task_name FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `SELECT id, task_name FROM tasks ORDER BY task_name ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// FindTaskByName retrieves a task by exact name
func (r *SQLiteRepository) FindTaskByName(ctx context.Context, name string) (*Task, error) {
	query := `SELECT id, task_name FROM tasks WHERE task_name = ? LIMIT 1`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", name, name)
}

// CreateTimeEntry creates a new manual time entry
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	INSERT INTO time_entries (task_id, start_time, end_time)
	VALUES (?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, entry.TaskID, FormatTimeForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime))
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// CreateAppUsage creates a new app usage record
func (r *SQLiteRepository) CreateAppUsage(ctx context.Context, usage *AppUsage) error {
	query := `
	INSERT INTO app_usage (app_name, window_title, start_time, end_time)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, usage.AppName, usage.WindowTitle, FormatTimeForDB(usage.StartTime), FormatTimePtrForDB(usage.EndTime))
	if err != nil {
		return err
	}

	usage.ID = id
	return nil
}

// CreatePomodoroSession creates a new pomodoro session record
func (r *SQLiteRepository) CreatePomodoroSession(ctx context.Context, session *PomodoroSession) error {
	query := `
	INSERT INTO pomodoro_sessions (task_label, start_time, end_time, completed)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, session.TaskLabel, FormatTimeForDB(session.StartTime), FormatTimePtrForDB(session.EndTime), session.Completed)
	if err != nil {
		return err
	}

	session.ID = id
	return nil
}

// FetchTimeEntries returns manual entries intersecting [start, end)
func (r *SQLiteRepository) FetchTimeEntries(ctx context.Context, start, end time.Time) ([]*TimeEntry, error) {
	query := `
	SELECT id, task_id, start_time, end_time
	FROM time_entries
	WHERE start_time < ? AND (end_time IS NULL OR end_time > ?)
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", FormatTimeForDB(end), FormatTimeForDB(start))
}

// FetchAppUsage returns app usage records intersecting [start, end)
func (r *SQLiteRepository) FetchAppUsage(ctx context.Context, start, end time.Time) ([]*AppUsage, error) {
	query := `
	SELECT id, app_name, window_title, start_time, end_time
	FROM app_usage
	WHERE start_time < ? AND (end_time IS NULL OR end_time > ?)
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanAppUsages, "app usage", FormatTimeForDB(end), FormatTimeForDB(start))
}

// FetchPomodoroSessions returns pomodoro sessions intersecting [start, end)
func (r *SQLiteRepository) FetchPomodoroSessions(ctx context.Context, start, end time.Time) ([]*PomodoroSession, error) {
	query := `
	SELECT id, task_label, start_time, end_time, completed
	FROM pomodoro_sessions
	WHERE start_time < ? AND (end_time IS NULL OR end_time > ?)
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, r.db, query, ScanPomodoroSessions, "pomodoro sessions", FormatTimeForDB(end), FormatTimeForDB(start))
}

// GetTimeEntry retrieves a manual entry by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := `
	SELECT id, task_id, start_time, end_time
	FROM time_entries
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// GetAppUsage retrieves an app usage record by ID
func (r *SQLiteRepository) GetAppUsage(ctx context.Context, id int64) (*AppUsage, error) {
	query := `
	SELECT id, app_name, window_title, start_time, end_time
	FROM app_usage
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanAppUsage, "app usage record", fmt.Sprintf("%d", id), id)
}

// GetPomodoroSession retrieves a pomodoro session by ID
func (r *SQLiteRepository) GetPomodoroSession(ctx context.Context, id int64) (*PomodoroSession, error) {
	query := `
	SELECT id, task_label, start_time, end_time, completed
	FROM pomodoro_sessions
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanPomodoroSession, "pomodoro session", fmt.Sprintf("%d", id), id)
}

// tableFor maps a record kind to its table name
func tableFor(kind RecordKind) (string, error) {
	switch kind {
	case KindManual:
		return "time_entries", nil
	case KindAutomatic:
		return "app_usage", nil
	case KindPomodoro:
		return "pomodoro_sessions", nil
	default:
		return "", errors.NewInvalidInputError("kind", string(kind), "unknown record kind")
	}
}

// ApplyMergePlan applies a merge plan as a single transaction. Every row the
// plan references is re-checked inside the transaction; if any has vanished
// since detection, nothing is applied and a stale-conflict error is returned.
func (r *SQLiteRepository) ApplyMergePlan(ctx context.Context, plan MergePlan) error {
	logging.Debugf("applying merge plan %s: survivor %s:%d, %d discards\n", plan.PlanID, plan.Survivor.Kind, plan.Survivor.ID, len(plan.Discard))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("begin merge transaction", err)
	}
	defer tx.Rollback()

	selectors := append([]RecordSelector{plan.Survivor}, plan.Discard...)
	for _, sel := range selectors {
		if err := checkRecordExists(ctx, tx, sel); err != nil {
			return err
		}
	}

	if plan.NewStart != nil || plan.NewEnd != nil {
		if err := updateRecordBounds(ctx, tx, plan.Survivor, plan.NewStart, plan.NewEnd); err != nil {
			return err
		}
	}

	for _, sel := range plan.Discard {
		if err := deleteRecord(ctx, tx, sel); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("commit merge plan", err)
	}
	return nil
}

// ApplyFixPlan applies a defect fix as a single transaction with the same
// staleness semantics as ApplyMergePlan.
func (r *SQLiteRepository) ApplyFixPlan(ctx context.Context, plan FixPlan) error {
	logging.Debugf("applying fix plan %s: target %s:%d delete=%t\n", plan.PlanID, plan.Target.Kind, plan.Target.ID, plan.Delete)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("begin fix transaction", err)
	}
	defer tx.Rollback()

	if err := checkRecordExists(ctx, tx, plan.Target); err != nil {
		return err
	}

	if plan.Delete {
		if err := deleteRecord(ctx, tx, plan.Target); err != nil {
			return err
		}
	} else if plan.RepairEnd != nil {
		if err := updateRecordBounds(ctx, tx, plan.Target, nil, plan.RepairEnd); err != nil {
			return err
		}
	} else {
		return errors.NewInvalidInputError("plan", plan.PlanID, "fix plan must either delete or repair")
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("commit fix plan", err)
	}
	return nil
}

func checkRecordExists(ctx context.Context, tx *sql.Tx, sel RecordSelector) error {
	table, err := tableFor(sel.Kind)
	if err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), sel.ID).Scan(&one)
	if err == sql.ErrNoRows {
		return errors.NewStaleConflictError(string(sel.Kind), sel.ID)
	}
	if err != nil {
		return errors.NewStorageError("check record exists", err)
	}
	return nil
}

func updateRecordBounds(ctx context.Context, tx *sql.Tx, sel RecordSelector, newStart, newEnd *time.Time) error {
	table, err := tableFor(sel.Kind)
	if err != nil {
		return err
	}

	switch {
	case newStart != nil && newEnd != nil:
		_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET start_time = ?, end_time = ? WHERE id = ?", table),
			FormatTimeForDB(*newStart), FormatTimeForDB(*newEnd), sel.ID)
	case newStart != nil:
		_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET start_time = ? WHERE id = ?", table),
			FormatTimeForDB(*newStart), sel.ID)
	case newEnd != nil:
		_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET end_time = ? WHERE id = ?", table),
			FormatTimeForDB(*newEnd), sel.ID)
	}
	if err != nil {
		return errors.NewStorageError("update record bounds", err)
	}
	return nil
}

func deleteRecord(ctx context.Context, tx *sql.Tx, sel RecordSelector) error {
	table, err := tableFor(sel.Kind)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), sel.ID)
	if err != nil {
		return errors.NewStorageError("delete record", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewStorageError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewStaleConflictError(string(sel.Kind), sel.ID)
	}
	return nil
}
