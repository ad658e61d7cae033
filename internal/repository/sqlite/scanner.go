package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	err := scanner.Scan(&task.ID, &task.TaskName)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanTimeEntry scans a single manual time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var startTime string
	var endTime sql.NullString

	err := scanner.Scan(
		&entry.ID,
		&entry.TaskID,
		&startTime,
		&endTime,
	)
	if err != nil {
		return nil, err
	}

	if entry.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if entry.EndTime, err = ParseTimePtrFromDB(endTime); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanTimeEntries scans multiple manual time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	var entries []*TimeEntry
	for rows.Next() {
		entry, err := ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanAppUsage scans a single app usage record from a database row
func ScanAppUsage(scanner Scanner) (*AppUsage, error) {
	usage := &AppUsage{}
	var startTime string
	var endTime sql.NullString

	err := scanner.Scan(
		&usage.ID,
		&usage.AppName,
		&usage.WindowTitle,
		&startTime,
		&endTime,
	)
	if err != nil {
		return nil, err
	}

	if usage.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if usage.EndTime, err = ParseTimePtrFromDB(endTime); err != nil {
		return nil, err
	}

	return usage, nil
}

// ScanAppUsages scans multiple app usage records from database rows
func ScanAppUsages(rows Rows) ([]*AppUsage, error) {
	var usages []*AppUsage
	for rows.Next() {
		usage, err := ScanAppUsage(rows)
		if err != nil {
			return nil, err
		}
		usages = append(usages, usage)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return usages, nil
}

// ScanPomodoroSession scans a single pomodoro session from a database row
func ScanPomodoroSession(scanner Scanner) (*PomodoroSession, error) {
	session := &PomodoroSession{}
	var startTime string
	var endTime sql.NullString

	err := scanner.Scan(
		&session.ID,
		&session.TaskLabel,
		&startTime,
		&endTime,
		&session.Completed,
	)
	if err != nil {
		return nil, err
	}

	if session.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if session.EndTime, err = ParseTimePtrFromDB(endTime); err != nil {
		return nil, err
	}

	return session, nil
}

// ScanPomodoroSessions scans multiple pomodoro sessions from database rows
func ScanPomodoroSessions(rows Rows) ([]*PomodoroSession, error) {
	var sessions []*PomodoroSession
	for rows.Next() {
		session, err := ScanPomodoroSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
