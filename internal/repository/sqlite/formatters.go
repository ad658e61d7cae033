package sqlite

import (
	"database/sql"
	"time"
)

// Time columns are declared TEXT and hold RFC3339 strings. The driver hands
// them back as strings, so reads must go through the Parse* helpers rather
// than scanning into time.Time directly.

// FormatTimeForDB formats a time.Time value as RFC3339 string for storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseTimePtrFromDB parses a nullable RFC3339 column, returning nil for NULL
func ParseTimePtrFromDB(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseTimeFromDB(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
