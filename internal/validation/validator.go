package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"time-reconciler/internal/domain"
)

// Validator provides common validation utilities
type Validator struct {
	timeShorthandRegex *regexp.Regexp
	recordRefRegex     *regexp.Regexp
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		timeShorthandRegex: regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`),
		recordRefRegex:     regexp.MustCompile(`^(manual|automatic|pomodoro):(\d+)$`),
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidWindow checks that a detection window spans positive time
func (v *Validator) IsValidWindow(start, end time.Time) bool {
	return !start.IsZero() && !end.IsZero() && start.Before(end)
}

// IsValidRecordID checks if a record ID is valid (positive)
func (v *Validator) IsValidRecordID(id int64) bool {
	return id > 0
}

// IsValidTimeShorthand checks if a time shorthand format is valid
func (v *Validator) IsValidTimeShorthand(shorthand string) bool {
	matches := v.timeShorthandRegex.FindStringSubmatch(shorthand)
	if matches == nil {
		return false
	}

	value, err := strconv.Atoi(matches[1])
	return err == nil && value > 0
}

// IsReasonableDate checks if a date is within reasonable bounds
func (v *Validator) IsReasonableDate(t time.Time) bool {
	now := time.Now()
	// Allow dates from 10 years ago to 1 year in the future
	tenYearsAgo := now.AddDate(-10, 0, 0)
	oneYearFromNow := now.AddDate(1, 0, 0)

	return t.After(tenYearsAgo) && t.Before(oneYearFromNow)
}

// ValidateWindow validates a detection window, returning a field-level error
func (v *Validator) ValidateWindow(start, end time.Time) error {
	validationError := NewValidationError()

	if start.IsZero() {
		validationError.AddRequiredError("window_start")
	}
	if end.IsZero() {
		validationError.AddRequiredError("window_end")
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		validationError.AddInvalidRangeError("window", map[string]time.Time{
			"start": start,
			"end":   end,
		}, "window start must be before window end")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ParseMergeStrategy parses a strategy name from user input. "manual" is
// accepted as shorthand for manual selection.
func (v *Validator) ParseMergeStrategy(s string) (domain.MergeStrategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "manual" {
		name = string(domain.StrategyManualSelection)
	}

	strategy := domain.MergeStrategy(name)
	if !strategy.IsValid() {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("strategy", s, "must be one of: longest, earliest, latest, manual-selection")
		return "", validationError
	}
	return strategy, nil
}

// ParseRecordRef parses a "source:id" reference from user input
func (v *Validator) ParseRecordRef(s string) (domain.RecordRef, error) {
	matches := v.recordRefRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("ref", s, "source:id, e.g. manual:12")
		return domain.RecordRef{}, validationError
	}

	id, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil || id <= 0 {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("ref", s, "record id must be a positive integer")
		return domain.RecordRef{}, validationError
	}

	return domain.RecordRef{ID: id, Source: domain.SourceType(matches[1])}, nil
}

// ParseRecordRefs parses a list of "source:id" references, rejecting duplicates
func (v *Validator) ParseRecordRefs(args []string) ([]domain.RecordRef, error) {
	validationError := NewValidationError()
	seen := make(map[domain.RecordRef]bool)
	var refs []domain.RecordRef

	for _, arg := range args {
		ref, err := v.ParseRecordRef(arg)
		if err != nil {
			if ve, ok := err.(*ValidationError); ok {
				validationError.Errors = append(validationError.Errors, ve.Errors...)
			}
			continue
		}
		if seen[ref] {
			validationError.AddInvalidValueError("ref", arg, "duplicate record reference")
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	if validationError.HasErrors() {
		return nil, validationError
	}
	return refs, nil
}

// ValidateTaskName validates a task name used when filling a gap
func (v *Validator) ValidateTaskName(name string) error {
	validationError := NewValidationError()

	trimmed := v.TrimAndValidateString(name)
	if trimmed == "" {
		validationError.AddRequiredError("task_name")
	} else if len(trimmed) > 255 {
		validationError.AddInvalidValueError("task_name", name, "must be at most 255 characters long")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}
