package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(hour, min int) time.Time {
	return time.Date(2024, 3, 15, hour, min, 0, 0, time.UTC)
}

func tsPtr(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func TestSourceType_IsValid(t *testing.T) {
	assert.True(t, SourceManual.IsValid())
	assert.True(t, SourceAutomatic.IsValid())
	assert.True(t, SourcePomodoro.IsValid())
	assert.False(t, SourceType("calendar").IsValid())
	assert.False(t, SourceType("").IsValid())
}

func TestRecordRef_String(t *testing.T) {
	ref := RecordRef{ID: 42, Source: SourceManual}
	assert.Equal(t, "manual:42", ref.String())
}

func TestActivityInterval_IsClosed(t *testing.T) {
	closed := ActivityInterval{Start: ts(10, 0), End: tsPtr(11, 0)}
	open := ActivityInterval{Start: ts(10, 0)}

	assert.True(t, closed.IsClosed())
	assert.False(t, open.IsClosed())
}

func TestActivityInterval_IsDegenerate(t *testing.T) {
	degenerate := ActivityInterval{Start: ts(10, 0), End: tsPtr(10, 0)}
	normal := ActivityInterval{Start: ts(10, 0), End: tsPtr(11, 0)}
	open := ActivityInterval{Start: ts(10, 0)}

	assert.True(t, degenerate.IsDegenerate())
	assert.False(t, normal.IsDegenerate())
	assert.False(t, open.IsDegenerate())
}

func TestActivityInterval_Duration(t *testing.T) {
	interval := ActivityInterval{Start: ts(10, 0), End: tsPtr(11, 30)}
	open := ActivityInterval{Start: ts(10, 0)}

	assert.Equal(t, 90*time.Minute, interval.Duration())
	assert.Equal(t, time.Duration(0), open.Duration())
}

func TestActivityInterval_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		interval ActivityInterval
		expected bool
	}{
		{name: "closed interval", interval: ActivityInterval{Start: ts(10, 0), End: tsPtr(11, 0)}, expected: true},
		{name: "open interval", interval: ActivityInterval{Start: ts(10, 0)}, expected: true},
		{name: "degenerate interval", interval: ActivityInterval{Start: ts(10, 0), End: tsPtr(10, 0)}, expected: true},
		{name: "inverted interval", interval: ActivityInterval{Start: ts(11, 0), End: tsPtr(10, 0)}, expected: false},
		{name: "missing start", interval: ActivityInterval{End: tsPtr(10, 0)}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.interval.IsValid())
		})
	}
}

func TestWindow(t *testing.T) {
	valid := Window{Start: ts(9, 0), End: ts(17, 0)}
	inverted := Window{Start: ts(17, 0), End: ts(9, 0)}
	empty := Window{Start: ts(9, 0), End: ts(9, 0)}

	assert.True(t, valid.IsValid())
	assert.Equal(t, 8*time.Hour, valid.Duration())
	assert.False(t, inverted.IsValid())
	assert.False(t, empty.IsValid())
}

func TestTimeGap_Duration(t *testing.T) {
	gap := TimeGap{Start: ts(12, 0), End: ts(13, 30)}
	assert.Equal(t, 90*time.Minute, gap.Duration())
}

func TestConflictGroup_Contains(t *testing.T) {
	group := ConflictGroup{
		Intervals: []ActivityInterval{
			{Ref: RecordRef{ID: 1, Source: SourceManual}, Start: ts(10, 0), End: tsPtr(11, 0)},
			{Ref: RecordRef{ID: 2, Source: SourceAutomatic}, Start: ts(10, 30), End: tsPtr(11, 30)},
		},
	}

	assert.True(t, group.Contains(RecordRef{ID: 1, Source: SourceManual}))
	assert.False(t, group.Contains(RecordRef{ID: 1, Source: SourceAutomatic}))
	assert.False(t, group.Contains(RecordRef{ID: 3, Source: SourceManual}))
}

func TestMergeStrategy_IsValid(t *testing.T) {
	assert.True(t, StrategyLongest.IsValid())
	assert.True(t, StrategyEarliest.IsValid())
	assert.True(t, StrategyLatest.IsValid())
	assert.True(t, StrategyManualSelection.IsValid())
	assert.False(t, MergeStrategy("newest").IsValid())
}
