package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15T10:30:00Z", FormatTimeForDB(ts))
}

func TestFormatTimePtrForDB(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-15T10:30:00Z", FormatTimePtrForDB(&ts))
	assert.Nil(t, FormatTimePtrForDB(nil))
}

func TestParseTimeFromDB(t *testing.T) {
	parsed, err := ParseTimeFromDB("2024-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)))

	_, err = ParseTimeFromDB("not a timestamp")
	assert.Error(t, err)
}

func TestParseTimePtrFromDB(t *testing.T) {
	parsed, err := ParseTimePtrFromDB(sql.NullString{String: "2024-03-15T10:30:00Z", Valid: true})
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.Equal(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)))

	parsed, err = ParseTimePtrFromDB(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseTimePtrFromDB(sql.NullString{String: "garbage", Valid: true})
	assert.Error(t, err)
}

func TestTimeRoundTripThroughDB(t *testing.T) {
	original := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
