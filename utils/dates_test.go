package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("20250613")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2025-06-13")
	require.Error(t, err)
	_, err = ParseDate("20251345")
	require.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "20250613", FormatDate(time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)))
}

func TestTimeToExpiry(t *testing.T) {
	t.Parallel()

	days, years, err := TimeToExpiry("20250613", "20251212")
	require.NoError(t, err)
	assert.Equal(t, 182, days)
	assert.InDelta(t, 182.0/365.0, years, 1e-12)

	days, years, err = TimeToExpiry("20250613", "20250613")
	require.NoError(t, err)
	assert.Equal(t, 0, days)
	assert.Zero(t, years)

	_, _, err = TimeToExpiry("bad", "20251212")
	require.Error(t, err)
}

func TestDays(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, Days(start, start.AddDate(0, 0, 7)))
	assert.Equal(t, -7, Days(start.AddDate(0, 0, 7), start))
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 4.12, RoundTo(4.12345, 2), 1e-12)
	assert.InDelta(t, 4.0, RoundTo(4.12345, 0), 1e-12)
}
