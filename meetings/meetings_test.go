package meetings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCSVSource(t *testing.T) *CSVSource {
	t.Helper()
	dir := t.TempDir()
	fomc := writeCSV(t, dir, "fomc.csv", "date,notes\n2025-06-18,\n2025-07-30,\n2025-09-17,dots\n2025-10-29,\n2025-12-10,\n")
	ecb := writeCSV(t, dir, "ecb.csv", "DATE\n2025-06-05\n2025-07-24\n2025-09-11\n")
	return NewCSVSource(map[string]string{"USD": fomc, "EUR": ecb})
}

func TestCountInRange(t *testing.T) {
	t.Parallel()

	src := testCSVSource(t)
	got, err := CountInRange(src, "USD", "20250701", "20251031")
	require.NoError(t, err)

	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "Federal Reserve", got.CentralBank)
	assert.Equal(t, "FOMC", got.MeetingType)
	assert.Equal(t, 3, got.NumMeetings)
	assert.Equal(t, []string{"2025-07-30", "2025-09-17", "2025-10-29"}, got.Meetings)
}

func TestCountInRange_InclusiveBounds(t *testing.T) {
	t.Parallel()

	src := testCSVSource(t)
	got, err := CountInRange(src, "USD", "20250618", "20250730")
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumMeetings)
}

func TestCountInRange_HeaderCaseInsensitive(t *testing.T) {
	t.Parallel()

	src := testCSVSource(t)
	got, err := CountInRange(src, "EUR", "20250101", "20251231")
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumMeetings)
	assert.Equal(t, "ECB Governing Council", got.MeetingType)
}

func TestCountInRange_InputErrors(t *testing.T) {
	t.Parallel()

	src := testCSVSource(t)

	_, err := CountInRange(src, "JPY", "20250101", "20251231")
	require.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = CountInRange(src, "USD", "2025-01-01", "20251231")
	require.Error(t, err)

	_, err = CountInRange(src, "USD", "20250101", "20241231")
	require.ErrorContains(t, err, "after end date")

	// In the bank table, but not configured on this source.
	_, err = CountInRange(src, "GBP", "20250101", "20251231")
	require.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestCSVSource_BadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := NewCSVSource(map[string]string{
		"USD": filepath.Join(dir, "missing.csv"),
		"EUR": writeCSV(t, dir, "nodate.csv", "when\n2025-06-05\n"),
		"GBP": writeCSV(t, dir, "badrow.csv", "date\n18 June 2025\n"),
	})

	_, err := src.MeetingDates("USD")
	require.Error(t, err)

	_, err = src.MeetingDates("EUR")
	require.ErrorContains(t, err, "no 'date' column")

	_, err = src.MeetingDates("GBP")
	require.ErrorContains(t, err, "bad date")
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	d := func(m time.Month, day int) time.Time {
		return time.Date(2025, m, day, 0, 0, 0, 0, time.UTC)
	}
	require.NoError(t, store.Add("USD", d(time.June, 18), d(time.July, 30), d(time.September, 17)))
	// Duplicate insert is a no-op.
	require.NoError(t, store.Add("USD", d(time.June, 18)))
	require.NoError(t, store.Add("GBP", d(time.June, 19)))

	got, err := CountInRange(store, "USD", "20250101", "20251231")
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumMeetings)
	assert.Equal(t, []string{"2025-06-18", "2025-07-30", "2025-09-17"}, got.Meetings)

	got, err = CountInRange(store, "GBP", "20250101", "20251231")
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumMeetings)
	assert.Equal(t, "Bank of England", got.CentralBank)

	// Currency with no rows yields zero meetings rather than an error.
	got, err = CountInRange(store, "EUR", "20250101", "20251231")
	require.NoError(t, err)
	assert.Zero(t, got.NumMeetings)
}
