package curve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenorDate(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC) // Wednesday

	// One week.
	got, err := TenorDate("USD", "USOSFR1Z BGN Curncy", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC), got)

	// Six months.
	got, err = TenorDate("USD", "USOSFRF BGN Curncy", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.December, 11, 0, 0, 0, 0, time.UTC), got)

	// Eighteen months, not shadowed by the six-month "F" code.
	got, err = TenorDate("USD", "USOSFR1F BGN Curncy", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 11, 0, 0, 0, 0, time.UTC), got)

	// Twelve months on the TARGET calendar.
	got, err = TenorDate("EUR", "EESWE1 BGN Curncy", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestTenorDate_RollsToBusinessDay(t *testing.T) {
	t.Parallel()

	// 2025-06-07 is a Saturday; one week out is again a Saturday and the
	// tenor date rolls to the following Monday.
	ref := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	got, err := TenorDate("USD", "USOSFR1Z BGN Curncy", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), got)
}

func TestTenorDate_Errors(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)

	_, err := TenorDate("JPY", "USOSFR1 BGN Curncy", ref)
	require.Error(t, err)

	_, err = TenorDate("USD", "USOSFR1", ref)
	require.Error(t, err)
}
