package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SFRZ6 Comdty", NormalizeTicker("  sfrz6 "))
	assert.Equal(t, "SFRZ6 COMDTY", NormalizeTicker("SFRZ6 Comdty"))
	assert.Equal(t, "SFRZ6P 96 COMB COMDTY", NormalizeTicker("SFRZ6P 96 COMB Comdty"))
}

func TestInferCurrency(t *testing.T) {
	t.Parallel()

	ccy, err := InferCurrency("SFRZ6 Comdty")
	require.NoError(t, err)
	assert.Equal(t, "USD", ccy)

	ccy, err = InferCurrency("ERH5")
	require.NoError(t, err)
	assert.Equal(t, "EUR", ccy)

	ccy, err = InferCurrency("SFIM6")
	require.NoError(t, err)
	assert.Equal(t, "GBP", ccy)
}

func TestInferCurrency_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := InferCurrency("XYZ123")
	require.ErrorIs(t, err, ErrUnsupportedTicker)
	assert.Contains(t, err.Error(), "XYZ123")
}

func TestParseContractCode(t *testing.T) {
	t.Parallel()

	month, year := ParseContractCode("SFRZ6")
	assert.Equal(t, "December", month)
	assert.Equal(t, "2026", year)

	month, year = ParseContractCode("sfrh5 Comdty")
	assert.Equal(t, "March", month)
	assert.Equal(t, "2025", year)
}

func TestParseContractCode_TooShort(t *testing.T) {
	t.Parallel()

	month, year := ParseContractCode("XYZ")
	assert.Equal(t, "Unknown", month)
	assert.Equal(t, "Unknown", year)
}

func TestParseContractCode_UnknownMonth(t *testing.T) {
	t.Parallel()

	month, year := ParseContractCode("SFRA6")
	assert.Equal(t, "Unknown", month)
	assert.Equal(t, "2026", year)
}

func TestParseContractCodeIn_Epoch(t *testing.T) {
	t.Parallel()

	_, year := ParseContractCodeIn("SFRZ6", 2030)
	assert.Equal(t, "2036", year)
}
