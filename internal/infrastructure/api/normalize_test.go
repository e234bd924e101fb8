package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}

func TestNormalizeTopLevelKeys(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"compra": 3.75, "venta": 3.80}`))

	require.True(t, buy.Valid)
	require.True(t, sell.Valid)
	assert.Equal(t, "3.75", buy.Decimal.String())
	assert.Equal(t, "3.8", sell.Decimal.String())
}

func TestNormalizeAliasPriority(t *testing.T) {
	// compra is declared before buy, so it must win even when both exist
	buy, _ := normalizeQuote(decode(t, `{"buy": 9.99, "compra": 3.75}`))

	require.True(t, buy.Valid)
	assert.Equal(t, "3.75", buy.Decimal.String())
}

func TestNormalizeAlternateAliases(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"purchase": "3.71", "sale": "3.77"}`))

	require.True(t, buy.Valid)
	require.True(t, sell.Valid)
	assert.Equal(t, "3.71", buy.Decimal.String())
	assert.Equal(t, "3.77", sell.Decimal.String())
}

func TestNormalizeNestedOneLevel(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"data": {"compra": 3.70, "venta": 3.76}}`))

	require.True(t, buy.Valid)
	require.True(t, sell.Valid)
	assert.Equal(t, "3.7", buy.Decimal.String())
	assert.Equal(t, "3.76", sell.Decimal.String())
}

func TestNormalizeTopLevelWinsOverNested(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"compra": 3.75, "data": {"compra": 1.0, "venta": 3.80}}`))

	require.True(t, buy.Valid)
	assert.Equal(t, "3.75", buy.Decimal.String())
	require.True(t, sell.Valid)
	assert.Equal(t, "3.8", sell.Decimal.String())
}

func TestNormalizeNeverScansTwoLevelsDeep(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"outer": {"inner": {"compra": 3.75, "venta": 3.80}}}`))

	assert.False(t, buy.Valid, "a value two levels deep must stay unresolved")
	assert.False(t, sell.Valid)
}

func TestNormalizeMissingQuoteIsNull(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"message": "no quote published"}`))

	assert.False(t, buy.Valid)
	assert.False(t, sell.Valid)
}

func TestNormalizeOneSidedQuote(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"venta": 3.80}`))

	assert.False(t, buy.Valid)
	require.True(t, sell.Valid)
	assert.Equal(t, "3.8", sell.Decimal.String())
}

func TestNormalizeRejectsNonNumericValues(t *testing.T) {
	buy, sell := normalizeQuote(decode(t, `{"compra": "n/a", "venta": true}`))

	assert.False(t, buy.Valid)
	assert.False(t, sell.Valid)
}
