package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

func newTestReader() *SalesCSVReader {
	return NewSalesCSVReader(logger.NewJSONLogger(nil, logger.FatalLevel))
}

func TestLoadWithSpanishHeader(t *testing.T) {
	input := `fecha,producto,precio,cantidad
2023-01-02,Laptop,1000.00,2
2023-01-03,Monitor,150.50,1
`
	records, err := newTestReader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Laptop", records[0].Product)
	assert.Equal(t, "2023-01-02", records[0].Date.Format("2006-01-02"))
	assert.Equal(t, "1000", records[0].UnitPrice.String())
	assert.Equal(t, "2", records[0].Quantity.String())
	assert.Equal(t, "Monitor", records[1].Product, "rows must stay in input order")
}

func TestLoadWithEnglishAliases(t *testing.T) {
	input := `Date,Item,Price,Qty
2023-01-02,Keyboard,25.99,3
`
	records, err := newTestReader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Keyboard", records[0].Product)
	assert.Equal(t, "25.99", records[0].UnitPrice.String())
}

func TestLoadQuantityDefaultsToOne(t *testing.T) {
	input := `fecha,producto,precio
2023-01-02,Laptop,1000.00
`
	records, err := newTestReader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Quantity.String())
}

func TestLoadSlashDates(t *testing.T) {
	input := `fecha,producto,precio
15/03/2023,Laptop,1000.00
`
	records, err := newTestReader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2023-03-15", records[0].Date.Format("2006-01-02"))
}

func TestLoadMissingRequiredColumns(t *testing.T) {
	cases := []struct {
		name   string
		header string
		role   string
	}{
		{"no date", "producto,precio", "date"},
		{"no product", "fecha,precio", "product"},
		{"no price", "fecha,producto", "price"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestReader().Load(strings.NewReader(tc.header + "\n"))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.role, schemaErr.Role)
		})
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	input := `fecha,producto,precio,cantidad
2023-01-02,Laptop,1000.00,2
not-a-date,Monitor,150.50,1
2023-01-04,Mouse,not-a-price,1
2023-01-05,,10.00,1
2023-01-06,Desk,75.00,4
`
	records, err := newTestReader().Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2, "malformed rows are skipped, not fatal")
	assert.Equal(t, "Laptop", records[0].Product)
	assert.Equal(t, "Desk", records[1].Product)
}

func TestLoadEmptyInput(t *testing.T) {
	_, err := newTestReader().Load(strings.NewReader(""))
	assert.Error(t, err, "a headerless input cannot be mapped")
}
