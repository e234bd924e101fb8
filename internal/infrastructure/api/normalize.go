package api

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Alias tables for the heterogeneous quote response shapes the service is
// known to return. Scanned in declared order; first present key wins.
var (
	buyAliases  = []string{"compra", "buy", "purchase", "compra_sunat"}
	sellAliases = []string{"venta", "sell", "sale", "venta_sunat"}
)

// normalizeQuote resolves the buy and sell values from a decoded response
// body. Each field is scanned at the top level first; a field still
// unresolved after that gets exactly one level of nested-object scanning.
// Deeper nesting is never inspected. An unresolved field stays null, which
// is a normal outcome for dates without a published quote.
func normalizeQuote(doc map[string]interface{}) (buy, sell decimal.NullDecimal) {
	buy = scanAliases(doc, buyAliases)
	sell = scanAliases(doc, sellAliases)

	if buy.Valid && sell.Valid {
		return buy, sell
	}

	// Nested objects are visited in sorted key order so resolution is
	// deterministic regardless of map iteration order.
	for _, key := range sortedKeys(doc) {
		nested, ok := doc[key].(map[string]interface{})
		if !ok {
			continue
		}
		if !buy.Valid {
			buy = scanAliases(nested, buyAliases)
		}
		if !sell.Valid {
			sell = scanAliases(nested, sellAliases)
		}
		if buy.Valid && sell.Valid {
			break
		}
	}

	return buy, sell
}

func scanAliases(obj map[string]interface{}, aliases []string) decimal.NullDecimal {
	for _, alias := range aliases {
		value, present := obj[alias]
		if !present {
			continue
		}
		if d, ok := coerceDecimal(value); ok {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

// coerceDecimal accepts the two shapes the service emits rates in: JSON
// numbers and numeric strings.
func coerceDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

func sortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
