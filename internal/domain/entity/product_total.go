package entity

import "github.com/shopspring/decimal"

// ProductTotal is the converted-value sum for one product, derived once per
// conversion run. Only products with at least one resolved sales row are ever
// materialized, so TotalConverted is always a real value.
type ProductTotal struct {
	Product        string          `json:"product"`
	TotalConverted decimal.Decimal `json:"total_converted"`
}
