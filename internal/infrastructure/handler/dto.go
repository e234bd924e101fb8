package handler

import (
	"github.com/shopspring/decimal"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
)

// RateResponse represents a stored or resolved rate. Null sides are null in
// the body, not omitted: "checked but unavailable" is part of the contract.
type RateResponse struct {
	Date string  `json:"date"`
	Buy  *string `json:"buy"`
	Sell *string `json:"sell"`
}

// ProductTotalResponse represents one product's converted total
type ProductTotalResponse struct {
	Product        string `json:"product"`
	TotalConverted string `json:"total_converted"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func decimalPtr(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func rateResponse(date string, buy, sell decimal.NullDecimal) RateResponse {
	return RateResponse{
		Date: date,
		Buy:  decimalPtr(buy),
		Sell: decimalPtr(sell),
	}
}

func productTotalResponses(totals []entity.ProductTotal) []ProductTotalResponse {
	out := make([]ProductTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, ProductTotalResponse{
			Product:        t.Product,
			TotalConverted: t.TotalConverted.String(),
		})
	}
	return out
}
