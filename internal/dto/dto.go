// Package dto holds the request and response shapes of the HTTP API and
// the conversions between them and the persistence models.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, matching what the web client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// IDRef is a reference to another entity by id, as in {"id": 3}.
type IDRef struct {
	ID int64 `json:"id"`
}
