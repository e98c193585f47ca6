package types

import "github.com/shopspring/decimal"

// OrderLine is the immutable snapshot of one purchased item. Orders keep
// their own copy so later cart or catalog edits never change what was sold.
type OrderLine struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderLines is the JSON-serialized collection stored on checkout sessions.
type OrderLines []OrderLine

// Total sums unitPrice * quantity across the lines.
func (lines OrderLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
