package orders

import (
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the full description of an order to record. TotalAmount is
// what the caller believes the order costs; Create re-derives the sum from
// the lines and rejects any mismatch.
type CreateInput struct {
	OrderID            string
	UserID             string
	DeliveryProfileID  uuid.UUID
	CustomerEmail      string
	PaymentMethod      enums.PaymentMethod
	PaymentStatus      enums.PaymentStatus
	PaymentProviderRef *string
	Items              types.OrderLines
	TotalAmount        decimal.Decimal
}

// OrderPage is one cursor page of the admin order listing.
type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
	HasMore    bool           `json:"hasMore"`
}
