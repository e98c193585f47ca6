package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
)

// DeliveryProfile stores one saved set of delivery details for a user.
// TotalAmount is derived (amount + delivery charge) and recomputed on every
// write; it is never trusted from caller input.
type DeliveryProfile struct {
	ID                      uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                  string               `gorm:"column:user_id;not null;index" json:"userId"`
	CustomerName            string               `gorm:"column:customer_name;not null" json:"customerName"`
	MobileNumber            string               `gorm:"column:mobile_number;not null" json:"mobileNumber"`
	Email                   string               `gorm:"column:email;not null" json:"email"`
	Address                 string               `gorm:"column:address;not null" json:"address"`
	PostalCode              string               `gorm:"column:postal_code;not null" json:"postalCode"`
	District                string               `gorm:"column:district;not null" json:"district"`
	PreferredPaymentChannel enums.PaymentMethod  `gorm:"column:preferred_payment_channel;not null;default:'cash'" json:"preferredPaymentChannel"`
	Courier                 enums.Courier        `gorm:"column:courier;not null;default:'store_delivery'" json:"courier"`
	Status                  enums.DeliveryStatus `gorm:"column:status;not null;default:'Pending'" json:"status"`
	Amount                  decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	DeliveryCharge          decimal.Decimal      `gorm:"column:delivery_charge;type:numeric(12,2);not null" json:"deliveryCharge"`
	TotalAmount             decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	CreatedAt               time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt               time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
