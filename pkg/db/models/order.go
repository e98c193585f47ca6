package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
)

// Order is the authoritative record of a purchase. OrderID is the external
// lookup key and carries a unique index; items are a snapshot independent of
// later cart or catalog changes.
type Order struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID            string              `gorm:"column:order_id;not null;uniqueIndex:uq_orders_order_id" json:"orderId"`
	UserID             string              `gorm:"column:user_id;not null;index" json:"userId"`
	DeliveryProfileID  uuid.UUID           `gorm:"column:delivery_profile_id;type:uuid;not null" json:"deliveryProfileId"`
	CustomerEmail      string              `gorm:"column:customer_email;not null" json:"customerEmail"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;not null" json:"paymentMethod"`
	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'" json:"paymentStatus"`
	PaymentProviderRef *string             `gorm:"column:payment_provider_ref" json:"paymentProviderRef,omitempty"`
	BankSlipRef        *string             `gorm:"column:bank_slip_ref" json:"bankSlipRef,omitempty"`
	TotalAmount        decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status             enums.OrderStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	Items              []OrderItem         `gorm:"foreignKey:OrderRef;references:ID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// OrderItem is one snapshot line inside an order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderRef  uuid.UUID       `gorm:"column:order_ref;type:uuid;not null;index" json:"-"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
}
