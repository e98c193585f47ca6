package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
)

// Refund is a one-per-order refund request. The unique index on order_id is
// the invariant; concurrent creates race at the database, not in app code.
type Refund struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"refundId"`
	OrderID     string             `gorm:"column:order_id;not null;uniqueIndex:uq_refunds_order_id" json:"orderId"`
	UserID      string             `gorm:"column:user_id;not null;index" json:"userId"`
	Amount      decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Reason      string             `gorm:"column:reason;not null" json:"reason"`
	Status      enums.RefundStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	ProcessedBy *string            `gorm:"column:processed_by" json:"processedBy,omitempty"`
	ProcessedAt *time.Time         `gorm:"column:processed_at" json:"processedAt,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
