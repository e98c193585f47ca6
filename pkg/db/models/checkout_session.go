package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/types"
)

// CheckoutSession holds everything needed to finalize a card order once the
// payment provider confirms: the cart snapshot, the delivery profile, and
// the amount the provider was asked to charge. No Order row exists until a
// session settles.
type CheckoutSession struct {
	ID                uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            string                      `gorm:"column:user_id;not null;index" json:"userId"`
	DeliveryProfileID uuid.UUID                   `gorm:"column:delivery_profile_id;type:uuid;not null" json:"deliveryProfileId"`
	CustomerEmail     string                      `gorm:"column:customer_email;not null" json:"customerEmail"`
	Items             types.OrderLines            `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	AmountMinor       int64                       `gorm:"column:amount_minor;not null" json:"amountMinor"`
	Currency          string                      `gorm:"column:currency;not null" json:"currency"`
	ProviderSessionID string                      `gorm:"column:provider_session_id;not null;uniqueIndex:uq_checkout_sessions_provider" json:"providerSessionId"`
	Status            enums.CheckoutSessionStatus `gorm:"column:status;not null;default:'open'" json:"status"`
	CreatedAt         time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
