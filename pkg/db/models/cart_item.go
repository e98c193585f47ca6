package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line in a user's cart. The composite unique index is what
// makes duplicate add-to-cart calls fail at the storage layer instead of
// relying on a racy lookup-before-insert.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"itemId"`
	UserID    string          `gorm:"column:user_id;not null;index;uniqueIndex:uq_cart_items_user_line" json:"userId"`
	Name      string          `gorm:"column:name;not null;uniqueIndex:uq_cart_items_user_line" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;uniqueIndex:uq_cart_items_user_line" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	ImageRef  string          `gorm:"column:image_ref;not null;default:'';uniqueIndex:uq_cart_items_user_line" json:"imageRef"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
