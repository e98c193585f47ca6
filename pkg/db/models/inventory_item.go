package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a catalog row. Checkout re-prices cart snapshots against
// it so client-supplied prices cannot drift from the catalog.
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"column:name;not null;uniqueIndex:uq_inventory_items_name" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	StockQty  int             `gorm:"column:stock_qty;not null;default:0" json:"stockQty"`
	Category  string          `gorm:"column:category;not null;default:''" json:"category"`
	ImageRef  string          `gorm:"column:image_ref;not null;default:''" json:"imageRef"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
