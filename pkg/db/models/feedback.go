package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a customer review, optionally tied to an order.
type Feedback struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"userId"`
	OrderID   *string   `gorm:"column:order_id" json:"orderId,omitempty"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;not null" json:"comment"`
	ImageRef  *string   `gorm:"column:image_ref" json:"imageRef,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
