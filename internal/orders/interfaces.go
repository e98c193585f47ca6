package orders

import (
	"context"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, status *enums.OrderStatus) ([]models.Order, error)
	ListAll(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (OrderPage, error)
	Save(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, orderID string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// Service exposes business rules for the order ledger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, status string) ([]models.Order, error)
	ListAll(ctx context.Context, params pagination.Params, status string) (OrderPage, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (*models.Order, error)
	AttachBankSlip(ctx context.Context, orderID string, slipRef string) (*models.Order, error)
	ConfirmBankSlip(ctx context.Context, orderID string) (*models.Order, error)
	Delete(ctx context.Context, orderID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
