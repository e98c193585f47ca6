package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemInput carries the writable catalogue fields.
type ItemInput struct {
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
	StockQty  int             `json:"stockQty" validate:"gte=0"`
	Category  string          `json:"category"`
	ImageRef  string          `json:"imageRef"`
}

// Service exposes business rules for the product catalogue.
type Service interface {
	Create(ctx context.Context, input ItemInput) (*models.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, category string) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, input ItemInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input ItemInput) (*models.InventoryItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		Name:      strings.TrimSpace(input.Name),
		UnitPrice: input.UnitPrice,
		StockQty:  input.StockQty,
		Category:  strings.TrimSpace(input.Category),
		ImageRef:  strings.TrimSpace(input.ImageRef),
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_inventory_items_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "catalogue item already exists").
				WithDetails(map[string]any{"name": item.Name})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create catalogue item")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "catalogue item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalogue item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, category string) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalogue")
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ItemInput) (*models.InventoryItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.UnitPrice = input.UnitPrice
	item.StockQty = input.StockQty
	item.Category = strings.TrimSpace(input.Category)
	item.ImageRef = strings.TrimSpace(input.ImageRef)

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_inventory_items_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "catalogue item already exists").
				WithDetails(map[string]any{"name": item.Name})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update catalogue item")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete catalogue item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "catalogue item not found")
	}
	return nil
}

func validateItemInput(input ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if !input.UnitPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	return nil
}
