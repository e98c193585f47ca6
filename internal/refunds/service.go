package refunds

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLoader is the slice of the orders repository the refund flow needs.
type OrderLoader interface {
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
}

// CreateInput carries a refund request from the client.
type CreateInput struct {
	OrderID string          `json:"orderId" validate:"required"`
	UserID  string          `json:"userId" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Reason  string          `json:"reason" validate:"required"`
}

// ServiceParams groups dependencies for the refunds service.
type ServiceParams struct {
	RefundRepo Repository
	Orders     OrderLoader
}

// Service exposes business rules for the refund ledger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Refund, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Refund, error)
	GetByOrder(ctx context.Context, orderID string) (*models.Refund, error)
	ListByUser(ctx context.Context, userID string) ([]models.Refund, error)
	ListAll(ctx context.Context, status string) ([]models.Refund, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor string) (*models.Refund, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	refundRepo Repository
	orders     OrderLoader
}

// NewService builds a refunds service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.RefundRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund repo is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order loader is required")
	}
	return &service{refundRepo: params.RefundRepo, orders: params.Orders}, nil
}

// Create opens a refund request. One refund per order is enforced by the
// unique index on order_id; when two requests race, the loser gets the
// surviving refund back in the error details.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Refund, error) {
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
	}

	order, err := s.orders.FindByOrderID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	if input.Amount.GreaterThan(order.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds order total").
			WithDetails(map[string]any{"orderTotal": order.TotalAmount})
	}
	if !refundEligible(order) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order payment has not been captured; nothing to refund").
			WithDetails(map[string]any{
				"paymentStatus": order.PaymentStatus,
				"orderStatus":   order.Status,
			})
	}

	refund := &models.Refund{
		OrderID: strings.TrimSpace(input.OrderID),
		UserID:  strings.TrimSpace(input.UserID),
		Amount:  input.Amount,
		Reason:  strings.TrimSpace(input.Reason),
		Status:  enums.RefundStatusPending,
	}

	created, err := s.refundRepo.Create(ctx, refund)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_refunds_order_id") {
			existing, findErr := s.refundRepo.FindByOrderID(ctx, refund.OrderID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load existing refund")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "A refund request already exists for this order").
				WithDetails(map[string]any{"existingRefund": existing})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
	}
	return created, nil
}

// refundEligible reports whether money was actually collected for the order:
// card and bank-slip payments once marked paid, cash once the order completed
// (cash changes hands on handover).
func refundEligible(order *models.Order) bool {
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return true
	}
	return order.PaymentMethod == enums.PaymentMethodCash && order.Status == enums.OrderStatusCompleted
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund id is required")
	}
	refund, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "refund not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
	}
	return refund, nil
}

func (s *service) GetByOrder(ctx context.Context, orderID string) (*models.Refund, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	refund, err := s.refundRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "refund not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
	}
	return refund, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]models.Refund, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	out, err := s.refundRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context, status string) ([]models.Refund, error) {
	var filter *enums.RefundStatus
	if strings.TrimSpace(status) != "" {
		parsed, err := enums.ParseRefundStatus(status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}
	out, err := s.refundRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all refunds")
	}
	return out, nil
}

// UpdateStatus moves a refund through review. Only whitelisted transitions
// apply: pending may be approved or rejected, approved may be processed,
// and rejected or processed refunds never change again.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actor string) (*models.Refund, error) {
	next, err := enums.ParseRefundStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund status")
	}

	refund, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !refund.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "refund status transition not allowed").
			WithDetails(map[string]any{"from": refund.Status, "to": next})
	}

	refund.Status = next
	if actor = strings.TrimSpace(actor); actor != "" {
		refund.ProcessedBy = &actor
	}
	if next == enums.RefundStatusProcessed {
		now := time.Now().UTC()
		refund.ProcessedAt = &now
	}

	saved, err := s.refundRepo.Save(ctx, refund)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refund status")
	}
	return saved, nil
}

// Delete removes a refund request that has not been paid out.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	refund, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if refund.Status == enums.RefundStatusProcessed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "processed refunds cannot be deleted")
	}
	affected, err := s.refundRepo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete refund")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "refund not found")
	}
	return nil
}
