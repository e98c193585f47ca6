package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: repo}, nil
}

// Create records an order. Line items must be non-empty and the claimed
// total must equal the sum of the lines; an order whose stored total
// disagrees with its items never enters the ledger.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.DeliveryProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery profile id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range input.Items {
		if strings.TrimSpace(line.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line name is required")
		}
		if !line.UnitPrice.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line price must be positive")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line quantity must be at least 1")
		}
	}
	if derived := input.Items.Total(); !derived.Equal(input.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total does not match item lines").
			WithDetails(map[string]any{
				"claimedTotal": input.TotalAmount,
				"derivedTotal": derived,
			})
	}

	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}

	order := &models.Order{
		OrderID:            orderID,
		UserID:             strings.TrimSpace(input.UserID),
		DeliveryProfileID:  input.DeliveryProfileID,
		CustomerEmail:      strings.TrimSpace(input.CustomerEmail),
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      input.PaymentStatus,
		PaymentProviderRef: input.PaymentProviderRef,
		TotalAmount:        input.TotalAmount,
		Status:             enums.OrderStatusPending,
	}
	for _, line := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_orders_order_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "order id already used").
				WithDetails(map[string]any{"orderId": orderID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, status string) ([]models.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, status string) (OrderPage, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return OrderPage{}, err
	}
	page, err := s.repo.ListAll(ctx, params, filter)
	if err != nil {
		return OrderPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all orders")
	}
	return page, nil
}

// UpdateStatus moves an order through its lifecycle. Only whitelisted
// transitions are applied; anything else is a state conflict so a cancelled
// order can never complete.
func (s *service) UpdateStatus(ctx context.Context, orderID string, status string) (*models.Order, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
			WithDetails(map[string]any{"from": order.Status, "to": next})
	}

	order.Status = next
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return saved, nil
}

// AttachBankSlip stores a slip reference on a bank transfer order that is
// still awaiting payment.
func (s *service) AttachBankSlip(ctx context.Context, orderID string, slipRef string) (*models.Order, error) {
	if strings.TrimSpace(slipRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slip reference is required")
	}
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodBankSlip {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order was not placed with bank transfer")
	}
	if order.PaymentStatus != enums.PaymentStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment").
			WithDetails(map[string]any{"paymentStatus": order.PaymentStatus})
	}

	order.BankSlipRef = &slipRef
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach bank slip")
	}
	return saved, nil
}

// ConfirmBankSlip marks an awaiting bank transfer order as paid after an
// admin has checked the uploaded slip.
func (s *service) ConfirmBankSlip(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodBankSlip {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order was not placed with bank transfer")
	}
	if order.PaymentStatus != enums.PaymentStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment").
			WithDetails(map[string]any{"paymentStatus": order.PaymentStatus})
	}
	if order.BankSlipRef == nil || strings.TrimSpace(*order.BankSlipRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no bank slip uploaded for this order")
	}

	order.PaymentStatus = enums.PaymentStatusPaid
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm bank slip")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	affected, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) DeleteAllForUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user orders")
	}
	return nil
}

func parseStatusFilter(status string) (*enums.OrderStatus, error) {
	if strings.TrimSpace(status) == "" {
		return nil, nil
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &parsed, nil
}
