package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/cart"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/delivery"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/inventory"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/orders"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/payments"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/mail"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/types"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input describes one checkout attempt. The order lines always come from the
// user's stored cart, never from the request body.
type Input struct {
	UserID            string                 `json:"userId" validate:"required"`
	OrderID           string                 `json:"orderId"`
	CustomerEmail     string                 `json:"customerEmail"`
	PaymentMethod     string                 `json:"paymentMethod" validate:"required"`
	DeliveryProfileID *uuid.UUID             `json:"deliveryProfileId"`
	DeliveryProfile   *delivery.ProfileInput `json:"deliveryProfile"`
}

// Result is what a checkout attempt hands back: an order for cash and bank
// transfer, a provider redirect for card.
type Result struct {
	Order       *models.Order `json:"order,omitempty"`
	SessionID   string        `json:"sessionId,omitempty"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

// ServiceParams groups dependencies for the checkout orchestrator.
type ServiceParams struct {
	Tx            TxRunner
	CartRepo      cart.Repository
	OrdersRepo    orders.Repository
	SessionRepo   SessionRepository
	InventoryRepo inventory.Repository
	Delivery      delivery.Service
	Gateway       payments.Gateway
	Notifier      mail.Notifier
	Config        config.CheckoutConfig
	Logger        *logger.Logger
}

// Service turns a cart into an order.
type Service interface {
	Execute(ctx context.Context, input Input) (*Result, error)
	Confirm(ctx context.Context, providerSessionID string) (*models.Order, error)
	Fail(ctx context.Context, providerSessionID string) error
}

type service struct {
	tx            TxRunner
	cartRepo      cart.Repository
	ordersRepo    orders.Repository
	sessionRepo   SessionRepository
	inventoryRepo inventory.Repository
	delivery      delivery.Service
	gateway       payments.Gateway
	notifier      mail.Notifier
	cfg           config.CheckoutConfig
	logger        *logger.Logger
}

// NewService builds the checkout orchestrator with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.SessionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session repo is required")
	}
	if params.Delivery == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery service is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	return &service{
		tx:            params.Tx,
		cartRepo:      params.CartRepo,
		ordersRepo:    params.OrdersRepo,
		sessionRepo:   params.SessionRepo,
		inventoryRepo: params.InventoryRepo,
		delivery:      params.Delivery,
		gateway:       params.Gateway,
		notifier:      params.Notifier,
		cfg:           params.Config,
		logger:        params.Logger,
	}, nil
}

// Execute runs a checkout. Side effects happen in a fixed order: delivery
// profile first, then the charge (card only), then the order, and the cart is
// cleared only in the same transaction that durably created the order.
func (s *service) Execute(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	profile, err := s.resolveDeliveryProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" {
		email = profile.Email
	}

	lines, err := s.loadCartLines(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repriceAgainstCatalogue(ctx, lines); err != nil {
		return nil, err
	}
	total := lines.Total()

	switch method {
	case enums.PaymentMethodCard:
		return s.startCardCheckout(ctx, input, profile, email, lines, total)
	case enums.PaymentMethodBankSlip:
		return s.recordOrder(ctx, input, profile, email, lines, total, method, enums.PaymentStatusAwaitingPayment, nil)
	default:
		return s.recordOrder(ctx, input, profile, email, lines, total, method, enums.PaymentStatusPending, nil)
	}
}

// Confirm finalizes a card checkout after the provider reports the session
// paid. Settled sessions replay as a no-op returning the existing order, so
// the synchronous confirm and the webhook can both fire safely.
func (s *service) Confirm(ctx context.Context, providerSessionID string) (*models.Order, error) {
	session, err := s.loadSession(ctx, providerSessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case enums.CheckoutSessionStatusSettled:
		return s.orderForSession(ctx, session)
	case enums.CheckoutSessionStatusFailed:
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment was not completed; start a new checkout")
	}

	result, err := s.gateway.Confirm(ctx, session.ProviderSessionID, session.AmountMinor)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded {
		if !result.Terminal {
			// The shopper has not finished the hosted payment page yet. The
			// session stays open so a later confirm or the webhook can
			// settle it once the payment lands.
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed yet")
		}
		session.Status = enums.CheckoutSessionStatusFailed
		if _, saveErr := s.sessionRepo.Save(ctx, session); saveErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, saveErr, "mark checkout session failed")
		}
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined, "payment was not completed; the cart is unchanged")
	}

	return s.finalizeSession(ctx, session)
}

// Fail marks an open session failed, e.g. when the provider reports it
// expired. Settled sessions are left alone.
func (s *service) Fail(ctx context.Context, providerSessionID string) error {
	session, err := s.loadSession(ctx, providerSessionID)
	if err != nil {
		return err
	}
	if session.Status != enums.CheckoutSessionStatusOpen {
		return nil
	}
	session.Status = enums.CheckoutSessionStatusFailed
	if _, err := s.sessionRepo.Save(ctx, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark checkout session failed")
	}
	return nil
}

func (s *service) resolveDeliveryProfile(ctx context.Context, input Input) (*models.DeliveryProfile, error) {
	if input.DeliveryProfile != nil {
		profile := *input.DeliveryProfile
		profile.UserID = input.UserID
		return s.delivery.Create(ctx, profile)
	}
	if input.DeliveryProfileID == nil || *input.DeliveryProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery details are required")
	}
	profile, err := s.delivery.Get(ctx, *input.DeliveryProfileID)
	if err != nil {
		return nil, err
	}
	if profile.UserID != input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "delivery profile belongs to another user")
	}
	return profile, nil
}

func (s *service) loadCartLines(ctx context.Context, userID string) (types.OrderLines, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	lines := make(types.OrderLines, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.OrderLine{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}

// repriceAgainstCatalogue rejects checkouts whose cart lines no longer match
// the catalogue price, instead of silently charging a stale amount.
func (s *service) repriceAgainstCatalogue(ctx context.Context, lines types.OrderLines) error {
	if s.inventoryRepo == nil {
		return nil
	}
	for _, line := range lines {
		item, err := s.inventoryRepo.FindByName(ctx, line.Name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalogue item")
		}
		if !item.UnitPrice.Equal(line.UnitPrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart price is out of date").
				WithDetails(map[string]any{
					"item":         line.Name,
					"cartPrice":    line.UnitPrice,
					"currentPrice": item.UnitPrice,
				})
		}
	}
	return nil
}

// recordOrder creates the order and clears the cart in one transaction, so a
// crash between the two can never leave a paid cart behind.
func (s *service) recordOrder(
	ctx context.Context,
	input Input,
	profile *models.DeliveryProfile,
	email string,
	lines types.OrderLines,
	total decimal.Decimal,
	method enums.PaymentMethod,
	paymentStatus enums.PaymentStatus,
	providerRef *string,
) (*Result, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersSvc, err := orders.NewService(s.ordersRepo.WithTx(tx))
		if err != nil {
			return err
		}
		order, err = ordersSvc.Create(ctx, orders.CreateInput{
			OrderID:            input.OrderID,
			UserID:             input.UserID,
			DeliveryProfileID:  profile.ID,
			CustomerEmail:      email,
			PaymentMethod:      method,
			PaymentStatus:      paymentStatus,
			PaymentProviderRef: providerRef,
			Items:              lines,
			TotalAmount:        total,
		})
		if err != nil {
			return err
		}
		if _, err := s.cartRepo.WithTx(tx).DeleteAllForUser(ctx, input.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, order)
	return &Result{Order: order}, nil
}

func (s *service) startCardCheckout(
	ctx context.Context,
	input Input,
	profile *models.DeliveryProfile,
	email string,
	lines types.OrderLines,
	total decimal.Decimal,
) (*Result, error) {
	amountMinor := total.Round(2).Shift(2).IntPart()
	if amountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	providerSession, err := s.gateway.CreateSession(ctx, payments.SessionRequest{
		AmountMinor: amountMinor,
		Currency:    s.cfg.Currency,
		Description: fmt.Sprintf("Order for %s", profile.CustomerName),
		CustomerRef: input.UserID,
	})
	if err != nil {
		return nil, err
	}

	session := &models.CheckoutSession{
		ID:                uuid.New(),
		UserID:            input.UserID,
		DeliveryProfileID: profile.ID,
		CustomerEmail:     email,
		Items:             lines,
		AmountMinor:       amountMinor,
		Currency:          s.cfg.Currency,
		ProviderSessionID: providerSession.SessionID,
		Status:            enums.CheckoutSessionStatusOpen,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist checkout session")
	}

	return &Result{
		SessionID:   providerSession.SessionID,
		RedirectURL: providerSession.RedirectURL,
	}, nil
}

// finalizeSession creates the order, clears the cart, and settles the session
// in one transaction. The order id is derived from the session row, so a
// concurrent webhook and sync confirm collapse onto the same order via the
// order_id unique constraint.
func (s *service) finalizeSession(ctx context.Context, session *models.CheckoutSession) (*models.Order, error) {
	orderID := session.ID.String()
	providerRef := session.ProviderSessionID

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersSvc, err := orders.NewService(s.ordersRepo.WithTx(tx))
		if err != nil {
			return err
		}
		order, err = ordersSvc.Create(ctx, orders.CreateInput{
			OrderID:            orderID,
			UserID:             session.UserID,
			DeliveryProfileID:  session.DeliveryProfileID,
			CustomerEmail:      session.CustomerEmail,
			PaymentMethod:      enums.PaymentMethodCard,
			PaymentStatus:      enums.PaymentStatusPaid,
			PaymentProviderRef: &providerRef,
			Items:              session.Items,
			TotalAmount:        session.Items.Total(),
		})
		if err != nil {
			return err
		}
		if _, err := s.cartRepo.WithTx(tx).DeleteAllForUser(ctx, session.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		session.Status = enums.CheckoutSessionStatusSettled
		if _, err := s.sessionRepo.WithTx(tx).Save(ctx, session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle checkout session")
		}
		return nil
	})
	if err != nil {
		// Lost the race against another finalizer for the same session.
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDuplicate {
			return s.ordersRepo.FindByOrderID(ctx, orderID)
		}
		return nil, err
	}

	s.sendConfirmation(ctx, order)
	return order, nil
}

func (s *service) loadSession(ctx context.Context, providerSessionID string) (*models.CheckoutSession, error) {
	if strings.TrimSpace(providerSessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	session, err := s.sessionRepo.FindByProviderSessionID(ctx, providerSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	return session, nil
}

func (s *service) orderForSession(ctx context.Context, session *models.CheckoutSession) (*models.Order, error) {
	order, err := s.ordersRepo.FindByOrderID(ctx, session.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settled order")
	}
	return order, nil
}

// sendConfirmation emails the customer about their new order. Mail failures
// never fail a checkout.
func (s *service) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.notifier == nil || order == nil || strings.TrimSpace(order.CustomerEmail) == "" {
		return
	}
	subject := fmt.Sprintf("Order %s received", order.OrderID)
	body := fmt.Sprintf(
		"Thank you for your order.\n\nOrder ID: %s\nTotal: %s\nPayment: %s\n",
		order.OrderID, order.TotalAmount.StringFixed(2), order.PaymentMethod,
	)
	if err := s.notifier.Send(ctx, order.CustomerEmail, subject, body); err != nil && s.logger != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "order confirmation email failed")
	}
}
