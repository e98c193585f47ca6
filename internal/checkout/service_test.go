package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/cart"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/delivery"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/orders"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/payments"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/pagination"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeCartRepo struct {
	items   map[string][]models.CartItem
	cleared map[string]int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string][]models.CartItem), cleared: make(map[string]int)}
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) cart.Repository { return f }

func (f *fakeCartRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	f.items[item.UserID] = append(f.items[item.UserID], *item)
	return item, nil
}

func (f *fakeCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindByUserLine(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	return f.items[userID], nil
}

func (f *fakeCartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (int64, error) {
	return 0, nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, userID string, id uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeCartRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	count := int64(len(f.items[userID]))
	delete(f.items, userID)
	f.cleared[userID]++
	return count, nil
}

type fakeOrdersRepo struct {
	orders map[string]*models.Order
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if _, exists := f.orders[order.OrderID]; exists {
		return nil, errDuplicateOrderID()
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	f.orders[order.OrderID] = &copied
	return order, nil
}

func (f *fakeOrdersRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrdersRepo) ListByUser(ctx context.Context, userID string, status *enums.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersRepo) ListAll(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (orders.OrderPage, error) {
	return orders.OrderPage{}, nil
}

func (f *fakeOrdersRepo) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	copied := *order
	f.orders[order.OrderID] = &copied
	return order, nil
}

func (f *fakeOrdersRepo) Delete(ctx context.Context, orderID string) (int64, error) {
	return 0, nil
}

func (f *fakeOrdersRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.CheckoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.CheckoutSession)}
}

func (f *fakeSessionRepo) WithTx(tx *gorm.DB) SessionRepository { return f }

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, error) {
	copied := *session
	f.sessions[session.ProviderSessionID] = &copied
	return session, nil
}

func (f *fakeSessionRepo) FindByProviderSessionID(ctx context.Context, providerSessionID string) (*models.CheckoutSession, error) {
	session, ok := f.sessions[providerSessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, error) {
	copied := *session
	f.sessions[session.ProviderSessionID] = &copied
	return session, nil
}

type fakeDeliveryService struct {
	profiles map[uuid.UUID]*models.DeliveryProfile
}

func newFakeDeliveryService() *fakeDeliveryService {
	return &fakeDeliveryService{profiles: make(map[uuid.UUID]*models.DeliveryProfile)}
}

func (f *fakeDeliveryService) Create(ctx context.Context, input delivery.ProfileInput) (*models.DeliveryProfile, error) {
	profile := &models.DeliveryProfile{
		ID:           uuid.New(),
		UserID:       input.UserID,
		CustomerName: input.CustomerName,
		Email:        input.Email,
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeDeliveryService) Get(ctx context.Context, id uuid.UUID) (*models.DeliveryProfile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery profile not found")
	}
	return profile, nil
}

func (f *fakeDeliveryService) ListByUser(ctx context.Context, userID string) ([]models.DeliveryProfile, error) {
	return nil, nil
}

func (f *fakeDeliveryService) Update(ctx context.Context, id uuid.UUID, input delivery.ProfileInput) (*models.DeliveryProfile, error) {
	return nil, nil
}

func (f *fakeDeliveryService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.DeliveryProfile, error) {
	return nil, nil
}

func (f *fakeDeliveryService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeGateway struct {
	createCalls int
	confirm     func(ctx context.Context, sessionID string, expected int64) (*payments.ConfirmResult, error)
	createErr   error
}

func (f *fakeGateway) CreateSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &payments.Session{SessionID: "cs_test_1", RedirectURL: "https://checkout.example/cs_test_1"}, nil
}

func (f *fakeGateway) Confirm(ctx context.Context, sessionID string, expected int64) (*payments.ConfirmResult, error) {
	if f.confirm != nil {
		return f.confirm(ctx, sessionID, expected)
	}
	return &payments.ConfirmResult{Succeeded: true, ProviderRef: sessionID}, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, plainBody string) error {
	f.sent = append(f.sent, to)
	return nil
}

func errDuplicateOrderID() error {
	return &duplicateErr{}
}

type duplicateErr struct{}

func (*duplicateErr) Error() string {
	return `duplicate key value violates unique constraint "uq_orders_order_id"`
}

type checkoutFixture struct {
	svc       Service
	cartRepo  *fakeCartRepo
	orders    *fakeOrdersRepo
	sessions  *fakeSessionRepo
	delivery  *fakeDeliveryService
	gateway   *fakeGateway
	notifier  *fakeNotifier
	profileID uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	cartRepo := newFakeCartRepo()
	ordersRepo := newFakeOrdersRepo()
	sessionRepo := newFakeSessionRepo()
	deliverySvc := newFakeDeliveryService()
	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}

	profile := &models.DeliveryProfile{
		ID:     uuid.New(),
		UserID: "user-1",
		Email:  "nimal@example.com",
	}
	deliverySvc.profiles[profile.ID] = profile

	cartRepo.items["user-1"] = []models.CartItem{
		{ID: uuid.New(), UserID: "user-1", Name: "Mango 1kg", UnitPrice: decimal.NewFromFloat(650.00), Quantity: 2},
		{ID: uuid.New(), UserID: "user-1", Name: "Milk Toffee", UnitPrice: decimal.NewFromFloat(120.00), Quantity: 5},
	}

	svc, err := NewService(ServiceParams{
		Tx:          fakeTxRunner{},
		CartRepo:    cartRepo,
		OrdersRepo:  ordersRepo,
		SessionRepo: sessionRepo,
		Delivery:    deliverySvc,
		Gateway:     gateway,
		Notifier:    notifier,
		Config:      config.CheckoutConfig{Currency: "lkr"},
	})
	require.NoError(t, err)

	return &checkoutFixture{
		svc:       svc,
		cartRepo:  cartRepo,
		orders:    ordersRepo,
		sessions:  sessionRepo,
		delivery:  deliverySvc,
		gateway:   gateway,
		notifier:  notifier,
		profileID: profile.ID,
	}
}

func (f *checkoutFixture) input(method string) Input {
	id := f.profileID
	return Input{
		UserID:            "user-1",
		PaymentMethod:     method,
		DeliveryProfileID: &id,
	}
}

func TestCashCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)

	result, err := f.svc.Execute(context.Background(), f.input("cash"))
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, enums.PaymentMethodCash, result.Order.PaymentMethod)
	assert.Equal(t, enums.PaymentStatusPending, result.Order.PaymentStatus)
	assert.True(t, result.Order.TotalAmount.Equal(decimal.NewFromFloat(1900.00)))
	assert.Empty(t, f.cartRepo.items["user-1"])
	assert.Equal(t, []string{"nimal@example.com"}, f.notifier.sent)
}

func TestBankSlipCheckoutAwaitsPayment(t *testing.T) {
	f := newCheckoutFixture(t)

	result, err := f.svc.Execute(context.Background(), f.input("bank_slip"))
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, enums.PaymentStatusAwaitingPayment, result.Order.PaymentStatus)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	delete(f.cartRepo.items, "user-1")

	_, err := f.svc.Execute(context.Background(), f.input("cash"))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Execute(context.Background(), f.input("cheque"))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCheckoutRejectsForeignDeliveryProfile(t *testing.T) {
	f := newCheckoutFixture(t)

	other := &models.DeliveryProfile{ID: uuid.New(), UserID: "user-2"}
	f.delivery.profiles[other.ID] = other

	input := f.input("cash")
	input.DeliveryProfileID = &other.ID
	_, err := f.svc.Execute(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestCardCheckoutCreatesNoOrderUpFront(t *testing.T) {
	f := newCheckoutFixture(t)

	result, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)
	assert.Nil(t, result.Order)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.NotEmpty(t, result.RedirectURL)

	// No order, cart untouched until the provider confirms.
	assert.Empty(t, f.orders.orders)
	assert.Len(t, f.cartRepo.items["user-1"], 2)

	session := f.sessions.sessions["cs_test_1"]
	require.NotNil(t, session)
	assert.Equal(t, int64(190000), session.AmountMinor)
	assert.Equal(t, enums.CheckoutSessionStatusOpen, session.Status)
}

func TestCardConfirmFinalizesOnce(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)

	order, err := f.svc.Confirm(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodCard, order.PaymentMethod)
	require.NotNil(t, order.PaymentProviderRef)
	assert.Empty(t, f.cartRepo.items["user-1"])
	assert.Equal(t, enums.CheckoutSessionStatusSettled, f.sessions.sessions["cs_test_1"].Status)

	// Replay (e.g. webhook after sync confirm) returns the same order.
	again, err := f.svc.Confirm(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, again.OrderID)
	assert.Len(t, f.orders.orders, 1)
}

func TestCardConfirmExpiredSessionLeavesCartIntact(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.confirm = func(ctx context.Context, sessionID string, expected int64) (*payments.ConfirmResult, error) {
		return &payments.ConfirmResult{Succeeded: false, Terminal: true, ProviderRef: sessionID}, nil
	}

	_, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), "cs_test_1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodePaymentDeclined, appErr.Code())

	assert.Empty(t, f.orders.orders)
	assert.Len(t, f.cartRepo.items["user-1"], 2)
	assert.Equal(t, enums.CheckoutSessionStatusFailed, f.sessions.sessions["cs_test_1"].Status)
}

func TestCardConfirmBeforePaymentKeepsSessionOpen(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.confirm = func(ctx context.Context, sessionID string, expected int64) (*payments.ConfirmResult, error) {
		return &payments.ConfirmResult{Succeeded: false, ProviderRef: sessionID}, nil
	}

	_, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)

	// Confirm arrives while the shopper is still on the hosted payment page.
	_, err = f.svc.Confirm(context.Background(), "cs_test_1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, enums.CheckoutSessionStatusOpen, f.sessions.sessions["cs_test_1"].Status)

	// The shopper pays; the webhook-driven confirm must still settle into
	// exactly one order.
	f.gateway.confirm = nil
	order, err := f.svc.Confirm(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Len(t, f.orders.orders, 1)
	assert.Empty(t, f.cartRepo.items["user-1"])
	assert.Equal(t, enums.CheckoutSessionStatusSettled, f.sessions.sessions["cs_test_1"].Status)
}

func TestCardConfirmProviderOutageChangesNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.confirm = func(ctx context.Context, sessionID string, expected int64) (*payments.ConfirmResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment provider timed out")
	}

	_, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), "cs_test_1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())

	// Session stays open so the confirm can be retried later.
	assert.Equal(t, enums.CheckoutSessionStatusOpen, f.sessions.sessions["cs_test_1"].Status)
	assert.Len(t, f.cartRepo.items["user-1"], 2)
}

func TestFailMarksOpenSessionOnly(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Execute(context.Background(), f.input("card"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Fail(context.Background(), "cs_test_1"))
	assert.Equal(t, enums.CheckoutSessionStatusFailed, f.sessions.sessions["cs_test_1"].Status)

	// A settled session is never flipped to failed.
	f.sessions.sessions["cs_test_1"].Status = enums.CheckoutSessionStatusSettled
	require.NoError(t, f.svc.Fail(context.Background(), "cs_test_1"))
	assert.Equal(t, enums.CheckoutSessionStatusSettled, f.sessions.sessions["cs_test_1"].Status)
}

func TestCheckoutWithInlineDeliveryProfile(t *testing.T) {
	f := newCheckoutFixture(t)

	input := Input{
		UserID:        "user-1",
		PaymentMethod: "cash",
		DeliveryProfile: &delivery.ProfileInput{
			CustomerName: "Nimal Perera",
			Email:        "nimal@example.com",
		},
	}
	result, err := f.svc.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.NotEqual(t, uuid.Nil, result.Order.DeliveryProfileID)
}
