package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/pagination"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	orders map[string]*models.Order
	create func(ctx context.Context, order *models.Order) (*models.Order, error)
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{orders: make(map[string]*models.Order)}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.create != nil {
		return s.create(ctx, order)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	s.orders[order.OrderID] = &copied
	return order, nil
}

func (s *stubOrdersRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID string, status *enums.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		if status != nil && order.Status != *status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (OrderPage, error) {
	var out []models.Order
	for _, order := range s.orders {
		if status != nil && order.Status != *status {
			continue
		}
		out = append(out, *order)
	}
	return OrderPage{Orders: out}, nil
}

func (s *stubOrdersRepo) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	copied := *order
	s.orders[order.OrderID] = &copied
	return order, nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, orderID string) (int64, error) {
	if _, ok := s.orders[orderID]; !ok {
		return 0, nil
	}
	delete(s.orders, orderID)
	return 1, nil
}

func (s *stubOrdersRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	var removed int64
	for id, order := range s.orders {
		if order.UserID == userID {
			delete(s.orders, id)
			removed++
		}
	}
	return removed, nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		UserID:            "user-1",
		DeliveryProfileID: uuid.New(),
		CustomerEmail:     "nimal@example.com",
		PaymentMethod:     enums.PaymentMethodCash,
		PaymentStatus:     enums.PaymentStatusPending,
		Items: types.OrderLines{
			{Name: "Mango 1kg", UnitPrice: decimal.NewFromFloat(650.00), Quantity: 2},
			{Name: "Milk Toffee", UnitPrice: decimal.NewFromFloat(120.00), Quantity: 5},
		},
		TotalAmount: decimal.NewFromFloat(1900.00),
	}
}

func TestCreateOrderGeneratesIDAndSnapshotsItems(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(1900.00)))
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	input := validCreateInput()
	input.Items = nil
	_, err = svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateOrderRejectsTotalMismatch(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	input := validCreateInput()
	input.TotalAmount = decimal.NewFromFloat(999.00)
	_, err = svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateOrderRejectsBadLine(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	input := validCreateInput()
	input.Items = types.OrderLines{{Name: "Mango 1kg", UnitPrice: decimal.NewFromFloat(-1), Quantity: 1}}
	input.TotalAmount = decimal.NewFromFloat(-1)
	_, err = svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateOrderDuplicateID(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.create = func(ctx context.Context, order *models.Order) (*models.Order, error) {
		return nil, errors.New(`duplicate key value violates unique constraint "uq_orders_order_id"`)
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	input := validCreateInput()
	input.OrderID = "ORD-001"
	_, err = svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDuplicate, appErr.Code())
}

func TestUpdateStatusWhitelist(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.OrderID, "processing")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), order.OrderID, "completed")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)

	// Completed is terminal.
	_, err = svc.UpdateStatus(context.Background(), order.OrderID, "cancelled")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestUpdateStatusRejectsSkip(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.OrderID, "completed")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestBankSlipFlow(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	input := validCreateInput()
	input.PaymentMethod = enums.PaymentMethodBankSlip
	input.PaymentStatus = enums.PaymentStatusAwaitingPayment
	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	// Confirming before a slip exists is a conflict.
	_, err = svc.ConfirmBankSlip(context.Background(), order.OrderID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	attached, err := svc.AttachBankSlip(context.Background(), order.OrderID, "slips/abc.jpg")
	require.NoError(t, err)
	require.NotNil(t, attached.BankSlipRef)

	confirmed, err := svc.ConfirmBankSlip(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, confirmed.PaymentStatus)

	// Re-confirming a paid order is a conflict.
	_, err = svc.ConfirmBankSlip(context.Background(), order.OrderID)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestAttachBankSlipRejectsCashOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.AttachBankSlip(context.Background(), order.OrderID, "slips/abc.jpg")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestListByUserRejectsBadFilter(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	_, err = svc.ListByUser(context.Background(), "user-1", "shipped")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDeleteNotFound(t *testing.T) {
	svc, err := NewService(newStubOrdersRepo())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "missing-order")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
