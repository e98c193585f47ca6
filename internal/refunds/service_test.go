package refunds

import (
	"context"
	"errors"
	"testing"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRefundRepo struct {
	refunds map[uuid.UUID]*models.Refund
	byOrder map[string]*models.Refund
	create  func(ctx context.Context, refund *models.Refund) (*models.Refund, error)
}

func newStubRefundRepo() *stubRefundRepo {
	return &stubRefundRepo{
		refunds: make(map[uuid.UUID]*models.Refund),
		byOrder: make(map[string]*models.Refund),
	}
}

func (s *stubRefundRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRefundRepo) Create(ctx context.Context, refund *models.Refund) (*models.Refund, error) {
	if s.create != nil {
		return s.create(ctx, refund)
	}
	if _, exists := s.byOrder[refund.OrderID]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "uq_refunds_order_id"`)
	}
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	copied := *refund
	s.refunds[refund.ID] = &copied
	s.byOrder[refund.OrderID] = &copied
	return refund, nil
}

func (s *stubRefundRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	refund, ok := s.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *refund
	return &copied, nil
}

func (s *stubRefundRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Refund, error) {
	refund, ok := s.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *refund
	return &copied, nil
}

func (s *stubRefundRepo) ListByUser(ctx context.Context, userID string) ([]models.Refund, error) {
	var out []models.Refund
	for _, refund := range s.refunds {
		if refund.UserID == userID {
			out = append(out, *refund)
		}
	}
	return out, nil
}

func (s *stubRefundRepo) ListAll(ctx context.Context, status *enums.RefundStatus) ([]models.Refund, error) {
	var out []models.Refund
	for _, refund := range s.refunds {
		if status != nil && refund.Status != *status {
			continue
		}
		out = append(out, *refund)
	}
	return out, nil
}

func (s *stubRefundRepo) Save(ctx context.Context, refund *models.Refund) (*models.Refund, error) {
	copied := *refund
	s.refunds[refund.ID] = &copied
	s.byOrder[refund.OrderID] = &copied
	return refund, nil
}

func (s *stubRefundRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	refund, ok := s.refunds[id]
	if !ok {
		return 0, nil
	}
	delete(s.byOrder, refund.OrderID)
	delete(s.refunds, id)
	return 1, nil
}

type stubOrderLoader struct {
	orders map[string]*models.Order
}

func (s *stubOrderLoader) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func newRefundService(t *testing.T) (Service, *stubRefundRepo, *stubOrderLoader) {
	t.Helper()
	repo := newStubRefundRepo()
	loader := &stubOrderLoader{orders: map[string]*models.Order{
		"ORD-001": {
			OrderID:       "ORD-001",
			UserID:        "user-1",
			TotalAmount:   decimal.NewFromFloat(1900.00),
			PaymentMethod: enums.PaymentMethodCard,
			PaymentStatus: enums.PaymentStatusPaid,
		},
	}}
	svc, err := NewService(ServiceParams{RefundRepo: repo, Orders: loader})
	require.NoError(t, err)
	return svc, repo, loader
}

func validRefundInput() CreateInput {
	return CreateInput{
		OrderID: "ORD-001",
		UserID:  "user-1",
		Amount:  decimal.NewFromFloat(500.00),
		Reason:  "damaged packaging",
	}
}

func TestCreateRefund(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusPending, refund.Status)
	assert.NotEqual(t, uuid.Nil, refund.ID)
}

func TestCreateRefundUnknownOrder(t *testing.T) {
	svc, _, _ := newRefundService(t)

	input := validRefundInput()
	input.OrderID = "ORD-404"
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateRefundWrongUser(t *testing.T) {
	svc, _, _ := newRefundService(t)

	input := validRefundInput()
	input.UserID = "user-2"
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestCreateRefundAmountExceedsTotal(t *testing.T) {
	svc, _, _ := newRefundService(t)

	input := validRefundInput()
	input.Amount = decimal.NewFromFloat(2500.00)
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateRefundUncapturedPaymentRejected(t *testing.T) {
	svc, _, loader := newRefundService(t)

	loader.orders["ORD-002"] = &models.Order{
		OrderID:       "ORD-002",
		UserID:        "user-1",
		TotalAmount:   decimal.NewFromFloat(900.00),
		PaymentMethod: enums.PaymentMethodBankSlip,
		PaymentStatus: enums.PaymentStatusAwaitingPayment,
	}

	input := validRefundInput()
	input.OrderID = "ORD-002"
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestCreateRefundCashOrder(t *testing.T) {
	svc, _, loader := newRefundService(t)

	// Cash is collected on handover, so only a completed order refunds.
	loader.orders["ORD-003"] = &models.Order{
		OrderID:       "ORD-003",
		UserID:        "user-1",
		TotalAmount:   decimal.NewFromFloat(900.00),
		PaymentMethod: enums.PaymentMethodCash,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPending,
	}

	input := validRefundInput()
	input.OrderID = "ORD-003"
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	loader.orders["ORD-003"].Status = enums.OrderStatusCompleted
	refund, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusPending, refund.Status)
}

func TestCreateRefundDuplicateReturnsExisting(t *testing.T) {
	svc, _, _ := newRefundService(t)

	first, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRefundInput())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDuplicate, appErr.Code())

	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	existing, ok := details["existingRefund"].(*models.Refund)
	require.True(t, ok)
	assert.Equal(t, first.ID, existing.ID)
}

func TestRefundStatusWhitelist(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)

	approved, err := svc.UpdateStatus(context.Background(), refund.ID, "approved", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	assert.Equal(t, "admin-1", *approved.ProcessedBy)
	assert.Nil(t, approved.ProcessedAt)

	processed, err := svc.UpdateStatus(context.Background(), refund.ID, "processed", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, enums.RefundStatusProcessed, processed.Status)
	require.NotNil(t, processed.ProcessedAt)

	// Processed is terminal.
	_, err = svc.UpdateStatus(context.Background(), refund.ID, "rejected", "admin-1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestRefundRejectedIsTerminal(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), refund.ID, "rejected", "admin-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), refund.ID, "approved", "admin-1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestRefundPendingCannotBeProcessedDirectly(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), refund.ID, "processed", "admin-1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestDeleteProcessedRefundRejected(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), refund.ID, "approved", "admin-1")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), refund.ID, "processed", "admin-1")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), refund.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestDeletePendingRefundSucceeds(t *testing.T) {
	svc, _, _ := newRefundService(t)

	refund, err := svc.Create(context.Background(), validRefundInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), refund.ID))

	_, err = svc.Get(context.Background(), refund.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
