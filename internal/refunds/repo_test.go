package refunds

import (
	"context"
	"testing"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRefundsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE refunds (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  reason TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  processed_by TEXT,
  processed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_refunds_order_id UNIQUE (order_id)
);`
	require.NoError(t, gdb.Exec(schema).Error)
	return gdb
}

func newRefund(orderID, userID string) *models.Refund {
	return &models.Refund{
		ID:      uuid.New(),
		OrderID: orderID,
		UserID:  userID,
		Amount:  decimal.NewFromFloat(500.00),
		Reason:  "damaged packaging",
		Status:  enums.RefundStatusPending,
	}
}

func TestRefundsRepoSecondRefundForOrderHitsConstraint(t *testing.T) {
	repo := NewRepository(setupRefundsTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newRefund("ORD-001", "user-1"))
	require.NoError(t, err)

	// Even a different user cannot open a second refund for the same order.
	_, err = repo.Create(ctx, newRefund("ORD-001", "user-2"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "uq_refunds_order_id"))

	existing, err := repo.FindByOrderID(ctx, "ORD-001")
	require.NoError(t, err)
	assert.Equal(t, "user-1", existing.UserID)
}

func TestRefundsRepoListAllFiltersByStatus(t *testing.T) {
	repo := NewRepository(setupRefundsTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newRefund("ORD-001", "user-1"))
	require.NoError(t, err)

	approved := newRefund("ORD-002", "user-2")
	approved.Status = enums.RefundStatusApproved
	_, err = repo.Create(ctx, approved)
	require.NoError(t, err)

	status := enums.RefundStatusApproved
	out, err := repo.ListAll(ctx, &status)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ORD-002", out[0].OrderID)
}
