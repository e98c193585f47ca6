package cart

import (
	"context"
	"testing"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  image_ref TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_cart_items_user_line UNIQUE (user_id, name, unit_price, image_ref)
);`
	require.NoError(t, gdb.Exec(schema).Error)
	return gdb
}

func newCartItem(userID, name string, price float64, qty int) *models.CartItem {
	return &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		UnitPrice: decimal.NewFromFloat(price),
		Quantity:  qty,
	}
}

func TestCartRepoCreateAndList(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newCartItem("user-1", "Mango 1kg", 650.00, 2))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCartItem("user-1", "Milk Toffee", 120.00, 5))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCartItem("user-2", "Mango 1kg", 650.00, 1))
	require.NoError(t, err)

	items, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestCartRepoDuplicateLineHitsConstraint(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	first := newCartItem("user-1", "Mango 1kg", 650.00, 2)
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	dup := newCartItem("user-1", "Mango 1kg", 650.00, 4)
	_, err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "uq_cart_items_user_line"))

	existing, err := repo.FindByUserLine(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, first.ID, existing.ID)
	assert.Equal(t, 2, existing.Quantity)
}

func TestCartRepoSamePriceDifferentImageIsDistinct(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	a := newCartItem("user-1", "Mango 1kg", 650.00, 1)
	a.ImageRef = "mango-a.jpg"
	b := newCartItem("user-1", "Mango 1kg", 650.00, 1)
	b.ImageRef = "mango-b.jpg"

	_, err := repo.Create(ctx, a)
	require.NoError(t, err)
	_, err = repo.Create(ctx, b)
	require.NoError(t, err)
}

func TestCartRepoUpdateQuantity(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	item := newCartItem("user-1", "Mango 1kg", 650.00, 1)
	_, err := repo.Create(ctx, item)
	require.NoError(t, err)

	affected, err := repo.UpdateQuantity(ctx, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Quantity)

	affected, err = repo.UpdateQuantity(ctx, uuid.New(), 2)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestCartRepoDeleteScopedToUser(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	item := newCartItem("user-1", "Mango 1kg", 650.00, 1)
	_, err := repo.Create(ctx, item)
	require.NoError(t, err)

	affected, err := repo.Delete(ctx, "someone-else", item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.Delete(ctx, "user-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestCartRepoDeleteAllForUser(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newCartItem("user-1", "Mango 1kg", 650.00, 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCartItem("user-1", "Milk Toffee", 120.00, 2))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newCartItem("user-2", "Mango 1kg", 650.00, 1))
	require.NoError(t, err)

	affected, err := repo.DeleteAllForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	remaining, err := repo.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}
