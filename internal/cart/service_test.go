package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:    common.UUIDint64(),
		Name:  name,
		Email: name + "@example.com",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:       common.UUIDint64(),
		Name:     name,
		Farmer:   "Ravi",
		Category: "Vegetables",
		BuyType:  domain.BuyTypeDirect,
		Price:    40,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAddItemAggregatesQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	u := seedUser(t, db, "asha")
	p := seedProduct(t, db, "Tomatoes")

	_, err := svc.AddItem(context.Background(), u.ID, p.ID, 2)
	require.NoError(t, err)
	lines, err := svc.AddItem(context.Background(), u.ID, p.ID, 3)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, p.ID, lines[0].Product.ID)

	// a single stored row, never duplicates
	var count int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	u := seedUser(t, db, "asha")
	p := seedProduct(t, db, "Tomatoes")

	lines, err := svc.AddItem(context.Background(), u.ID, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestGetCartFiltersDanglingProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	u := seedUser(t, db, "asha")
	kept := seedProduct(t, db, "Tomatoes")
	doomed := seedProduct(t, db, "Spinach")

	_, err := svc.AddItem(context.Background(), u.ID, kept.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), u.ID, doomed.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&domain.Product{}, doomed.ID).Error)

	lines, err := svc.GetCart(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, kept.ID, lines[0].Product.ID)

	// the dangling line stays in storage, only the view drops it
	var count int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	u := seedUser(t, db, "asha")
	p := seedProduct(t, db, "Tomatoes")

	_, err := svc.AddItem(context.Background(), u.ID, p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), u.ID, 99999))

	lines, err := svc.GetCart(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, svc.RemoveItem(context.Background(), u.ID, p.ID))
	lines, err = svc.GetCart(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClearEmptiesCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	u := seedUser(t, db, "asha")
	p1 := seedProduct(t, db, "Tomatoes")
	p2 := seedProduct(t, db, "Spinach")

	_, err := svc.AddItem(context.Background(), u.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), u.ID, p2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), u.ID))

	lines, err := svc.GetCart(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartOperationsRequireUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGormRepository(db))
	p := seedProduct(t, db, "Tomatoes")

	_, err := svc.AddItem(context.Background(), 42, p.ID, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetCart(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.RemoveItem(context.Background(), 42, p.ID), ErrUserNotFound)
	assert.ErrorIs(t, svc.Clear(context.Background(), 42), ErrUserNotFound)
}
