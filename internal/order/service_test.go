package order

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agriconnect/agrimarket/internal/domain"
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

func validInput() CreateInput {
	return CreateInput{
		CustomerName:  "Asha",
		CustomerEmail: "Asha@Example.com",
		CustomerPhone: "9876543210",
		Items: []ItemInput{
			{ProductID: 101, Name: "Tomatoes", Price: 40, Quantity: 2},
			{ProductID: 102, Name: "Honey", Price: 250},
		},
		TotalAmount: 330,
		Farmer:      "Ravi",
	}
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)

	o, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, o.ID)
	assert.Len(t, o.Reference, 8)
	assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
	assert.Equal(t, "asha@example.com", o.CustomerEmail)
	assert.Equal(t, domain.PaymentMethodPickup, o.PaymentMethod)
	require.Len(t, o.Items, 2)
	// quantity defaults to 1 when omitted
	assert.Equal(t, 1, o.Items[1].Quantity)

	stored, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)

	in := validInput()
	in.CustomerEmail = ""
	in.Items = nil
	in.Farmer = " "

	_, err := svc.Create(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"customerDetails.email", "products", "farmer"}, verr.Fields)
}

func TestSetStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)
	o, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), o.ID, domain.OrderStatusReadyForPickup)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReadyForPickup, updated.Status)
}

func TestSetStatusSkipsIntermediateState(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)
	o, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// the status set is flat: Confirmed straight to Completed is allowed
	updated, err := svc.SetStatus(context.Background(), o.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)

	// and back again
	updated, err = svc.SetStatus(context.Background(), o.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)
	o, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), o.ID, "Shipped")
	var serr *InvalidStatusError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), domain.OrderStatusConfirmed)
	assert.Contains(t, serr.Error(), domain.OrderStatusReadyForPickup)
	assert.Contains(t, serr.Error(), domain.OrderStatusCompleted)

	// the stored status is untouched
	stored, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, stored.Status)
}

func TestSetStatusMissingOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)

	_, err := svc.SetStatus(context.Background(), 12345, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusPublishesEvent(t *testing.T) {
	db := newTestDB(t)
	bus := EventBus.New()
	svc := NewLifecycleService(NewGormRepository(db), bus)

	var got *domain.Order
	require.NoError(t, bus.Subscribe(TopicStatusChanged, func(o *domain.Order) {
		got = o
	}))

	o, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), o.ID, domain.OrderStatusReadyForPickup)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, domain.OrderStatusReadyForPickup, got.Status)
}

func TestListByCustomerAndFarmer(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(NewGormRepository(db), nil)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	other := validInput()
	other.CustomerName = "Vikram"
	other.Farmer = "Meena"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	byCustomer, err := svc.ListByCustomer(context.Background(), "Asha")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "Ravi", byCustomer[0].Farmer)

	byFarmer, err := svc.ListByFarmer(context.Background(), "Meena")
	require.NoError(t, err)
	require.Len(t, byFarmer, 1)
	assert.Equal(t, "Vikram", byFarmer[0].CustomerName)
}
